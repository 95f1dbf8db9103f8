package out_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	sessionadapter "efforts/internal/modules/session/adapter/out"
	"efforts/internal/modules/session/domain"
	"efforts/internal/platform/config"
)

func setupRedisStore(t *testing.T) (*sessionadapter.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := sessionadapter.OpenRedisSessionStore(config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test"}, time.UTC)
	if err != nil {
		t.Fatalf("open redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisSessionStore(t *testing.T) {
	t.Parallel()
	store, _ := setupRedisStore(t)
	exerciseStore(t, store)
}

func TestRedisSessionStoreKeyLayout(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	active := domain.Session{ID: "live", Goals: "x", StartTime: at(5, 10, 0), Status: domain.StatusActive}
	if _, err := store.Put(ctx, active); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("test:session:live") {
		t.Fatalf("expected session hash")
	}
	if members, err := mr.SMembers("test:sessions:active"); err != nil || len(members) != 1 || members[0] != "live" {
		t.Fatalf("expected live in active set, got %v (%v)", members, err)
	}
	if got := mr.HGet("test:session:live", "end_time"); got != "" {
		t.Fatalf("running session must have no end time, got %q", got)
	}

	if _, err := store.Put(ctx, active.Cancel(at(5, 10, 5))); err != nil {
		t.Fatalf("put cancelled: %v", err)
	}
	if members, _ := mr.SMembers("test:sessions:active"); len(members) != 0 {
		t.Fatalf("cancelled session must leave the active set, got %v", members)
	}
}

func TestRedisSessionStoreSkipsDanglingIndexEntries(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := sessionadapter.NewRedisSessionStore(client, "", time.UTC)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if _, err := store.Put(ctx, completed("a", at(6, 9, 0), 30, domain.QualityGreat)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := mr.ZAdd("efforts:sessions:by_start", float64(at(6, 10, 0).UnixMilli()), "ghost"); err != nil {
		t.Fatalf("seed index: %v", err)
	}
	day, err := store.GetForDay(ctx, at(6, 0, 0))
	if err != nil {
		t.Fatalf("get for day: %v", err)
	}
	sameIDs(t, "day", day, "a")
}
