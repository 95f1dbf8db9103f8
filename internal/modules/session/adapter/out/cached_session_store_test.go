package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sessionadapter "efforts/internal/modules/session/adapter/out"
	"efforts/internal/modules/session/domain"
	sessionout "efforts/internal/modules/session/port/out"
	apperrors "efforts/internal/platform/errors"
)

type countingStore struct {
	sessionout.SessionStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, id string) (domain.Session, error) {
	c.gets++
	return c.SessionStore.Get(ctx, id)
}

func newCountingStore(t *testing.T) *countingStore {
	t.Helper()
	backing, err := sessionadapter.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "efforts.db"), time.UTC)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = backing.Close() })
	return &countingStore{SessionStore: backing}
}

func TestCachedSessionStoreSharesContract(t *testing.T) {
	t.Parallel()
	cached, err := sessionadapter.NewCachedSessionStore(newCountingStore(t), 4)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	exerciseStore(t, cached)
}

func TestCachedSessionStoreServesAndInvalidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backing := newCountingStore(t)
	cached, err := sessionadapter.NewCachedSessionStore(backing, 2)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	s := completed("a", at(7, 9, 0), 30, domain.QualityDeep)
	if _, err := cached.Put(ctx, s); err != nil {
		t.Fatalf("put: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := cached.Get(ctx, "a"); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if backing.gets != 0 {
		t.Fatalf("written session must be served from cache, backing saw %d gets", backing.gets)
	}

	s.Notes = "edited"
	if _, err := cached.Put(ctx, s); err != nil {
		t.Fatalf("put edited: %v", err)
	}
	got, _ := cached.Get(ctx, "a")
	if got.Notes != "edited" {
		t.Fatalf("cache must follow writes, got %q", got.Notes)
	}

	if err := cached.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cached.Get(ctx, "a"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if backing.gets != 1 {
		t.Fatalf("miss after delete must reach the backing store once, saw %d", backing.gets)
	}

	for _, id := range []string{"x", "y", "z"} {
		if _, err := cached.Put(ctx, completed(id, at(7, 10, 0), 10, domain.QualityPoor)); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	if cached.Len() != 2 {
		t.Fatalf("cache must stay bounded, len=%d", cached.Len())
	}
}

func TestCachedSessionStoreRejectsBadSize(t *testing.T) {
	t.Parallel()
	if _, err := sessionadapter.NewCachedSessionStore(newCountingStore(t), 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
}
