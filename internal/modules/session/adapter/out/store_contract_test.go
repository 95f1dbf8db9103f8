package out_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"efforts/internal/modules/session/domain"
	sessionout "efforts/internal/modules/session/port/out"
	apperrors "efforts/internal/platform/errors"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func completed(id string, start time.Time, minutes int, q domain.Quality) domain.Session {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return domain.Session{
		ID:              id,
		Goals:           "# " + id,
		PlannedDuration: 25,
		ActualDuration:  minutes,
		StartTime:       start,
		EndTime:         &end,
		Overtime:        max(0, minutes-25),
		Quality:         q,
		Notes:           "notes " + id,
		Status:          domain.StatusCompleted,
	}
}

func ids(sessions []domain.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func sameIDs(t *testing.T, label string, got []domain.Session, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("%s: expected %v, got %v", label, want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("%s: expected %v, got %v", label, want, gotIDs)
		}
	}
}

// exerciseStore runs the behaviour every SessionStore backend must share.
func exerciseStore(t *testing.T, store sessionout.SessionStore) {
	t.Helper()
	ctx := context.Background()

	cancelledEnd := at(2, 11, 10)
	fixtures := []domain.Session{
		completed("a", at(2, 9, 0), 30, domain.QualityDeep),
		completed("b", at(2, 7, 0), 20, domain.QualityPoor),
		{ID: "c", Goals: "cancelled", StartTime: at(2, 11, 0), EndTime: &cancelledEnd, Status: domain.StatusCancelled},
		{ID: "d", Goals: "running", PlannedDuration: 50, StartTime: at(2, 12, 0), Status: domain.StatusActive},
		completed("e", at(3, 0, 0), 45, domain.QualityGreat),
		completed("f", time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC), 10, domain.QualityNormal),
	}
	for _, s := range fixtures {
		id, err := store.Put(ctx, s)
		if err != nil {
			t.Fatalf("put %s: %v", s.ID, err)
		}
		if id != s.ID {
			t.Fatalf("put returned %q, want %q", id, s.ID)
		}
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Goals != "# a" || got.ActualDuration != 30 || got.Overtime != 5 || got.Quality != domain.QualityDeep || got.Notes != "notes a" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.StartTime.Equal(at(2, 9, 0)) || got.EndTime == nil || !got.EndTime.Equal(at(2, 9, 30)) {
		t.Fatalf("times not preserved: %v %v", got.StartTime, got.EndTime)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != len(fixtures) {
		t.Fatalf("expected %d sessions, got %d", len(fixtures), len(all))
	}

	day, err := store.GetForDay(ctx, at(2, 15, 0))
	if err != nil {
		t.Fatalf("get for day: %v", err)
	}
	sameIDs(t, "day", day, "b", "a")

	inRange, err := store.GetInRange(ctx, time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC), at(3, 0, 0))
	if err != nil {
		t.Fatalf("get in range: %v", err)
	}
	sameIDs(t, "inclusive range", inRange, "f", "b", "a", "e")

	active, err := store.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != "d" || active.EndTime != nil || active.PlannedDuration != 50 {
		t.Fatalf("unexpected active session: %+v", active)
	}

	rated, err := active.Rate(domain.QualityGreat, "done", at(2, 12, 40))
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := store.Put(ctx, rated); err != nil {
		t.Fatalf("put rated: %v", err)
	}
	if _, err := store.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	day, err = store.GetForDay(ctx, at(2, 0, 0))
	if err != nil {
		t.Fatalf("get for day: %v", err)
	}
	sameIDs(t, "day after rating", day, "b", "a", "d")

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
	day, err = store.GetForDay(ctx, at(2, 0, 0))
	if err != nil {
		t.Fatalf("get for day: %v", err)
	}
	sameIDs(t, "day after delete", day, "b", "d")
}
