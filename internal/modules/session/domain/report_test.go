package domain_test

import (
	"strings"
	"testing"
	"time"

	"efforts/internal/modules/session/domain"
)

func TestToMarkdownFullSession(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	s, _ := domain.New("id-1", "# Deep Work\nplan X", 25, start)
	s = s.End(start.Add(30 * time.Minute))
	s, _ = s.Rate(domain.QualityDeep, "felt good", start.Add(31*time.Minute))

	want := "# Deep Work\n" +
		"_Session time: 09:00 - 09:30_\n\n" +
		"## Goal\n# Deep Work\nplan X\n" +
		"## Session quality\n💠 Deep\n" +
		"### Notes\nfelt good\n" +
		"## Overtime\n5m -> 09:25 - 09:30\n"
	if got := domain.ToMarkdown(s); got != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", got, want)
	}
}

func TestToMarkdownOngoingSessionOmitsOptionalSections(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 7, 14, 5, 0, 0, time.UTC)
	s, _ := domain.New("id-1", "", 0, start)
	got := domain.ToMarkdown(s)
	if !strings.HasPrefix(got, "# Untitled Session\n_Session time: 14:05 - ongoing_") {
		t.Fatalf("unexpected header: %q", got)
	}
	for _, section := range []string{"## Session quality", "### Notes", "## Overtime"} {
		if strings.Contains(got, section) {
			t.Fatalf("unexpected section %q in %q", section, got)
		}
	}
}

func TestDailyReportEmptyNamesDate(t *testing.T) {
	t.Parallel()
	d := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	got := domain.DailyReport(nil, d)
	if got != "# No focus sessions on 2026-03-07" {
		t.Fatalf("unexpected empty report %q", got)
	}
}

func TestDailyReportOrdersByStartTime(t *testing.T) {
	t.Parallel()
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	late, _ := domain.New("b", "# Afternoon", 0, day.Add(15*time.Hour))
	early, _ := domain.New("a", "# Morning", 0, day.Add(8*time.Hour))
	mid, _ := domain.New("c", "# Noon", 0, day.Add(12*time.Hour))
	input := []domain.Session{late, early, mid}

	got := domain.DailyReport(input, day)
	iMorning := strings.Index(got, "# Morning")
	iNoon := strings.Index(got, "# Noon")
	iAfternoon := strings.Index(got, "# Afternoon")
	if !(iMorning >= 0 && iMorning < iNoon && iNoon < iAfternoon) {
		t.Fatalf("sessions not in start order:\n%s", got)
	}
	if strings.Count(got, "\n\n# ") != 2 {
		t.Fatalf("expected sessions separated by blank lines:\n%s", got)
	}
	if input[0].ID != "b" {
		t.Fatalf("input slice must not be reordered")
	}
}
