package slug_test

import (
	"strings"
	"testing"

	"efforts/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Deep Work":           "deep-work",
		"  Write: RFC #12  ":   "write-rfc-12",
		"":                    "untitled-session",
		"###":                 "untitled-session",
		"Ünïcode only words":  "n-code-only-words",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	long := slug.Make(strings.Repeat("focus ", 30))
	if len(long) > 48 || strings.HasSuffix(long, "-") {
		t.Fatalf("long slug not trimmed: %q", long)
	}
}
