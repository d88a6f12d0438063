package app_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"places_reviewcheck/internal/app"
	"places_reviewcheck/internal/domain"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter", "short", 10, "short"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdef", 5, "abcde..."},
		{"disabled", strings.Repeat("x", 500), 0, strings.Repeat("x", 500)},
		{"runes", "héllo wörld", 4, "héll..."},
	}
	for _, tc := range cases {
		if got := app.Truncate(tc.in, tc.n); got != tc.want {
			t.Fatalf("%s: Truncate(%q, %d) = %q, want %q", tc.name, tc.in, tc.n, got, tc.want)
		}
	}
}

func TestTruncate_ExactLengthPlusMarker(t *testing.T) {
	for _, n := range []int{200, 300} {
		got := app.Truncate(strings.Repeat("é", n+1), n)
		if !strings.HasSuffix(got, app.Ellipsis) {
			t.Fatalf("n=%d: missing ellipsis", n)
		}
		if utf8.RuneCountInString(got) != n+len(app.Ellipsis) {
			t.Fatalf("n=%d: got %d runes", n, utf8.RuneCountInString(got))
		}
	}
}

func TestMatchTargets(t *testing.T) {
	reviews := []domain.Review{
		{Author: ptr("Jose Hernandez III")},
		{Author: ptr("ERIC P.")},
		{Author: nil},
		{Author: ptr("Bob")},
	}
	got := app.MatchTargets(reviews, []string{"Jose Hernandez", "Eric", ""})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
	if got[0].String() != "Jose Hernandez III (matches Jose Hernandez)" {
		t.Fatalf("unexpected match: %s", got[0])
	}
	if got[1].Author != "ERIC P." || got[1].Target != "Eric" {
		t.Fatalf("unexpected match: %+v", got[1])
	}
	if app.MatchTargets(reviews, nil) != nil {
		t.Fatalf("no targets means no matches")
	}
}

func TestFormatReview_Placeholders(t *testing.T) {
	basic := domain.Profile{TruncateAt: 200, SeparatorWidth: 50}
	got := app.FormatReview(basic, domain.Review{}, 0)
	want := "\n📝 Review #1:\n" +
		"👤 Author: Anonymous\n" +
		"⭐ Rating: 0/5 stars\n" +
		"🕐 Time: Unknown time\n" +
		"💬 Review: \n" +
		strings.Repeat("=", 50)
	if got != want {
		t.Fatalf("unexpected block:\n%q\nwant\n%q", got, want)
	}

	v1 := domain.Profile{TruncateAt: 300, SeparatorWidth: 50, EmptyText: "No text available"}
	if s := app.FormatReview(v1, domain.Review{}, 2); !strings.Contains(s, "💬 Review: No text available\n") ||
		!strings.Contains(s, "Review #3:") {
		t.Fatalf("unexpected new-api block:\n%s", s)
	}
}

func TestFormatReview_LegacyVerbose(t *testing.T) {
	p := domain.Profile{ShowTimestamp: true, SeparatorWidth: 70}
	long := strings.Repeat("b", 400)
	r := domain.Review{
		Author:       ptr("Maria Wagenius"),
		Rating:       ptr(4.5),
		Text:         ptr(long),
		RelativeTime: ptr("a month ago"),
		Timestamp:    ptr("1700000000"),
	}
	s := app.FormatReview(p, r, 0)
	for _, want := range []string{
		"👤 Author: Maria Wagenius\n",
		"⭐ Rating: 4.5/5 stars\n",
		"🕐 Relative Time: a month ago\n",
		"📅 Timestamp: 1700000000\n",
		"💬 Review: " + long + "\n",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in:\n%s", want, s)
		}
	}
	if !strings.HasSuffix(s, "\n"+strings.Repeat("=", 70)) {
		t.Fatalf("expected 70-wide separator")
	}
}
