package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"places_reviewcheck/internal/domain"
)

const Ellipsis = "..."

// placeholders for absent fields; applied only when rendering
const (
	noAuthor    = "Anonymous"
	noRating    = "0"
	noTime      = "Unknown time"
	noTimestamp = "No timestamp"
	noAggregate = "N/A"
)

// Match is one (review author, target name) hit.
type Match struct {
	Author string `json:"author"`
	Target string `json:"target"`
}

func (m Match) String() string { return fmt.Sprintf("%s (matches %s)", m.Author, m.Target) }

// Truncate cuts text to n characters plus Ellipsis; n <= 0 keeps it whole.
func Truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + Ellipsis
}

// MatchTargets flags every review whose author contains a target,
// case-insensitively. One review can match several targets.
func MatchTargets(reviews []domain.Review, targets []string) []Match {
	var out []Match
	for _, r := range reviews {
		author := deref(r.Author)
		low := strings.ToLower(author)
		for _, t := range targets {
			if t == "" {
				continue
			}
			if strings.Contains(low, strings.ToLower(t)) {
				out = append(out, Match{Author: author, Target: t})
			}
		}
	}
	return out
}

// FormatReview renders one review block; index is zero-based.
func FormatReview(p domain.Profile, r domain.Review, index int) string {
	text := deref(r.Text)
	if r.Text == nil {
		text = p.EmptyText
	}
	text = Truncate(text, p.TruncateAt)

	var b strings.Builder
	fmt.Fprintf(&b, "\n📝 Review #%d:\n", index+1)
	fmt.Fprintf(&b, "👤 Author: %s\n", orDefault(r.Author, noAuthor))
	fmt.Fprintf(&b, "⭐ Rating: %s/5 stars\n", formatFloat(r.Rating, noRating))
	if p.ShowTimestamp {
		fmt.Fprintf(&b, "🕐 Relative Time: %s\n", orDefault(r.RelativeTime, noTime))
		fmt.Fprintf(&b, "📅 Timestamp: %s\n", orDefault(r.Timestamp, noTimestamp))
	} else {
		fmt.Fprintf(&b, "🕐 Time: %s\n", orDefault(r.RelativeTime, noTime))
	}
	fmt.Fprintf(&b, "💬 Review: %s\n", text)
	b.WriteString(strings.Repeat("=", p.SeparatorWidth))
	return b.String()
}

// Reporter writes the console report. Write errors are ignored: a broken
// stdout is not something the check can recover from.
type Reporter struct {
	w io.Writer
	p domain.Profile
}

func NewReporter(w io.Writer, p domain.Profile) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w, p: p}
}

func (r *Reporter) line(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *Reporter) rule() { r.line("%s", strings.Repeat("=", r.p.BannerWidth)) }

func (r *Reporter) Header() {
	r.line("%s", r.p.Title)
	if r.p.Subtitle != "" {
		r.line("%s", r.p.Subtitle)
	}
	r.rule()
}

func (r *Reporter) Attempt(n int, query string) {
	r.line("\n🔍 Attempt %d: Searching for '%s'", n, query)
}

const stepRule = 50

func (r *Reporter) Searching(query string) {
	r.line("🔍 Searching for: %s", query)
	if r.p.Verbose {
		r.line("%s", strings.Repeat("=", stepRule))
	}
}

func (r *Reporter) FoundPlace(c domain.Candidate) {
	if r.p.Verbose {
		r.line("Find Place API Response Status: OK")
	}
	r.line("Found place: %s - %s", orDefault(c.Name, "Unknown"), orDefault(c.Address, "Unknown address"))
	if r.p.Verbose {
		r.line("✅ Found place_id: %s", c.Ref)
		r.line("%s", strings.Repeat("=", stepRule))
	}
}

// DetailsRequest announces the details call; the URL is not echoed since it
// carries the key.
func (r *Reporter) DetailsRequest() {
	if r.p.Verbose && r.p.NewestFirst {
		r.line("🔥 USING LEGACY API WITH reviews_sort=newest parameter")
	}
}

func (r *Reporter) Summary(d domain.PlaceDetails) {
	if r.p.Verbose {
		r.line("Place Details API Response Status: OK")
	}
	r.line("📝 Found %d reviews from %s", len(d.Reviews), r.p.Label)
	r.line("⭐ Overall rating: %s/5", formatFloat(d.Rating, noAggregate))
	count := noAggregate
	if d.RatingCount != nil {
		count = strconv.FormatInt(*d.RatingCount, 10)
	}
	r.line("📊 Total ratings: %s", count)
	if r.p.Verbose && r.p.NewestFirst {
		r.line("🎯 Reviews should be sorted by NEWEST first")
	}
}

func (r *Reporter) Success(d domain.PlaceDetails) {
	r.line("\n🎉 SUCCESS: Retrieved %d reviews from %s", len(d.Reviews), r.p.Label)
	if r.p.SuccessNote != "" {
		r.line("%s", r.p.SuccessNote)
	}
	if len(r.p.Targets) > 0 {
		r.line("🎯 Looking for: %s", strings.Join(r.p.Targets, ", "))
	}
	r.rule()
	for i, rv := range d.Reviews {
		r.line("%s", FormatReview(r.p, rv, i))
	}
}

// Targets prints the match report; silent when the profile has no targets.
func (r *Reporter) Targets(ms []Match) {
	if len(r.p.Targets) == 0 {
		return
	}
	if len(ms) == 0 {
		r.line("\n❌ None of the target reviewers found in %s results", r.p.Label)
		r.line("   Looking for: %s", strings.Join(r.p.Targets, ", "))
		return
	}
	r.line("\n🎯 TARGET REVIEWERS FOUND:")
	for _, m := range ms {
		r.line("   ✅ %s", m)
	}
}

func (r *Reporter) Exhausted() {
	r.line("\n❌ No reviews found via %s with any search term", r.p.Label)
	r.line("Possible issues:")
	for _, c := range r.p.Causes {
		r.line("- %s", c)
	}
	if len(r.p.Fixes) > 0 {
		r.line("\n🔧 To fix:")
		for i, f := range r.p.Fixes {
			r.line("%d. %s", i+1, f)
		}
	}
	if r.p.Note != "" {
		r.line("\n🔧 Note:")
		r.line("%s", r.p.Note)
	}
}

/********** helpers **********/

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func orDefault(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func formatFloat(f *float64, def string) string {
	if f == nil {
		return def
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
