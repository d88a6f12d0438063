package app

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"places_reviewcheck/internal/adapters/observability"
	"places_reviewcheck/internal/domain"
)

type Result struct {
	Found    bool                `json:"found"`
	Query    string              `json:"query,omitempty"`
	Attempts int                 `json:"attempts"`
	Place    domain.PlaceDetails `json:"-"`
	Matches  []Match             `json:"matches"`
}

// Driver tries the profile's candidate queries in order and stops at the
// first one that yields reviews.
type Driver struct {
	lookup  *Lookup
	profile domain.Profile
	rep     *Reporter
}

func NewDriver(c domain.PlacesClient, p domain.Profile, out io.Writer) *Driver {
	return &Driver{lookup: NewLookup(c, p.API), profile: p, rep: NewReporter(out, p)}
}

func (d *Driver) Run(ctx context.Context) (Result, error) {
	var res Result
	d.rep.Header()

	for i, q := range d.profile.Candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempts = i + 1
		d.rep.Attempt(i+1, q)

		place, outcome := d.attempt(ctx, q)
		// a canceled call looks like absence to Lookup; it is not a miss
		if err := ctx.Err(); err != nil {
			return res, err
		}
		observability.ObserveCandidate(d.profile.Name, outcome)
		log.Debug().Str("profile", d.profile.Name).Str("query", q).Str("outcome", outcome).Msg("candidate done")
		if outcome != "found" {
			continue
		}

		res.Found = true
		res.Query = q
		res.Place = place
		res.Matches = MatchTargets(place.Reviews, d.profile.Targets)
		d.rep.Success(place)
		d.rep.Targets(res.Matches)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	d.rep.Exhausted()
	return res, nil
}

// attempt runs resolve then details for one query.
func (d *Driver) attempt(ctx context.Context, q string) (domain.PlaceDetails, string) {
	d.rep.Searching(q)
	cand, ok := d.lookup.Resolve(ctx, q)
	if !ok {
		return domain.PlaceDetails{}, "no_place"
	}
	d.rep.FoundPlace(cand)

	d.rep.DetailsRequest()
	place, ok := d.lookup.Details(ctx, cand.Ref)
	if !ok {
		return domain.PlaceDetails{}, "no_details"
	}
	d.rep.Summary(place)
	if len(place.Reviews) == 0 {
		return place, "no_reviews"
	}
	return place, "found"
}
