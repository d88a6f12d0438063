package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"places_reviewcheck/internal/domain"
)

const (
	legacyFindFields    = "place_id,name,formatted_address"
	legacyDetailsFields = "name,formatted_address,rating,user_ratings_total,reviews"
)

// Legacy talks to the query-parameter Places API (maps.googleapis.com).
type Legacy struct {
	base        string
	key         string
	newestFirst bool
	t           transport
}

func NewLegacy(base, key string, opts ...Option) (*Legacy, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	if base == "" {
		base = DefaultLegacyBase
	}
	s := buildSettings(opts)
	return &Legacy{
		base:        strings.TrimRight(base, "/"),
		key:         key,
		newestFirst: s.newestFirst,
		t:           transport{hc: s.hc},
	}, nil
}

func (c *Legacy) FindPlace(ctx context.Context, query string) (domain.Candidate, error) {
	q := url.Values{}
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", legacyFindFields)

	res, err := c.get(ctx, "findplacefromtext", "/findplacefromtext/json", q)
	if err != nil {
		return domain.Candidate{}, err
	}
	first := res.Get("candidates.0")
	if !first.Exists() {
		return domain.Candidate{}, ErrNoPlace
	}
	cand := mapLegacyCandidate(first)
	if cand.Ref == "" {
		return domain.Candidate{}, ErrNoPlace
	}
	return cand, nil
}

func (c *Legacy) GetDetails(ctx context.Context, ref domain.PlaceRef) (domain.PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", string(ref))
	q.Set("fields", legacyDetailsFields)
	if c.newestFirst {
		q.Set("reviews_sort", "newest")
	}

	res, err := c.get(ctx, "details", "/details/json", q)
	if err != nil {
		return domain.PlaceDetails{}, err
	}
	d := mapLegacyDetails(res.Get("result"))
	d.Ref = ref
	return d, nil
}

// get issues one GET and checks the body-level status field.
func (c *Legacy) get(ctx context.Context, endpoint, path string, q url.Values) (gjson.Result, error) {
	q.Set("key", c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return gjson.Result{}, err
	}
	body, err := c.t.do(ctx, req, endpoint)
	if err != nil {
		return gjson.Result{}, err
	}
	res := gjson.ParseBytes(body)
	if err := checkStatus(res); err != nil {
		return gjson.Result{}, fmt.Errorf("places %s: %w", endpoint, err)
	}
	return res, nil
}

// checkStatus maps the legacy "status" field onto package sentinels.
func checkStatus(res gjson.Result) error {
	status := res.Get("status").String()
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return fmt.Errorf("%w (status %s)", ErrNoPlace, status)
	case "":
		status = "Unknown"
	}
	if msg := res.Get("error_message").String(); msg != "" {
		return fmt.Errorf("%w: %s: %s", ErrBadStatus, status, msg)
	}
	return fmt.Errorf("%w: %s", ErrBadStatus, status)
}
