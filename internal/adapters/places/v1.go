package places

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"places_reviewcheck/internal/domain"
)

const (
	SearchFieldMask  = "places.id,places.displayName,places.formattedAddress,places.rating,places.userRatingCount,places.reviews"
	DetailsFieldMask = "displayName,formattedAddress,rating,userRatingCount,reviews"
)

// V1 talks to the JSON-body Places API (places.googleapis.com/v1).
type V1 struct {
	base string
	key  string
	t    transport
}

func NewV1(base, key string, opts ...Option) (*V1, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	if base == "" {
		base = DefaultV1Base
	}
	s := buildSettings(opts)
	return &V1{base: strings.TrimRight(base, "/"), key: key, t: transport{hc: s.hc}}, nil
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
}

func (c *V1) FindPlace(ctx context.Context, query string) (domain.Candidate, error) {
	payload, err := json.Marshal(searchTextRequest{TextQuery: query, MaxResultCount: 1})
	if err != nil {
		return domain.Candidate{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return domain.Candidate{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, SearchFieldMask)

	body, err := c.t.do(ctx, req, "searchText")
	if err != nil {
		return domain.Candidate{}, err
	}
	first := gjson.GetBytes(body, "places.0")
	if !first.Exists() {
		return domain.Candidate{}, ErrNoPlace
	}
	cand := mapV1Candidate(first)
	if cand.Ref == "" {
		return domain.Candidate{}, ErrNoPlace
	}
	return cand, nil
}

func (c *V1) GetDetails(ctx context.Context, ref domain.PlaceRef) (domain.PlaceDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/places/"+url.PathEscape(string(ref)), nil)
	if err != nil {
		return domain.PlaceDetails{}, err
	}
	c.authorize(req, DetailsFieldMask)

	body, err := c.t.do(ctx, req, "details")
	if err != nil {
		return domain.PlaceDetails{}, err
	}
	d := mapV1Details(gjson.ParseBytes(body))
	d.Ref = ref
	return d, nil
}

func (c *V1) authorize(req *http.Request, mask string) {
	req.Header.Set("X-Goog-Api-Key", c.key)
	req.Header.Set("X-Goog-FieldMask", mask)
}
