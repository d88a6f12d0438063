package places

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"places_reviewcheck/internal/domain"
)

const mapsJSTimeout = 5 * time.Second

// KeyProbe runs the three independent API key checks.
type KeyProbe struct {
	legacyBase string
	geocodeURL string
	mapsJSURL  string
	key        string
	t          transport
}

type ProbeURLs struct {
	LegacyBase string
	GeocodeURL string
	MapsJSURL  string
}

func NewKeyProbe(urls ProbeURLs, key string, opts ...Option) (*KeyProbe, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	if urls.LegacyBase == "" {
		urls.LegacyBase = DefaultLegacyBase
	}
	if urls.GeocodeURL == "" {
		urls.GeocodeURL = DefaultGeocodeURL
	}
	if urls.MapsJSURL == "" {
		urls.MapsJSURL = DefaultMapsJSURL
	}
	s := buildSettings(opts)
	return &KeyProbe{
		legacyBase: urls.LegacyBase,
		geocodeURL: urls.GeocodeURL,
		mapsJSURL:  urls.MapsJSURL,
		key:        key,
		t:          transport{hc: s.hc},
	}, nil
}

func (p *KeyProbe) CheckPlaces(ctx context.Context) (domain.KeyCheck, error) {
	q := url.Values{}
	q.Set("input", "restaurant")
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id,name")
	return p.statusCheck(ctx, "Places API (Find Place)", "probe_findplace", p.legacyBase+"/findplacefromtext/json", q)
}

func (p *KeyProbe) CheckGeocoding(ctx context.Context) (domain.KeyCheck, error) {
	q := url.Values{}
	q.Set("address", "New York")
	return p.statusCheck(ctx, "Geocoding API", "probe_geocode", p.geocodeURL, q)
}

// CheckMapsJS only looks at the HTTP status; the script body is discarded.
func (p *KeyProbe) CheckMapsJS(ctx context.Context) (domain.KeyCheck, error) {
	kc := domain.KeyCheck{Name: "Maps JavaScript API"}
	ctx, cancel := context.WithTimeout(ctx, mapsJSTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("key", p.key)
	q.Set("callback", "test")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.mapsJSURL+"?"+q.Encode(), nil)
	if err != nil {
		return kc, err
	}
	code, _, err := p.t.fetch(ctx, req, "probe_mapsjs")
	if err != nil {
		return kc, err
	}
	kc.HTTPCode = code
	kc.OK = code == http.StatusOK
	return kc, nil
}

// statusCheck reports the body status of a JSON endpoint. A non-2xx reply
// is still a result, not an error: the code is what the user needs to see.
func (p *KeyProbe) statusCheck(ctx context.Context, name, endpoint, base string, q url.Values) (domain.KeyCheck, error) {
	kc := domain.KeyCheck{Name: name}
	q.Set("key", p.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return kc, err
	}
	body, err := p.t.do(ctx, req, endpoint)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			kc.HTTPCode = se.Code
			kc.Status = "Unknown"
			kc.Message = se.Message
			return kc, nil
		}
		return kc, err
	}
	kc.HTTPCode = http.StatusOK
	kc.Status = gjson.GetBytes(body, "status").String()
	if kc.Status == "" {
		kc.Status = "Unknown"
	}
	kc.Message = gjson.GetBytes(body, "error_message").String()
	kc.OK = kc.Status == "OK"
	return kc, nil
}
