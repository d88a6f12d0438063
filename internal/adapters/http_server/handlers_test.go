package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	httpserver "places_reviewcheck/internal/adapters/http_server"
	"places_reviewcheck/internal/domain"
)

type stubClient struct {
	finds int
}

func (s *stubClient) FindPlace(ctx context.Context, q string) (domain.Candidate, error) {
	s.finds++
	if q != "Lumea by the Sea" {
		return domain.Candidate{}, domain.ErrNoPlace
	}
	name := "Lumea by the Sea"
	return domain.Candidate{Ref: "abc", Name: &name}, nil
}

func (s *stubClient) GetDetails(ctx context.Context, ref domain.PlaceRef) (domain.PlaceDetails, error) {
	if ref != "abc" {
		return domain.PlaceDetails{}, errors.New("bad status 404")
	}
	author, text := "Jose Hernandez III", "Lovely"
	return domain.PlaceDetails{Ref: ref, Reviews: []domain.Review{{Author: &author, Text: &text}}}, nil
}

func newServer(t *testing.T, limiter *rate.Limiter) (*httptest.Server, *stubClient) {
	t.Helper()
	sc := &stubClient{}
	h := &httpserver.Handlers{
		Profiles: map[string]domain.Profile{
			"legacy": {Name: "legacy", API: domain.APILegacy, Candidates: []string{"nope", "Lumea by the Sea"}, Targets: []string{"Jose Hernandez"}},
			"new":    {Name: "new", API: domain.APINew},
		},
		DefaultProfile: "legacy",
		Clients:        func(p domain.Profile) (domain.PlacesClient, error) { return sc, nil },
	}
	ts := httptest.NewServer(httpserver.New(h, limiter).Mux())
	t.Cleanup(ts.Close)
	return ts, sc
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return res
}

func TestSearch_FoundAndMissing(t *testing.T) {
	ts, _ := newServer(t, nil)

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	res := getJSON(t, ts.URL+"/v1/places/search?q=Lumea+by+the+Sea", &body)
	if res.StatusCode != http.StatusOK || body.ID != "abc" || body.Name != "Lumea by the Sea" {
		t.Fatalf("unexpected: %d %+v", res.StatusCode, body)
	}
	if res.Header.Get("ETag") == "" {
		t.Fatalf("expected ETag")
	}

	var prob struct {
		Status int `json:"status"`
	}
	res = getJSON(t, ts.URL+"/v1/places/search?q=nowhere", &prob)
	if res.StatusCode != http.StatusNotFound || prob.Status != 404 {
		t.Fatalf("expected 404 problem, got %d %+v", res.StatusCode, prob)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	res = getJSON(t, ts.URL+"/v1/places/search", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", res.StatusCode)
	}
	res = getJSON(t, ts.URL+"/v1/places/search?q=x&variant=soap", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown variant, got %d", res.StatusCode)
	}
}

func TestPlaceReviews(t *testing.T) {
	ts, _ := newServer(t, nil)

	var body struct {
		Reviews []struct {
			Author string `json:"author"`
			Text   string `json:"text"`
		} `json:"reviews"`
	}
	res := getJSON(t, ts.URL+"/v1/places/abc/reviews?variant=new", &body)
	if res.StatusCode != http.StatusOK || len(body.Reviews) != 1 || body.Reviews[0].Author != "Jose Hernandez III" {
		t.Fatalf("unexpected: %d %+v", res.StatusCode, body)
	}

	res = getJSON(t, ts.URL+"/v1/places/zzz/reviews", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCheck_RunsDriver(t *testing.T) {
	ts, sc := newServer(t, nil)

	var body struct {
		Found    bool   `json:"found"`
		Query    string `json:"query"`
		Attempts int    `json:"attempts"`
		Matches  []struct {
			Author string `json:"author"`
			Target string `json:"target"`
		} `json:"matches"`
	}
	res := getJSON(t, ts.URL+"/v1/check", &body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if !body.Found || body.Query != "Lumea by the Sea" || body.Attempts != 2 || sc.finds != 2 {
		t.Fatalf("unexpected: %+v finds=%d", body, sc.finds)
	}
	if len(body.Matches) != 1 || body.Matches[0].Target != "Jose Hernandez" {
		t.Fatalf("unexpected matches: %+v", body.Matches)
	}

	// explicit queries replace the profile's candidates
	body.Found = true
	res = getJSON(t, ts.URL+"/v1/check?q=a&q=b", &body)
	if res.StatusCode != http.StatusOK || body.Found || body.Attempts != 2 {
		t.Fatalf("unexpected: %d %+v", res.StatusCode, body)
	}
}

func TestRateLimit(t *testing.T) {
	ts, _ := newServer(t, rate.NewLimiter(rate.Limit(0.001), 1))

	if res := getJSON(t, ts.URL+"/v1/places/search?q=Lumea+by+the+Sea", nil); res.StatusCode != http.StatusOK {
		t.Fatalf("first call should pass, got %d", res.StatusCode)
	}
	res := getJSON(t, ts.URL+"/v1/places/search?q=Lumea+by+the+Sea", nil)
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", res.StatusCode)
	}
	if res.Header.Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	// health stays outside the limiter
	if res := getJSON(t, ts.URL+"/healthz", nil); res.StatusCode != http.StatusOK {
		t.Fatalf("healthz should not be limited, got %d", res.StatusCode)
	}
}

func TestETag_NotModified(t *testing.T) {
	ts, _ := newServer(t, nil)
	url := ts.URL + "/v1/places/abc/reviews"

	first := getJSON(t, url, nil)
	etag := first.Header.Get("ETag")
	if first.StatusCode != http.StatusOK || etag == "" {
		t.Fatalf("unexpected first response: %d etag=%q", first.StatusCode, etag)
	}

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("If-None-Match", etag)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res.StatusCode)
	}
}

type blockingClient struct{}

func (blockingClient) FindPlace(ctx context.Context, q string) (domain.Candidate, error) {
	<-ctx.Done()
	return domain.Candidate{}, ctx.Err()
}

func (blockingClient) GetDetails(ctx context.Context, ref domain.PlaceRef) (domain.PlaceDetails, error) {
	<-ctx.Done()
	return domain.PlaceDetails{}, ctx.Err()
}

func TestCheck_TimeoutIsProblemJSON(t *testing.T) {
	h := &httpserver.Handlers{
		Profiles:       map[string]domain.Profile{"legacy": {Name: "legacy", Candidates: []string{"a", "b"}}},
		DefaultProfile: "legacy",
		Clients:        func(domain.Profile) (domain.PlacesClient, error) { return blockingClient{}, nil },
	}
	ts := httptest.NewServer(httpserver.New(h, nil, httpserver.WithRequestTimeout(50*time.Millisecond)).Mux())
	defer ts.Close()

	var prob struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
	}
	res := getJSON(t, ts.URL+"/v1/check", &prob)
	if res.StatusCode != http.StatusServiceUnavailable || prob.Status != 503 || prob.Title != "Timeout" {
		t.Fatalf("unexpected: %d %+v", res.StatusCode, prob)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestCheckBudget(t *testing.T) {
	profiles := map[string]domain.Profile{
		"basic":  {Candidates: []string{"a", "b", "c"}},
		"legacy": {Candidates: []string{"a", "b", "c", "d", "e"}},
	}
	// five candidates, two calls each
	if got, want := httpserver.CheckBudget(profiles, 20*time.Second), 205*time.Second; got != want {
		t.Fatalf("CheckBudget = %v, want %v", got, want)
	}
	if got := httpserver.CheckBudget(nil, time.Second); got != 7*time.Second {
		t.Fatalf("empty profiles should budget one candidate, got %v", got)
	}
}
