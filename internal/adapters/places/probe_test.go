package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"places_reviewcheck/internal/adapters/observability"
	"places_reviewcheck/internal/adapters/places"
)

func TestKeyProbe_Checks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/place/findplacefromtext/json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("input") != "restaurant" || r.URL.Query().Get("fields") != "place_id,name" {
			t.Errorf("unexpected find place query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"API not enabled"}`))
	})
	mux.HandleFunc("/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") != "New York" {
			t.Errorf("unexpected geocode query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"status":"OK","results":[]}`))
	})
	mux.HandleFunc("/js", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("callback") != "test" {
			t.Errorf("unexpected js query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("/* maps */"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	p, err := places.NewKeyProbe(places.ProbeURLs{
		LegacyBase: ts.URL + "/place",
		GeocodeURL: ts.URL + "/geocode/json",
		MapsJSURL:  ts.URL + "/js",
	}, "test-key")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx := context.Background()

	pl, err := p.CheckPlaces(ctx)
	if err != nil {
		t.Fatalf("places check: %v", err)
	}
	if pl.OK || pl.Status != "REQUEST_DENIED" || pl.Message != "API not enabled" {
		t.Fatalf("unexpected places result: %+v", pl)
	}

	gc, err := p.CheckGeocoding(ctx)
	if err != nil {
		t.Fatalf("geocode check: %v", err)
	}
	if !gc.OK || gc.Status != "OK" {
		t.Fatalf("unexpected geocode result: %+v", gc)
	}

	js, err := p.CheckMapsJS(ctx)
	if err != nil {
		t.Fatalf("js check: %v", err)
	}
	if !js.OK || js.HTTPCode != http.StatusOK {
		t.Fatalf("unexpected js result: %+v", js)
	}
}

func TestKeyProbe_NonOKHTTPIsAResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	p, _ := places.NewKeyProbe(places.ProbeURLs{LegacyBase: ts.URL, GeocodeURL: ts.URL, MapsJSURL: ts.URL}, "k")
	kc, err := p.CheckGeocoding(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if kc.OK || kc.HTTPCode != http.StatusForbidden {
		t.Fatalf("unexpected result: %+v", kc)
	}
	js, err := p.CheckMapsJS(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if js.OK || js.HTTPCode != http.StatusForbidden {
		t.Fatalf("unexpected js result: %+v", js)
	}
}

func TestKeyProbe_MapsJSIsObserved(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	p, _ := places.NewKeyProbe(places.ProbeURLs{MapsJSURL: ts.URL}, "k")
	if _, err := p.CheckMapsJS(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	rr := httptest.NewRecorder()
	observability.MetricsHandler(observability.InitRegistry()).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	want := `reviewcheck_upstream_requests_total{endpoint="probe_mapsjs",service="google_places",status="403"}`
	if !strings.Contains(rr.Body.String(), want) {
		t.Fatalf("expected %s in metrics output", want)
	}
}
