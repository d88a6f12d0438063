package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"places_reviewcheck/internal/adapters/observability"
	"places_reviewcheck/internal/domain"
)

var probeNames = [3]string{"places", "geocoding", "maps_js"}

type ProbeOutcome struct {
	Check domain.KeyCheck
	Err   error
}

// Prober checks whether an API key works at all, independent of any place.
type Prober struct {
	checker domain.KeyChecker
	out     io.Writer
}

func NewProber(c domain.KeyChecker, out io.Writer) *Prober {
	if out == nil {
		out = io.Discard
	}
	return &Prober{checker: c, out: out}
}

// Run fires the three checks together and prints them in a fixed order.
func (p *Prober) Run(ctx context.Context) [3]ProbeOutcome {
	var res [3]ProbeOutcome
	checks := [3]func(context.Context) (domain.KeyCheck, error){
		p.checker.CheckPlaces,
		p.checker.CheckGeocoding,
		p.checker.CheckMapsJS,
	}

	// a failed check is an outcome, so no goroutine returns an error
	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			kc, err := check(ctx)
			res[i] = ProbeOutcome{Check: kc, Err: err}
			observability.ObserveProbe(probeNames[i], kc.OK, err)
			if err != nil {
				log.Warn().Err(err).Int("check", i+1).Msg("key check failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	p.render(res)
	return res
}

func (p *Prober) render(res [3]ProbeOutcome) {
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(p.out, format+"\n", args...) }
	sep := strings.Repeat("=", 50)

	w("🔧 Testing API key with different Google APIs...")
	w("%s", sep)

	for i, c := range []struct{ header, label string }{
		{"1️⃣ Testing Places API (Find Place)...", "Places API"},
		{"2️⃣ Testing Geocoding API...", "Geocoding API"},
	} {
		w("\n%s", c.header)
		o := res[i]
		if o.Err != nil {
			w("   ❌ Request failed: %v", o.Err)
			continue
		}
		status := o.Check.Status
		if status == "" {
			status = "Unknown"
		}
		w("   Status: %s", status)
		if o.Check.OK {
			w("   ✅ %s is working!", c.label)
			continue
		}
		msg := o.Check.Message
		if msg == "" {
			msg = "No error message"
		}
		w("   ❌ %s error: %s", c.label, msg)
	}

	w("\n3️⃣ Testing basic API key validity...")
	switch o := res[2]; {
	case o.Err != nil:
		w("   ⚠️ Could not test basic validity: %v", o.Err)
	case o.Check.HTTPCode == http.StatusOK:
		w("   ✅ API key appears valid (HTTP 200)")
	default:
		w("   ❌ API key issue (HTTP %d)", o.Check.HTTPCode)
	}

	w("\n%s", sep)
	w("📋 Summary:")
	w("- If Places API shows REQUEST_DENIED: Enable Places API in Google Cloud Console")
	w("- If Geocoding API works: Your API key is valid, just need to enable Places API")
	w("- If all APIs fail: Check API key restrictions or billing account")
	w("\n🔗 Google Cloud Console: https://console.cloud.google.com/apis/library")
}
