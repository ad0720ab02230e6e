// Package aex fetches live aircraft positions from a VirtualRadar-style
// ADS-B aggregator (AircraftList.json). It is one of the two upstream
// adapters: it owns a short TTL cache, and on any upstream failure it
// recovers locally by serving the deterministic synthetic fleet - the
// caller never sees an error or an empty feed.
package aex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/skypies/adsb"
	"github.com/skypies/geo"
	"github.com/skypies/geo/sfo"

	fv "github.com/skypies/flightview"
	"github.com/skypies/flightview/metrics"
)

var (
	kDefaultURL      = "https://adsbexchange.com/api/aircraft/json/list"
	kDefaultCacheTTL = 30 * time.Second
	kFetchTimeout    = 10 * time.Second
)

type AdsbExchange struct {
	Client   *http.Client
	BaseURL  string
	APIKey   string // empty key puts the adapter in synthetic-only mode
	Box      geo.LatlongBox
	CacheTTL time.Duration

	mu        sync.Mutex
	fetchedAt time.Time
	cached    []fv.PositionRecord
}

func New(client *http.Client, baseURL, apiKey string) *AdsbExchange {
	if client == nil {
		client = &http.Client{Timeout: kFetchTimeout}
	}
	if baseURL == "" {
		baseURL = kDefaultURL
	}
	return &AdsbExchange{
		Client:   client,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Box:      sfo.KAirports["KSFO"].Box(250, 250),
		CacheTTL: kDefaultCacheTTL,
	}
}

// {{{ Fetch

// Fetch returns the current position record set. Within the TTL window
// it serves the last fetched (or fallback) set without touching the
// network. It never fails; any upstream problem degrades to the
// synthetic fleet, tagged provenance=fallback.
func (aex *AdsbExchange) Fetch(ctx context.Context) []fv.PositionRecord {
	aex.mu.Lock()
	defer aex.mu.Unlock()

	if aex.cached != nil && time.Since(aex.fetchedAt) < aex.CacheTTL {
		metrics.RecordFetch(fv.SourcePositions, "cache")
		return aex.cached
	}

	recs, err := aex.liveQuery(ctx)
	if err != nil {
		log.Printf("aex: live query failed, serving synthetic fleet: %v", err)
		metrics.RecordFetch(fv.SourcePositions, "fallback")
		recs = fv.SyntheticPositions(time.Now().UTC())
	} else {
		metrics.RecordFetch(fv.SourcePositions, "live")
	}

	aex.cached, aex.fetchedAt = recs, time.Now()
	return recs
}

// }}}
// {{{ liveQuery

func (aex *AdsbExchange) args2url(args map[string]string) string {
	postArgs := url.Values{}
	for k, v := range args {
		postArgs.Set(k, v)
	}
	return aex.BaseURL + "?" + postArgs.Encode()
}

func (aex *AdsbExchange) liveQuery(ctx context.Context) ([]fv.PositionRecord, error) {
	if aex.APIKey == "" {
		return nil, fmt.Errorf("aex: no credential configured: %w", fv.ErrAdapterAuth)
	}

	args := map[string]string{
		"lat":   fmt.Sprintf("%.6f", aex.Box.Center().Lat),
		"lng":   fmt.Sprintf("%.6f", aex.Box.Center().Long),
		"fDstL": "0",
		"fDstU": fmt.Sprintf("%.0f", aex.Box.NE.DistKM(aex.Box.SW)/2.0), // half the box diagonal
	}

	req, err := http.NewRequestWithContext(ctx, "GET", aex.args2url(args), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-auth-key", aex.APIKey)

	resp, err := aex.Client.Do(req)
	if err != nil {
		return nil, classifyNetError("aex", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("aex: upstream said %s: %w", resp.Status, fv.ErrAdapterAuth)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("aex: upstream said %s", resp.Status)
	}

	lqResponse := LiveQueryResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&lqResponse); err != nil {
		return nil, fmt.Errorf("aex: decode: %v: %w", err, fv.ErrMalformedResponse)
	}

	recs := []fv.PositionRecord{}
	for _, a := range lqResponse.Aircraft {
		if pr, ok := ToPositionRecord(a); ok {
			recs = append(recs, pr)
		}
	}
	return recs, nil
}

func classifyNetError(prefix string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %v: %w", prefix, err, fv.ErrAdapterTimeout)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// }}}
// {{{ ToPositionRecord

// ToPositionRecord validates and coerces one loosely-typed provider
// entry into the strict internal shape, going via the ADS-B composite
// message it really represents. ok is false for entries too junky to
// use (no position fix, impossible coordinates).
func ToPositionRecord(in AExAircraft) (fv.PositionRecord, bool) {
	if in.PosTime <= 0 || in.Lat < -90 || in.Lat > 90 || in.Long < -180 || in.Long > 180 {
		return fv.PositionRecord{}, false
	}

	// PosTime is a float epoch millis
	tSecs := int64(in.PosTime / 1000.0)

	callsign := fv.NewCallsign(in.Call)

	msg := adsb.CompositeMsg{
		Msg: adsb.Msg{
			Type:                  "MSG", // default; broadcast ADS-B
			Icao24:                adsb.IcaoId(in.Icao),
			GeneratedTimestampUTC: time.Unix(tSecs, 0).UTC(),
			Callsign:              callsign.String(),
			Altitude:              int64(in.Alt),
			GroundSpeed:           int64(in.Spd),
			VerticalRate:          int64(in.Vsi),
			Track:                 int64(in.Trak),
			Position:              geo.Latlong{Lat: in.Lat, Long: in.Long},
		},
		ReceiverName: fmt.Sprintf("%.0f", in.Rcvr),
	}
	if in.Mlat {
		msg.Type = "MLAT"
	}

	ident := msg.Callsign
	if ident == "" {
		ident = in.Reg // some GA aircraft broadcast nothing; fall back to registration
	}

	pr := fv.PositionRecord{
		Ident:          ident,
		IcaoId:         msg.Icao24,
		Registration:   in.Reg,
		Altitude:       float64(msg.Altitude),
		GroundSpeed:    float64(msg.GroundSpeed),
		Heading:        float64(msg.Track),
		LastContactUTC: msg.GeneratedTimestampUTC,
		Authentic:      msg.Type == "MSG" && !in.Bad,
		Provenance:     fv.SourcePositions,
	}
	pr.Latlong = msg.Position
	return pr, true
}

// }}}
// {{{ HealthCheck

// HealthCheck probes credential and connectivity with a minimal query;
// it never triggers a full fetch and never consults the cache.
func (aex *AdsbExchange) HealthCheck(ctx context.Context) fv.SourceHealth {
	sh := fv.SourceHealth{Source: fv.SourcePositions, Status: "error"}

	if aex.APIKey == "" {
		sh.Message = "no credential configured; serving synthetic data"
		return sh
	}

	args := map[string]string{"fDstL": "0", "fDstU": "1"} // cheapest possible query
	req, err := http.NewRequestWithContext(ctx, "GET", aex.args2url(args), nil)
	if err != nil {
		sh.Message = err.Error()
		return sh
	}
	req.Header.Set("api-auth-key", aex.APIKey)

	resp, err := aex.Client.Do(req)
	if err != nil {
		sh.Message = classifyNetError("aex", err).Error()
		return sh
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sh.Message = fmt.Sprintf("credential rejected (%s)", resp.Status)
	case resp.StatusCode != http.StatusOK:
		sh.Message = fmt.Sprintf("upstream said %s", resp.Status)
	default:
		sh.Status, sh.Authenticated, sh.Message = "ok", true, "ok"
	}
	return sh
}

// }}}
