// Package fa fetches scheduled/actual route and timing data from a
// FlightXML-style flight-tracking API (basic-auth JSON verbs, paged
// results). Same adapter contract as aex: own TTL cache, local
// recovery to the synthetic fleet, health probe separate from fetch.
package fa

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

	"github.com/skypies/geo"

	fv "github.com/skypies/flightview"
	"github.com/skypies/flightview/metrics"
)

var (
	kDefaultURL      = "https://flightxml.flightaware.com/json/FlightXML2"
	kDefaultCacheTTL = 30 * time.Second
	kFetchTimeout    = 10 * time.Second

	// Results come back 15 at a time; bound the paging loop so a
	// misbehaving upstream can't spin us forever.
	kMaxPages = 8
)

type Flightaware struct {
	Client              *http.Client
	BaseURL             string
	APIUsername, APIKey string
	Airport             string // ICAO4 airport whose traffic we schedule-track
	CacheTTL            time.Duration

	mu        sync.Mutex
	fetchedAt time.Time
	cached    []fv.ScheduleRecord
}

func New(client *http.Client, baseURL, username, apiKey string) *Flightaware {
	if client == nil {
		client = &http.Client{Timeout: kFetchTimeout}
	}
	if baseURL == "" {
		baseURL = kDefaultURL
	}
	return &Flightaware{
		Client:      client,
		BaseURL:     baseURL,
		APIUsername: username,
		APIKey:      apiKey,
		Airport:     "KSFO",
		CacheTTL:    kDefaultCacheTTL,
	}
}

func classifyNetError(prefix string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %v: %w", prefix, err, fv.ErrAdapterTimeout)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// {{{ UrlToResp

// All requests supply the username and API key as a basic Authorization
// header.
func (fa *Flightaware) UrlToResp(ctx context.Context, verb string, args map[string]string) (*http.Response, error) {
	postArgs := url.Values{}
	for k, v := range args {
		postArgs.Set(k, v)
	}
	urlToCall := fa.BaseURL + "/" + verb + "?" + postArgs.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", urlToCall, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(fa.APIUsername, fa.APIKey)

	return fa.Client.Do(req)
}

// }}}
// {{{ CallEnroute

// CallEnroute pages through the enroute/arriving traffic for the
// configured airport (howMany is capped at 15 upstream; loop on
// next_offset).
func (fa *Flightaware) CallEnroute(ctx context.Context) ([]EnrouteFlightStruct, error) {
	args := map[string]string{
		"airport": fa.Airport,
		"howMany": "15",
		"offset":  "0",
		"filter":  "airline",
	}

	ret := []EnrouteFlightStruct{}

	for page := 0; page < kMaxPages; page++ {
		resp, err := fa.UrlToResp(ctx, "Enroute", args)
		if err != nil {
			return nil, classifyNetError("fa", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			return nil, fmt.Errorf("fa: upstream said %s: %w", resp.Status, fv.ErrAdapterAuth)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fa: upstream said %s", resp.Status)
		}

		r := EnrouteResponse{}
		err = json.NewDecoder(resp.Body).Decode(&r)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("fa: decode: %v: %w", err, fv.ErrMalformedResponse)
		}

		ret = append(ret, r.EnrouteResult.Flights...)

		if r.EnrouteResult.Nextoffset <= 0 {
			break
		}
		args["offset"] = fmt.Sprintf("%d", r.EnrouteResult.Nextoffset)
	}

	return ret, nil
}

// }}}
// {{{ Fetch

// Fetch returns the current schedule record set, from the adapter cache
// when fresh. Never fails; upstream problems degrade to the synthetic
// fleet's schedules, tagged provenance=fallback.
func (fa *Flightaware) Fetch(ctx context.Context) []fv.ScheduleRecord {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.cached != nil && time.Since(fa.fetchedAt) < fa.CacheTTL {
		metrics.RecordFetch(fv.SourceSchedules, "cache")
		return fa.cached
	}

	recs, err := fa.liveQuery(ctx)
	if err != nil {
		log.Printf("fa: live query failed, serving synthetic fleet: %v", err)
		metrics.RecordFetch(fv.SourceSchedules, "fallback")
		recs = fv.SyntheticSchedules(time.Now().UTC())
	} else {
		metrics.RecordFetch(fv.SourceSchedules, "live")
	}

	fa.cached, fa.fetchedAt = recs, time.Now()
	return recs
}

func (fa *Flightaware) liveQuery(ctx context.Context) ([]fv.ScheduleRecord, error) {
	if fa.APIKey == "" {
		return nil, fmt.Errorf("fa: no credential configured: %w", fv.ErrAdapterAuth)
	}

	flights, err := fa.CallEnroute(ctx)
	if err != nil {
		return nil, err
	}

	recs := []fv.ScheduleRecord{}
	for _, f := range flights {
		if sr, ok := ToScheduleRecord(f); ok {
			recs = append(recs, sr)
		}
	}
	return recs, nil
}

// }}}
// {{{ ToScheduleRecord

func epochToUTC(epoch int) time.Time {
	if epoch <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(epoch), 0).UTC()
}

// ToScheduleRecord validates and coerces one provider entry into the
// strict internal shape. ok is false when the entry has no usable
// identity.
func ToScheduleRecord(in EnrouteFlightStruct) (fv.ScheduleRecord, bool) {
	if fv.NormalizeIdent(in.Ident) == "" {
		return fv.ScheduleRecord{}, false
	}

	sr := fv.ScheduleRecord{
		Ident:                 in.Ident,
		Registration:          in.Registration,
		EquipType:             in.Aircrafttype,
		Origin:                in.Origin,
		Destination:           in.Destination,
		ScheduledDepartureUTC: epochToUTC(in.Fileddeparturetime),
		ActualDepartureUTC:    epochToUTC(in.Actualdeparturetime),
		ScheduledArrivalUTC:   epochToUTC(in.Estimatedarrivaltime),
		ActualArrivalUTC:      epochToUTC(in.Actualarrivaltime),
		Status:                in.Status,
		ProgressPercent:       in.ProgressPercent,
		Waypoints:             []fv.Waypoint{},
		Provenance:            fv.SourceSchedules,
	}

	for _, w := range in.Waypoints {
		if w.Latitude < -90 || w.Latitude > 90 || w.Longitude < -180 || w.Longitude > 180 {
			continue
		}
		wp := fv.Waypoint{
			Name:     w.Name,
			Altitude: float64(w.Altitude) * 100.0, // upstream sends hundreds of feet
			ETAUTC:   epochToUTC(w.ETA),
		}
		wp.Latlong = geo.Latlong{Lat: w.Latitude, Long: w.Longitude}
		sr.Waypoints = append(sr.Waypoints, wp)
	}

	return sr, true
}

// }}}
// {{{ HealthCheck

// HealthCheck probes the credential with the cheapest verb; no full
// fetch, no cache.
func (fa *Flightaware) HealthCheck(ctx context.Context) fv.SourceHealth {
	sh := fv.SourceHealth{Source: fv.SourceSchedules, Status: "error"}

	if fa.APIKey == "" {
		sh.Message = "no credential configured; serving synthetic data"
		return sh
	}

	args := map[string]string{"airport": fa.Airport, "howMany": "1", "offset": "0"}
	resp, err := fa.UrlToResp(ctx, "Enroute", args)
	if err != nil {
		sh.Message = classifyNetError("fa", err).Error()
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
