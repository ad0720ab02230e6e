package fuser

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	fv "github.com/skypies/flightview"
	"github.com/skypies/flightview/metrics"
)

var (
	kDefaultCacheTTL = 30 * time.Second

	// The singleflight key. There is exactly one airspace; every caller
	// wants the same computation.
	kAirspaceKey = "airspace"
)

// Result is what callers get: the fused views, when they were computed,
// and the (non-fatal) degradation flags. Error is only populated in the
// one caller-visible failure state: both sources unusable and no cache
// within the stale tolerance.
type Result struct {
	Views     []fv.FusedFlightView `json:"flights"`
	FetchedAt time.Time            `json:"fetched_at"`
	Stale     bool                 `json:"stale"`
	Error     string               `json:"error,omitempty"`
}

// ServiceCache wraps Fuser.FetchAll behind a TTL window. Concurrent
// callers within one window coalesce into a single in-flight refresh;
// the cache entry is mutated by exactly one refresh at a time.
type ServiceCache struct {
	TTL          time.Duration
	StaleCeiling time.Duration // beyond this, stale data is withheld

	fuser *Fuser
	sf    singleflight.Group

	mu   sync.Mutex
	last *Result
}

func NewServiceCache(f *Fuser, ttl time.Duration) *ServiceCache {
	if ttl <= 0 {
		ttl = kDefaultCacheTTL
	}
	return &ServiceCache{
		TTL:          ttl,
		StaleCeiling: 2 * ttl,
		fuser:        f,
	}
}

// clone detaches the views slice, so callers can sort or mutate their
// result without corrupting what the cache hands everyone else.
func (r Result) clone() Result {
	out := r
	out.Views = make([]fv.FusedFlightView, len(r.Views))
	copy(out.Views, r.Views)
	return out
}

// GetFusedFlights returns the current fused airspace, refreshing at
// most once per TTL window no matter how many callers arrive.
func (sc *ServiceCache) GetFusedFlights(ctx context.Context) Result {
	sc.mu.Lock()
	if sc.last != nil && time.Since(sc.last.FetchedAt) < sc.TTL {
		r := sc.last.clone()
		sc.mu.Unlock()
		metrics.RecordCacheRequest("hit")
		return r
	}
	sc.mu.Unlock()

	v, _, shared := sc.sf.Do(kAirspaceKey, func() (interface{}, error) {
		return sc.refresh(ctx), nil
	})
	if shared {
		metrics.RecordCacheRequest("coalesced")
	}
	return v.(Result).clone()
}

// GetFlightDetail looks one flight up in the current fused airspace.
// found is false when the identity isn't in this cycle - an expected
// outcome, not an error.
func (sc *ServiceCache) GetFlightDetail(ctx context.Context, ident string) (fv.FusedFlightView, bool) {
	n := fv.NormalizeIdent(ident)
	for _, v := range sc.GetFusedFlights(ctx).Views {
		if v.Ident == n {
			return v, true
		}
	}
	return fv.FusedFlightView{}, false
}

// refresh runs one fusion cycle and updates the cache entry. When the
// cycle yields nothing usable (both sources timed out at the engine
// level), it serves the previous result while it is younger than the
// stale ceiling; beyond that it returns an explicit empty result with
// an error annotation rather than silently stale data.
func (sc *ServiceCache) refresh(ctx context.Context) Result {
	views := sc.fuser.FetchAll(ctx)
	now := time.Now().UTC()

	if len(views) > 0 {
		res := Result{Views: views, FetchedAt: now}
		sc.mu.Lock()
		sc.last = &res
		sc.mu.Unlock()
		metrics.RecordCacheRequest("refresh")
		return res
	}

	sc.mu.Lock()
	last := sc.last
	sc.mu.Unlock()

	if last != nil && time.Since(last.FetchedAt) < sc.StaleCeiling {
		metrics.RecordCacheRequest("stale")
		r := *last
		r.Stale = true
		r.Error = "refresh yielded no data; serving previous cycle"
		return r
	}

	metrics.RecordCacheRequest("empty")
	return Result{
		Views:     []fv.FusedFlightView{},
		FetchedAt: now,
		Error:     "both sources unavailable and no cache within tolerance",
	}
}
