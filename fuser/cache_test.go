package fuser

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fv "github.com/skypies/flightview"
)

func newTestCache(pos *stubPositions, sch *stubSchedules, ttl time.Duration) *ServiceCache {
	f := New(pos, sch)
	f.FetchTimeout = 250 * time.Millisecond
	return NewServiceCache(f, ttl)
}

func TestCacheCoalescesConcurrentCallers(t *testing.T) {
	// N concurrent callers within one window must trigger exactly one
	// underlying fusion computation.
	pos := &stubPositions{
		recs:  []fv.PositionRecord{posRecord("UAL100", 37, -122, true)},
		delay: 50 * time.Millisecond,
	}
	sch := &stubSchedules{recs: []fv.ScheduleRecord{schRecord("UAL100", "KSFO", "KDEN")}}

	sc := newTestCache(pos, sch, time.Minute)

	const n = 8
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = sc.GetFusedFlights(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, pos.numCalls())
	for _, r := range results {
		require.Len(t, r.Views, 1)
		assert.Equal(t, results[0].FetchedAt, r.FetchedAt)
	}
}

func TestCacheServesWithinTTLWithoutRefetch(t *testing.T) {
	pos := &stubPositions{recs: []fv.PositionRecord{posRecord("UAL100", 37, -122, true)}}
	sch := &stubSchedules{recs: []fv.ScheduleRecord{schRecord("UAL100", "KSFO", "KDEN")}}

	sc := newTestCache(pos, sch, time.Minute)

	first := sc.GetFusedFlights(context.Background())
	second := sc.GetFusedFlights(context.Background())

	assert.Equal(t, 1, pos.numCalls(), "second call must not re-fetch")
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	require.Len(t, second.Views, 1)
	// Identical last_updated timestamps prove the views weren't recomputed.
	assert.Equal(t, first.Views[0].DataQuality.LastUpdated, second.Views[0].DataQuality.LastUpdated)
}

func TestCacheStaleThenEmpty(t *testing.T) {
	pos := &stubPositions{recs: []fv.PositionRecord{posRecord("UAL100", 37, -122, true)}}
	sch := &stubSchedules{}

	sc := newTestCache(pos, sch, 50*time.Millisecond) // stale ceiling = 100ms

	first := sc.GetFusedFlights(context.Background())
	require.Len(t, first.Views, 1)
	assert.False(t, first.Stale)

	// Sources go completely dark.
	pos.mu.Lock()
	pos.recs = nil
	pos.mu.Unlock()

	// Past TTL but inside the ceiling: previous cycle, flagged stale.
	time.Sleep(60 * time.Millisecond)
	second := sc.GetFusedFlights(context.Background())
	assert.True(t, second.Stale)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	require.Len(t, second.Views, 1)

	// Past the ceiling: explicit empty result with an error state, not
	// silently stale data.
	time.Sleep(60 * time.Millisecond)
	third := sc.GetFusedFlights(context.Background())
	assert.Empty(t, third.Views)
	assert.NotEmpty(t, third.Error)
	assert.False(t, third.Stale)
}

func TestCacheResultsAreIndependent(t *testing.T) {
	// Callers get their own copy of the view slice; mutating one result
	// must not leak into what later callers see within the window.
	pos := &stubPositions{recs: []fv.PositionRecord{
		posRecord("DAL878", 38, -121, true),
		posRecord("UAL100", 37, -122, true),
	}}
	sch := &stubSchedules{}

	sc := newTestCache(pos, sch, time.Minute)

	first := sc.GetFusedFlights(context.Background())
	require.Len(t, first.Views, 2)
	first.Views[0], first.Views[1] = first.Views[1], first.Views[0]
	first.Views[0].Ident = "CLOBBERED"

	second := sc.GetFusedFlights(context.Background())
	require.Len(t, second.Views, 2)
	assert.Equal(t, "DAL878", second.Views[0].Ident)
	assert.Equal(t, "UAL100", second.Views[1].Ident)
}

func TestCacheFlightDetail(t *testing.T) {
	pos := &stubPositions{recs: []fv.PositionRecord{posRecord("VRD932", 36.6, -121.3, true)}}
	sch := &stubSchedules{recs: []fv.ScheduleRecord{schRecord("VRD932", "KSFO", "KLAX")}}

	sc := newTestCache(pos, sch, time.Minute)

	// Lookup normalizes, so the scruffy raw form still finds the view.
	v, found := sc.GetFlightDetail(context.Background(), "vrd-932")
	require.True(t, found)
	assert.Equal(t, "VRD932", v.Ident)
	assert.Equal(t, "KSFO", v.Origin)

	_, found = sc.GetFlightDetail(context.Background(), "UAL9999")
	assert.False(t, found)
}
