// Package fuser matches and merges the two providers' record sets into
// a single consistent view per flight identity, and wraps the pipeline
// in a TTL + request-coalescing cache. Nothing in this package raises
// an error to callers; the pipeline always answers.
package fuser

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	fv "github.com/skypies/flightview"
	"github.com/skypies/flightview/metrics"
)

var (
	kDefaultFetchTimeout  = 15 * time.Second
	kDefaultHealthTimeout = 5 * time.Second
)

// PositionSource is the live position feed (aex, or a stub in tests).
type PositionSource interface {
	Fetch(ctx context.Context) []fv.PositionRecord
	HealthCheck(ctx context.Context) fv.SourceHealth
}

// ScheduleSource is the schedule/route feed (fa, or a stub in tests).
type ScheduleSource interface {
	Fetch(ctx context.Context) []fv.ScheduleRecord
	HealthCheck(ctx context.Context) fv.SourceHealth
}

type Fuser struct {
	Positions PositionSource
	Schedules ScheduleSource

	// Per-source bound for one refresh cycle. A source that blows this
	// contributes zero records to the cycle; it is not retried until the
	// next one.
	FetchTimeout time.Duration
}

func New(positions PositionSource, schedules ScheduleSource) *Fuser {
	return &Fuser{
		Positions:    positions,
		Schedules:    schedules,
		FetchTimeout: kDefaultFetchTimeout,
	}
}

// FetchAll runs one refresh cycle: both sources fetched in parallel
// with independent timeouts, then merged. One slow source can't block
// the other's contribution. Output is deterministic given the two
// record sets, regardless of arrival order.
func (f *Fuser) FetchAll(ctx context.Context) []fv.FusedFlightView {
	var positions []fv.PositionRecord
	var schedules []fv.ScheduleRecord

	g := new(errgroup.Group)

	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, f.FetchTimeout)
		defer cancel()

		done := make(chan []fv.PositionRecord, 1)
		go func() { done <- f.Positions.Fetch(pctx) }()
		select {
		case positions = <-done:
		case <-pctx.Done():
			log.Printf("fuser: position source exceeded %s; zero records this cycle", f.FetchTimeout)
		}
		return nil
	})

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, f.FetchTimeout)
		defer cancel()

		done := make(chan []fv.ScheduleRecord, 1)
		go func() { done <- f.Schedules.Fetch(sctx) }()
		select {
		case schedules = <-done:
		case <-sctx.Done():
			log.Printf("fuser: schedule source exceeded %s; zero records this cycle", f.FetchTimeout)
		}
		return nil
	})

	g.Wait() // the goroutines never return errors; failure means fewer records

	views := Merge(positions, schedules, time.Now().UTC())
	metrics.RecordFusionCycle(len(views))
	return views
}
