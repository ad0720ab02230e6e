package fuser

import (
	"context"

	"golang.org/x/sync/errgroup"

	fv "github.com/skypies/flightview"
)

// HealthReport composes the two adapters' health probes. It is a side
// channel: querying it never touches the data-fetch path or its caches.
type HealthReport struct {
	PositionSource fv.SourceHealth `json:"position_source"`
	ScheduleSource fv.SourceHealth `json:"schedule_source"`
	Overall        string          `json:"overall"` // "ok", "degraded" or "error"
}

// Health probes both adapters in parallel, each bounded.
func (f *Fuser) Health(ctx context.Context) HealthReport {
	hctx, cancel := context.WithTimeout(ctx, kDefaultHealthTimeout)
	defer cancel()

	var pos, sch fv.SourceHealth
	g := new(errgroup.Group)
	g.Go(func() error { pos = f.Positions.HealthCheck(hctx); return nil })
	g.Go(func() error { sch = f.Schedules.HealthCheck(hctx); return nil })
	g.Wait()

	return HealthReport{
		PositionSource: pos,
		ScheduleSource: sch,
		Overall:        composeOverall(pos, sch),
	}
}

// ok only when every source is authenticated and healthy; degraded when
// at least one is healthy; error when none are.
func composeOverall(a, b fv.SourceHealth) string {
	switch {
	case a.Healthy() && a.Authenticated && b.Healthy() && b.Authenticated:
		return "ok"
	case a.Healthy() || b.Healthy():
		return "degraded"
	default:
		return "error"
	}
}
