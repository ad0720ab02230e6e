package fuser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	fv "github.com/skypies/flightview"
)

func TestHealthComposition(t *testing.T) {
	ok := fv.SourceHealth{Status: "ok", Authenticated: true, Message: "ok"}
	okNoAuth := fv.SourceHealth{Status: "ok", Authenticated: false}
	down := fv.SourceHealth{Status: "error", Message: "credential rejected (401 Unauthorized)"}

	tests := []struct {
		name     string
		pos, sch fv.SourceHealth
		overall  string
	}{
		{"both healthy and authenticated", ok, ok, "ok"},
		{"position down", down, ok, "degraded"},
		{"schedule down", ok, down, "degraded"},
		{"healthy but unauthenticated", okNoAuth, ok, "degraded"},
		{"both auth errors", down, down, "error"},
	}

	for _, test := range tests {
		f := New(&stubPositions{health: test.pos}, &stubSchedules{health: test.sch})
		report := f.Health(context.Background())
		assert.Equal(t, test.overall, report.Overall, test.name)
		assert.Equal(t, test.pos, report.PositionSource, test.name)
		assert.Equal(t, test.sch, report.ScheduleSource, test.name)
	}
}
