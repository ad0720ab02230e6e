// Package flightview contains the types for the fused flight view: the
// per-provider records, the merged per-flight view, and identity
// resolution. No provider or network imports.
package flightview

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	// Provenance labels. Every populated field family in a fused view
	// traces back to one of these.
	SourcePositions = "aex"      // the live ADS-B position aggregator
	SourceSchedules = "fa"       // the flight-tracking schedule API
	SourceFallback  = "fallback" // deterministic synthetic records

	// Sentinel for string fields we have no data for. Views never omit a
	// field; absence is always this explicit value.
	UnknownStr = "unknown"

	// Status used when neither provider can tell us anything better.
	StatusEnRoute  = "En Route"
	StatusOnGround = "On Ground"
)

// Adapter-level failure taxonomy. These never escape to callers of the
// fusion pipeline; adapters recover them locally by substituting
// synthetic data. They exist so logs and health probes can say which
// kind of failure happened.
var (
	ErrAdapterTimeout    = errors.New("adapter: upstream call timed out")
	ErrAdapterAuth       = errors.New("adapter: missing or rejected credential")
	ErrMalformedResponse = errors.New("adapter: malformed upstream payload")
)

// Accuracy grades the data behind a field family in a fused view.
type Accuracy int

const (
	AccuracyLow Accuracy = iota
	AccuracyMedium
	AccuracyHigh
)

func (a Accuracy) String() string {
	switch a {
	case AccuracyHigh:
		return "HIGH"
	case AccuracyMedium:
		return "MEDIUM"
	}
	return "LOW"
}

func (a Accuracy) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Accuracy) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "HIGH":
		*a = AccuracyHigh
	case "MEDIUM":
		*a = AccuracyMedium
	default:
		*a = AccuracyLow
	}
	return nil
}

// DataQuality records how much we trust each half of a fused view, and
// when the view was computed.
type DataQuality struct {
	PositionAccuracy Accuracy  `json:"position_accuracy"`
	ScheduleAccuracy Accuracy  `json:"schedule_accuracy"`
	LastUpdated      time.Time `json:"last_updated"`
}

// SourceHealth is what an adapter's HealthCheck reports. It probes the
// credential and connectivity without doing a full fetch.
type SourceHealth struct {
	Source        string `json:"source"`
	Status        string `json:"status"` // "ok" or "error"
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

func (sh SourceHealth) Healthy() bool { return sh.Status == "ok" }
