package flightview

import (
	"fmt"
	"time"

	"github.com/skypies/adsb"
	"github.com/skypies/geo"
)

// PositionRecord is one aircraft position report, as normalized at the
// position-adapter boundary. Provider payloads are loosely typed; by the
// time one of these exists, the shape has been validated.
type PositionRecord struct {
	Ident        string      // raw flight identifier, as broadcast (see identity.go)
	IcaoId       adsb.IcaoId // hex airframe ID, when the provider has one
	Registration string

	geo.Latlong // embedded, so the geo helpers work directly on records

	Altitude       float64 // feet
	GroundSpeed    float64 // knots
	Heading        float64 // [0,360) degrees
	LastContactUTC time.Time

	// Authentic is true when the provider attests high-confidence
	// tracking (real ADS-B rather than MLAT/estimated positions).
	Authentic bool

	Provenance string // SourcePositions or SourceFallback
}

func (pr PositionRecord) String() string {
	return fmt.Sprintf("%-8.8s %s %.0fft %.0fkt %.0fdeg (age %.0fs)",
		pr.Ident, pr.Latlong, pr.Altitude, pr.GroundSpeed, pr.Heading,
		time.Since(pr.LastContactUTC).Seconds())
}

// Moving says whether the aircraft looks airborne-ish. Taxiing tops out
// well under 50kt.
func (pr PositionRecord) Moving() bool { return pr.GroundSpeed >= 50 }

// Waypoint is one point on a scheduled route.
type Waypoint struct {
	Name string `json:"name"`

	geo.Latlong

	Altitude float64   `json:"altitude"`
	ETAUTC   time.Time `json:"eta_utc"`
}

// ScheduleRecord is one scheduled (or active) flight, as normalized at
// the schedule-adapter boundary.
type ScheduleRecord struct {
	Ident        string
	Registration string
	EquipType    string

	Origin      string
	Destination string

	ScheduledDepartureUTC time.Time
	ActualDepartureUTC    time.Time
	ScheduledArrivalUTC   time.Time
	ActualArrivalUTC      time.Time

	Status          string
	ProgressPercent int
	Waypoints       []Waypoint

	Provenance string // SourceSchedules or SourceFallback
}

func (sr ScheduleRecord) String() string {
	return fmt.Sprintf("%-8.8s [%s-%s] %q %d%%, %d waypoints",
		sr.Ident, sr.Origin, sr.Destination, sr.Status, sr.ProgressPercent,
		len(sr.Waypoints))
}

// EstimatedPosition walks the route and returns the last waypoint we
// should have passed by now, as a stand-in position for flights the
// position feed doesn't know about. ok is false when the route has no
// usable waypoint.
func (sr ScheduleRecord) EstimatedPosition(now time.Time) (Waypoint, bool) {
	best, ok := Waypoint{}, false
	for _, wp := range sr.Waypoints {
		if wp.ETAUTC.IsZero() || wp.ETAUTC.After(now) {
			continue
		}
		if !ok || wp.ETAUTC.After(best.ETAUTC) {
			best, ok = wp, true
		}
	}
	return best, ok
}
