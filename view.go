package flightview

import (
	"fmt"
	"time"

	"github.com/skypies/util/date"

	"github.com/skypies/geo"
)

// FusedFlightView is the single consistent per-flight view the rest of
// the world consumes. There is exactly one of these per normalized
// ident per refresh cycle; views are recomputed wholesale each cycle
// and never patched incrementally.
//
// No field is ever omitted. Strings we have no data for hold
// UnknownStr; numerics are zeroed with the quality marked LOW.
type FusedFlightView struct {
	Ident string `json:"ident"` // normalized; the unique key

	// Position family. Always sourced from the position record when one
	// exists.
	Lat            float64   `json:"lat"`
	Long           float64   `json:"long"`
	Altitude       float64   `json:"altitude"`
	GroundSpeed    float64   `json:"ground_speed"`
	Heading        float64   `json:"heading"`
	LastContactUTC time.Time `json:"last_contact_utc"`

	// Schedule family. Always sourced from the schedule record when one
	// exists.
	Registration          string     `json:"registration"`
	EquipType             string     `json:"equip_type"`
	Origin                string     `json:"origin"`
	Destination           string     `json:"destination"`
	ScheduledDepartureUTC time.Time  `json:"scheduled_departure_utc"`
	ActualDepartureUTC    time.Time  `json:"actual_departure_utc"`
	ScheduledArrivalUTC   time.Time  `json:"scheduled_arrival_utc"`
	ActualArrivalUTC      time.Time  `json:"actual_arrival_utc"`
	Waypoints             []Waypoint `json:"waypoints"`

	Status          string `json:"status"`
	ProgressPercent int    `json:"progress_percent"`

	// Per-family provenance: SourcePositions/SourceSchedules/
	// SourceFallback, or "" when that family is wholly absent.
	PositionSource string `json:"position_source"`
	ScheduleSource string `json:"schedule_source"`
	StatusSource   string `json:"status_source"`

	DataQuality DataQuality `json:"data_quality"`
}

// NewFusedFlightView returns a view with every field in its explicit
// "unknown" state; fusion then fills in what it can.
func NewFusedFlightView(ident string) FusedFlightView {
	return FusedFlightView{
		Ident:        ident,
		Registration: UnknownStr,
		EquipType:    UnknownStr,
		Origin:       UnknownStr,
		Destination:  UnknownStr,
		Status:       StatusEnRoute,
		Waypoints:    []Waypoint{},
		DataQuality: DataQuality{
			PositionAccuracy: AccuracyLow,
			ScheduleAccuracy: AccuracyLow,
		},
	}
}

func (v FusedFlightView) Latlong() geo.Latlong {
	return geo.Latlong{Lat: v.Lat, Long: v.Long}
}

func (v FusedFlightView) HasPosition() bool { return v.PositionSource != "" }
func (v FusedFlightView) HasSchedule() bool { return v.ScheduleSource != "" }

func (v FusedFlightView) String() string {
	return fmt.Sprintf("%-8.8s [%s-%s] (%.4f,%.4f) %.0fft %.0fkt %q P:%s/%s S:%s/%s",
		v.Ident, v.Origin, v.Destination, v.Lat, v.Long, v.Altitude, v.GroundSpeed,
		v.Status,
		v.PositionSource, v.DataQuality.PositionAccuracy,
		v.ScheduleSource, v.DataQuality.ScheduleAccuracy)
}

type ViewsByIdent []FusedFlightView

func (s ViewsByIdent) Len() int           { return len(s) }
func (s ViewsByIdent) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s ViewsByIdent) Less(i, j int) bool { return s[i].Ident < s[j].Ident }

func DebugViewList(views []FusedFlightView) string {
	debug := "Flight   Orig  Dest  Latlong              Alt      Speed  Status       Quality    Last contact\n"
	for _, v := range views {
		contact := "-"
		if !v.LastContactUTC.IsZero() {
			contact = date.InPdt(v.LastContactUTC).Format("15:04:05 MST")
		}
		debug += fmt.Sprintf(
			"%-8.8s %-5.5s %-5.5s (% 8.4f,%9.4f) %6.0fft %4.0fkt %-12.12s %-4s/%-4s  %s\n",
			v.Ident, v.Origin, v.Destination, v.Lat, v.Long,
			v.Altitude, v.GroundSpeed, v.Status,
			v.DataQuality.PositionAccuracy, v.DataQuality.ScheduleAccuracy,
			contact)
	}
	return debug
}
