package fuser

import (
	"sort"
	"time"

	fv "github.com/skypies/flightview"
)

/* Merge semantics

Field precedence is fixed: position-family fields (lat, long, altitude,
speed, heading, last contact) always come from the position record when
one exists; schedule-family fields (origin, destination, times,
waypoints, equipment) always come from the schedule record. Status comes
from the schedule if it has one, else is derived from the position's
movement state, else defaults to "En Route".

Accuracy grading:
  position: HIGH for an authentic live fix; MEDIUM for a non-authentic
  live fix (MLAT etc) or a position estimated from schedule waypoints;
  LOW for synthetic fallback or nothing at all.
  schedule: HIGH for a matched live schedule record; LOW otherwise
  (including synthetic fallback).
*/

// Merge fuses the two record sets into exactly one view per normalized
// identity. Absence of a match is a normal outcome, not an error.
// Duplicate idents within one source collapse to the most recently
// fetched record (later in the slice).
func Merge(positions []fv.PositionRecord, schedules []fv.ScheduleRecord, now time.Time) []fv.FusedFlightView {
	posByIdent := map[string]fv.PositionRecord{}
	posIdents := []string{}
	for _, pr := range positions {
		n := fv.NormalizeIdent(pr.Ident)
		if n == "" {
			continue // junk callsign; nothing to key on
		}
		if _, seen := posByIdent[n]; !seen {
			posIdents = append(posIdents, n)
		}
		posByIdent[n] = pr
	}

	schByIdent := map[string]fv.ScheduleRecord{}
	schIdents := []string{}
	for _, sr := range schedules {
		n := fv.NormalizeIdent(sr.Ident)
		if n == "" {
			continue
		}
		if _, seen := schByIdent[n]; !seen {
			schIdents = append(schIdents, n)
		}
		schByIdent[n] = sr
	}

	views := []fv.FusedFlightView{}
	schUsed := map[string]bool{}

	// Exact matches claim their schedules up front, so a prefix
	// extension can never steal a schedule from the flight that owns it
	// outright, whatever order the records arrived in.
	for _, n := range posIdents {
		if _, exact := schByIdent[n]; exact {
			schUsed[n] = true
		}
	}

	for _, n := range posIdents {
		pr := posByIdent[n]
		v := fv.NewFusedFlightView(n)
		applyPosition(&v, pr)

		if _, exact := schByIdent[n]; exact {
			applySchedule(&v, schByIdent[n])
		} else if match := fv.FindIdent(n, schIdents); match != "" && !schUsed[match] {
			applySchedule(&v, schByIdent[match])
			schUsed[match] = true
		}

		deriveStatus(&v, &pr)
		v.DataQuality.LastUpdated = now
		views = append(views, v)
	}

	for _, n := range schIdents {
		if schUsed[n] {
			continue
		}
		sr := schByIdent[n]
		v := fv.NewFusedFlightView(n)
		applySchedule(&v, sr)

		// No live position. Walk the route for a last-known estimate;
		// failing that the position stays zeroed at LOW.
		if wp, ok := sr.EstimatedPosition(now); ok {
			v.Lat, v.Long, v.Altitude = wp.Lat, wp.Long, wp.Altitude
			v.PositionSource = sr.Provenance
			if sr.Provenance != fv.SourceFallback {
				v.DataQuality.PositionAccuracy = fv.AccuracyMedium
			}
		}

		deriveStatus(&v, nil)
		v.DataQuality.LastUpdated = now
		views = append(views, v)
	}

	sort.Sort(fv.ViewsByIdent(views))
	return views
}

func applyPosition(v *fv.FusedFlightView, pr fv.PositionRecord) {
	v.Lat, v.Long = pr.Lat, pr.Long
	v.Altitude = pr.Altitude
	v.GroundSpeed = pr.GroundSpeed
	v.Heading = pr.Heading
	v.LastContactUTC = pr.LastContactUTC
	v.PositionSource = pr.Provenance

	if pr.Registration != "" {
		v.Registration = pr.Registration
	}

	switch {
	case pr.Provenance == fv.SourceFallback:
		v.DataQuality.PositionAccuracy = fv.AccuracyLow
	case pr.Authentic:
		v.DataQuality.PositionAccuracy = fv.AccuracyHigh
	default:
		v.DataQuality.PositionAccuracy = fv.AccuracyMedium
	}
}

func applySchedule(v *fv.FusedFlightView, sr fv.ScheduleRecord) {
	if sr.Registration != "" {
		v.Registration = sr.Registration
	}
	if sr.EquipType != "" {
		v.EquipType = sr.EquipType
	}
	if sr.Origin != "" {
		v.Origin = sr.Origin
	}
	if sr.Destination != "" {
		v.Destination = sr.Destination
	}
	v.ScheduledDepartureUTC = sr.ScheduledDepartureUTC
	v.ActualDepartureUTC = sr.ActualDepartureUTC
	v.ScheduledArrivalUTC = sr.ScheduledArrivalUTC
	v.ActualArrivalUTC = sr.ActualArrivalUTC
	v.ProgressPercent = sr.ProgressPercent
	v.Waypoints = sr.Waypoints
	v.ScheduleSource = sr.Provenance

	if sr.Status != "" {
		v.Status = sr.Status
		v.StatusSource = sr.Provenance
	}

	if sr.Provenance == fv.SourceFallback {
		v.DataQuality.ScheduleAccuracy = fv.AccuracyLow
	} else {
		v.DataQuality.ScheduleAccuracy = fv.AccuracyHigh
	}
}

// deriveStatus fills in v.Status when the schedule didn't supply one:
// the position's movement state if we have a live record, else the
// "En Route" default already set by NewFusedFlightView. pr is nil for
// schedule-only views.
func deriveStatus(v *fv.FusedFlightView, pr *fv.PositionRecord) {
	if v.StatusSource != "" {
		return // schedule already supplied a label
	}
	if pr != nil {
		if pr.Moving() {
			v.Status = fv.StatusEnRoute
		} else {
			v.Status = fv.StatusOnGround
		}
		v.StatusSource = pr.Provenance
	}
}
