package flightview

import "time"

// The synthetic fleet: deterministic placeholder traffic substituted
// when a provider is down or unconfigured. Shaped to resemble a real
// fetch over the SF bay area - stable flight numbers, plausible routes,
// sane altitudes - so downstream consumers never special-case an empty
// feed. Both adapters render from this one table, which means synthetic
// position and schedule records still fuse into matched views.

type SyntheticFlight struct {
	Ident        string
	Registration string
	EquipType    string
	Origin       string
	Destination  string

	Lat, Long   float64
	Altitude    float64 // feet
	GroundSpeed float64 // knots
	Heading     float64

	ProgressPercent int
	EnrouteMins     int // total scheduled gate-to-gate time
}

var KSyntheticFleet = []SyntheticFlight{
	{"VRD932", "N629VA", "A320", "KSFO", "KLAX", 36.6121, -121.3350, 34000, 441, 138, 45, 85},
	{"UAL1572", "N78511", "B738", "KBOS", "KSFO", 39.5201, -118.9034, 36000, 468, 252, 80, 390},
	{"SWA2558", "N8320J", "B737", "KSFO", "KSAN", 35.2470, -120.3804, 38000, 452, 145, 55, 95},
	{"AAL209", "N823AW", "B738", "KLAX", "KSFO", 37.2104, -121.7542, 12000, 310, 332, 90, 80},
	{"SKW3342", "N224SY", "E75L", "KSJC", "KPDX", 39.0312, -122.4710, 31000, 420, 348, 40, 105},
	{"DAL878", "N3758Y", "B739", "KSEA", "KSFO", 40.9644, -122.3503, 35000, 455, 175, 60, 125},
	{"VRD25", "N855VA", "A320", "KJFK", "KSFO", 40.1219, -111.6180, 38000, 470, 265, 65, 370},
	{"N739MA", "N739MA", "C172", "KHWD", "KHWD", 37.6589, -122.1217, 2400, 95, 90, 0, 0},
}

// SyntheticPositionRecord renders the fleet entry as if the position
// aggregator had reported it just now.
func (sf SyntheticFlight) SyntheticPositionRecord(now time.Time) PositionRecord {
	pr := PositionRecord{
		Ident:          sf.Ident,
		Registration:   sf.Registration,
		Altitude:       sf.Altitude,
		GroundSpeed:    sf.GroundSpeed,
		Heading:        sf.Heading,
		LastContactUTC: now,
		Authentic:      false, // synthetic data never attests high confidence
		Provenance:     SourceFallback,
	}
	pr.Lat, pr.Long = sf.Lat, sf.Long
	return pr
}

// SyntheticScheduleRecord renders the fleet entry as if the schedule
// API had reported it. Times are back-computed from the progress
// percentage so the flight always looks underway.
func (sf SyntheticFlight) SyntheticScheduleRecord(now time.Time) ScheduleRecord {
	sr := ScheduleRecord{
		Ident:           sf.Ident,
		Registration:    sf.Registration,
		EquipType:       sf.EquipType,
		Origin:          sf.Origin,
		Destination:     sf.Destination,
		Status:          StatusEnRoute,
		ProgressPercent: sf.ProgressPercent,
		Waypoints:       []Waypoint{},
		Provenance:      SourceFallback,
	}

	if sf.EnrouteMins > 0 {
		total := time.Duration(sf.EnrouteMins) * time.Minute
		elapsed := total * time.Duration(sf.ProgressPercent) / 100
		dep := now.Add(-elapsed)
		sr.ScheduledDepartureUTC = dep
		sr.ActualDepartureUTC = dep
		sr.ScheduledArrivalUTC = dep.Add(total)
	} else {
		sr.Status = StatusOnGround
	}

	wp := Waypoint{Name: "SYNTH", Altitude: sf.Altitude, ETAUTC: now}
	wp.Lat, wp.Long = sf.Lat, sf.Long
	sr.Waypoints = append(sr.Waypoints, wp)

	return sr
}

// SyntheticPositions is the whole fleet as position records.
func SyntheticPositions(now time.Time) []PositionRecord {
	out := make([]PositionRecord, 0, len(KSyntheticFleet))
	for _, sf := range KSyntheticFleet {
		out = append(out, sf.SyntheticPositionRecord(now))
	}
	return out
}

// SyntheticSchedules is the airline part of the fleet as schedule
// records; GA aircraft don't file schedules.
func SyntheticSchedules(now time.Time) []ScheduleRecord {
	out := make([]ScheduleRecord, 0, len(KSyntheticFleet))
	for _, sf := range KSyntheticFleet {
		if NewCallsign(sf.Ident).CallsignType == Registration {
			continue
		}
		out = append(out, sf.SyntheticScheduleRecord(now))
	}
	return out
}
