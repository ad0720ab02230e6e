package fa

// The FlightXML-style enroute listing. The upstream schema is a vendor
// contract we don't control; the field set below is what we consume.

type EnrouteResponse struct {
	EnrouteResult EnrouteStruct `json:"EnrouteResult"`
}

type EnrouteStruct struct {
	Flights    []EnrouteFlightStruct `json:"flights"`
	Nextoffset int                   `json:"next_offset"`
}

type EnrouteFlightStruct struct {
	Ident               string `json:"ident"`        // callsign (ICAO3+flightnumber, usually)
	Registration        string `json:"registration"` // "N629VA"
	Aircrafttype        string `json:"aircrafttype"` // "A320"
	Origin              string `json:"origin"`       // "KSFO"
	Destination         string `json:"destination"`  // "KLAX"
	Fileddeparturetime  int    `json:"filed_departuretime"` // epoch
	Actualdeparturetime int    `json:"actualdeparturetime"` // epoch; 0 until airborne
	Estimatedarrivaltime int   `json:"estimatedarrivaltime"`
	Actualarrivaltime   int    `json:"actualarrivaltime"`
	Status              string `json:"status"`           // "En Route", "Scheduled", "Arrived", ...
	ProgressPercent     int    `json:"progress_percent"` // 0..100
	Waypoints           []WaypointStruct `json:"waypoints"`
}

type WaypointStruct struct {
	Name      string  `json:"name"`      // "EBAYE"
	Latitude  float64 `json:"latitude"`  // 36.9561
	Longitude float64 `json:"longitude"` // -121.9511
	Altitude  int     `json:"altitude"`  // hundreds of feet, as upstream sends it
	ETA       int     `json:"eta"`       // epoch; 0 when unknown
}
