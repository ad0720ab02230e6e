package aex

type LiveQueryResponse struct {
	Aircraft []AExAircraft `json:"acList"`
}

// The VirtualRadar-style aircraft list entry. The upstream schema is a
// vendor contract we don't control; this is the subset we consume, with
// example values.
type AExAircraft struct {
	Icao    string  `json:"Icao"`    // "AAA5AE"
	Call    string  `json:"Call"`    // "UAL1572"
	Reg     string  `json:"Reg"`     // "N78511"
	Lat     float64 `json:"Lat"`     // 37.680267
	Long    float64 `json:"Long"`    // -122.436842
	Alt     float64 `json:"Alt"`     // 8550
	GAlt    float64 `json:"GAlt"`    // 8514
	Spd     float64 `json:"Spd"`     // 268.6
	Trak    float64 `json:"Trak"`    // 196.9
	Vsi     float64 `json:"Vsi"`     // 3712
	PosTime float64 `json:"PosTime"` // 1.50561864888e+12 (epoch millis)
	Mlat    bool    `json:"Mlat"`    // true when multilaterated, not broadcast
	Bad     bool    `json:"Bad"`     // provider's own sanity flag
	Gnd     bool    `json:"Gnd"`     // on the ground
	Rcvr    float64 `json:"Rcvr"`    // 1
	Type    string  `json:"Type"`    // "B738"
	Op      string  `json:"Op"`      // "United Airlines"
	OpIcao  string  `json:"OpIcao"`  // "UAL"
}
