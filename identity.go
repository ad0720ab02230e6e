package flightview

import (
	"fmt"
	"regexp"
	"strconv"
)

/* Flight identifiers, as seen across the two providers

The position feed carries whatever the aircraft broadcasts: an ICAO
flight number (SWA3848), a registration (N839AL), a bare flight number
(4517), or junk ('????????'). The schedule API uses an IATA/ICAO
flightnumber or a registration. The only way to correlate the two is to
normalize both sides down to a shared key.
*/

// NormalizeIdent strips everything outside [0-9A-Za-z] and uppercases
// the rest. Idempotent. An ident that normalizes to "" is junk and can
// never match anything.
func NormalizeIdent(in string) string {
	out := make([]byte, 0, len(in))
	for i := 0; i < len(in); i++ {
		c := in[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
			out = append(out, c)
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		}
	}
	return string(out)
}

func IdentsMatch(a, b string) bool {
	na := NormalizeIdent(a)
	return na != "" && na == NormalizeIdent(b)
}

// FindIdent resolves needle (already normalized) against a set of
// normalized candidate idents. Exact match always wins. Failing that,
// we allow a prefix extension ("VS3" -> "VS30"), but only when exactly
// one candidate extends the needle; normalization can conflate flights
// that share a numeric prefix, so an ambiguous prefix is no match at
// all. Returns "" for no match - which is an expected outcome, not an
// error.
func FindIdent(needle string, candidates []string) string {
	if needle == "" {
		return ""
	}

	found := ""
	for _, c := range candidates {
		if c == needle {
			return c
		}
		if len(c) > len(needle) && c[:len(needle)] == needle {
			if found != "" {
				return "" // second extension; ambiguous
			}
			found = c
		}
	}
	return found
}

// Callsign parsing, for judging what kind of identifier the position
// feed gave us. Junk callsigns never pair with schedule records, and
// leading zeroes / ATC suffixes need stripping before normalization
// ("VRD010A" is flight VRD10).

type CallsignType int

const (
	JunkCallsign CallsignType = iota
	Registration
	IcaoFlightNumber
	BareFlightNumber
)

type Callsign struct {
	Raw string

	CallsignType
	Registration string
	IcaoPrefix   string
	ATCSuffix    string
	Number       int64
}

func (c Callsign) String() string {
	if c.CallsignType == IcaoFlightNumber {
		return fmt.Sprintf("%s%d", c.IcaoPrefix, c.Number) // strips leading zeroes and ATC suffix
	}
	return c.Raw
}

func (c1 Callsign) Equal(c2 Callsign) bool {
	return c1.String() == c2.String()
}

var (
	// An N-number is one to five characters, starts with a nonzero
	// digit, and never contains I or O.
	registrationRE = regexp.MustCompile("^(N[1-9][0-9A-HJ-NP-Z]{0,4})$")
	icaoFlightRE   = regexp.MustCompile("^([A-Z]{3})([0-9]{1,4})([A-Z]?)$")
	bareFlightRE   = regexp.MustCompile("^([0-9]{2,4})$")
)

func NewCallsign(callsign string) (ret Callsign) {
	ret.Raw = callsign

	if reg := registrationRE.FindStringSubmatch(callsign); reg != nil {
		ret.Registration = callsign
		ret.CallsignType = Registration
		return
	}

	if icao := icaoFlightRE.FindStringSubmatch(callsign); icao != nil {
		ret.Number, _ = strconv.ParseInt(icao[2], 10, 64) // no errors here :)
		ret.IcaoPrefix = icao[1]
		ret.ATCSuffix = icao[3]
		ret.CallsignType = IcaoFlightNumber
		return
	}

	if bare := bareFlightRE.FindStringSubmatch(callsign); bare != nil {
		ret.Number, _ = strconv.ParseInt(bare[1], 10, 64)
		ret.CallsignType = BareFlightNumber
		return
	}

	ret.CallsignType = JunkCallsign
	return
}
