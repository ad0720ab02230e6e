package flightview

import (
	"testing"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"VS3", "VS3"},
		{"vs3", "VS3"},
		{"vrd-932", "VRD932"},
		{" UAL 1572 ", "UAL1572"},
		{"n739ma", "N739MA"},
		{"????????", ""},
		{"", ""},
	}

	for i, test := range tests {
		actual := NormalizeIdent(test.in)
		if actual != test.expected {
			t.Errorf("[%d] NormalizeIdent(%q) == %q, expected %q", i, test.in, actual, test.expected)
		}
		// Normalizing twice must be a no-op.
		if again := NormalizeIdent(actual); again != actual {
			t.Errorf("[%d] NormalizeIdent not idempotent: %q -> %q", i, actual, again)
		}
	}
}

func TestFindIdent(t *testing.T) {
	tests := []struct {
		needle     string
		candidates []string
		expected   string
	}{
		{"VS3", []string{"VS3", "VS30"}, "VS3"},    // exact always wins
		{"VS3", []string{"VS30", "UAL100"}, "VS30"}, // unique extension
		{"VS3", []string{"VS30", "VS35"}, ""},       // ambiguous extension
		{"VS3", []string{"UAL100"}, ""},
		{"", []string{"VS3"}, ""},
	}

	for i, test := range tests {
		actual := FindIdent(test.needle, test.candidates)
		if actual != test.expected {
			t.Errorf("[%d] FindIdent(%q, %v) == %q, expected %q",
				i, test.needle, test.candidates, actual, test.expected)
		}
	}
}

func TestNewCallsign(t *testing.T) {
	tests := []struct {
		callsign string

		ct  CallsignType
		str string
	}{
		{"", JunkCallsign, ""},
		{"????????", JunkCallsign, "????????"},

		{"N1", Registration, "N1"},
		{"N739MA", Registration, "N739MA"},
		{"N12345", Registration, "N12345"},
		{"N0123", JunkCallsign, "N0123"}, // N-numbers can't start with zero
		{"N123I", JunkCallsign, "N123I"}, // or contain I/O

		{"VRD932", IcaoFlightNumber, "VRD932"},
		{"VRD010", IcaoFlightNumber, "VRD10"},  // leading zero stripped
		{"SKW750R", IcaoFlightNumber, "SKW750"}, // ATC suffix stripped
		{"UAL1572", IcaoFlightNumber, "UAL1572"},

		{"4517", BareFlightNumber, "4517"},
		{"45", BareFlightNumber, "45"},
	}

	for i, test := range tests {
		c := NewCallsign(test.callsign)
		if c.CallsignType != test.ct {
			t.Errorf("[%d] NewCallsign(%q).CallsignType == %d, expected %d",
				i, test.callsign, c.CallsignType, test.ct)
		}
		if c.String() != test.str {
			t.Errorf("[%d] NewCallsign(%q).String() == %q, expected %q",
				i, test.callsign, c.String(), test.str)
		}
	}
}
