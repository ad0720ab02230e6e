package fa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fv "github.com/skypies/flightview"
)

func testFlight(ident string) EnrouteFlightStruct {
	return EnrouteFlightStruct{
		Ident:                ident,
		Registration:         "N629VA",
		Aircrafttype:         "A320",
		Origin:               "KSFO",
		Destination:          "KLAX",
		Fileddeparturetime:   1756144800,
		Actualdeparturetime:  1756146000,
		Estimatedarrivaltime: 1756150500,
		Status:               "En Route",
		ProgressPercent:      42,
		Waypoints: []WaypointStruct{
			{Name: "EBAYE", Latitude: 36.9561, Longitude: -121.9511, Altitude: 340, ETA: 1756147200},
		},
	}
}

func TestCallEnroutePages(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "testuser", user)
		assert.Equal(t, "sekrit", pass)
		assert.Equal(t, "KSFO", r.FormValue("airport"))

		mu.Lock()
		calls++
		mu.Unlock()

		resp := EnrouteResponse{}
		switch r.FormValue("offset") {
		case "0":
			resp.EnrouteResult = EnrouteStruct{
				Flights:    []EnrouteFlightStruct{testFlight("VRD932"), testFlight("UAL1572")},
				Nextoffset: 15,
			}
		case "15":
			resp.EnrouteResult = EnrouteStruct{
				Flights:    []EnrouteFlightStruct{testFlight("SWA2558")},
				Nextoffset: -1,
			}
		default:
			t.Errorf("unexpected offset %q", r.FormValue("offset"))
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	f := New(srv.Client(), srv.URL, "testuser", "sekrit")
	flights, err := f.CallEnroute(context.Background())

	require.NoError(t, err)
	require.Len(t, flights, 3)
	assert.Equal(t, "SWA2558", flights[2].Ident)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "should have followed next_offset exactly once")
}

func TestFetchFallsBackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := New(srv.Client(), srv.URL, "testuser", "wrong")
	recs := f.Fetch(context.Background())

	require.NotEmpty(t, recs, "fallback must produce a non-empty synthetic feed")
	for _, sr := range recs {
		assert.Equal(t, fv.SourceFallback, sr.Provenance)
	}
}

func TestFetchCachesWithinTTL(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		json.NewEncoder(w).Encode(EnrouteResponse{
			EnrouteResult: EnrouteStruct{Flights: []EnrouteFlightStruct{testFlight("VRD932")}, Nextoffset: -1},
		})
	}))
	defer srv.Close()

	f := New(srv.Client(), srv.URL, "testuser", "sekrit")
	f.Fetch(context.Background())
	f.Fetch(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "second fetch inside TTL must not hit upstream")
}

func TestToScheduleRecord(t *testing.T) {
	sr, ok := ToScheduleRecord(testFlight("VRD932"))
	require.True(t, ok)

	assert.Equal(t, "VRD932", sr.Ident)
	assert.Equal(t, "A320", sr.EquipType)
	assert.Equal(t, "KSFO", sr.Origin)
	assert.Equal(t, "KLAX", sr.Destination)
	assert.Equal(t, time.Unix(1756144800, 0).UTC(), sr.ScheduledDepartureUTC)
	assert.Equal(t, time.Unix(1756146000, 0).UTC(), sr.ActualDepartureUTC)
	assert.True(t, sr.ActualArrivalUTC.IsZero(), "zero epoch must map to the zero time")
	assert.Equal(t, fv.SourceSchedules, sr.Provenance)

	require.Len(t, sr.Waypoints, 1)
	assert.Equal(t, "EBAYE", sr.Waypoints[0].Name)
	assert.Equal(t, 34000.0, sr.Waypoints[0].Altitude, "upstream altitude is in hundreds of feet")
	assert.Equal(t, 36.9561, sr.Waypoints[0].Lat)

	// Entries with no usable identity are dropped.
	_, ok = ToScheduleRecord(testFlight("????"))
	assert.False(t, ok)

	// Junk waypoints are skipped, not propagated.
	junkWp := testFlight("VRD932")
	junkWp.Waypoints = append(junkWp.Waypoints, WaypointStruct{Name: "BAD", Latitude: 999})
	sr, ok = ToScheduleRecord(junkWp)
	require.True(t, ok)
	assert.Len(t, sr.Waypoints, 1)
}

func TestHealthCheck(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EnrouteResponse{})
	}))
	defer ok.Close()

	sh := New(ok.Client(), ok.URL, "testuser", "sekrit").HealthCheck(context.Background())
	assert.Equal(t, "ok", sh.Status)
	assert.True(t, sh.Authenticated)
	assert.Equal(t, fv.SourceSchedules, sh.Source)

	sh = New(nil, "http://localhost:1", "testuser", "").HealthCheck(context.Background())
	assert.Equal(t, "error", sh.Status)
	assert.Contains(t, sh.Message, "no credential configured")
}
