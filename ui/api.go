// Package ui holds the HTTP handlers for the external query surface:
// the fused flight list, single-flight lookup, and composed health.
// These are thin; all the logic lives in fuser.
package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skypies/util/widget"

	fv "github.com/skypies/flightview"
	"github.com/skypies/flightview/fuser"
)

type UI struct {
	Cache *fuser.ServiceCache
	Fuser *fuser.Fuser
}

// {{{ FlightsHandler

// /api/flights
//   &debug=1   (text table instead of JSON)

func (ui UI) FlightsHandler(w http.ResponseWriter, r *http.Request) {
	result := ui.Cache.GetFusedFlights(r.Context())

	if widget.FormValueCheckbox(r, "debug") {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "--- fused airspace (%d flights, stale=%v) ---\n%s",
			len(result.Views), result.Stale, fv.DebugViewList(result.Views))
		return
	}

	writeJson(w, result)
}

// }}}
// {{{ FlightLookupHandler

// /api/flight?ident=VRD932

func (ui UI) FlightLookupHandler(w http.ResponseWriter, r *http.Request) {
	ident := r.FormValue("ident")
	if ident == "" {
		http.Error(w, "needed an ident argument", http.StatusBadRequest)
		return
	}

	view, found := ui.Cache.GetFlightDetail(r.Context(), ident)
	if !found {
		http.Error(w, fmt.Sprintf("ident %s not found this cycle", ident), http.StatusNotFound)
		return
	}

	writeJson(w, view)
}

// }}}
// {{{ HealthHandler

// /api/health

func (ui UI) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJson(w, ui.Fuser.Health(r.Context()))
}

// }}}

func writeJson(w http.ResponseWriter, obj interface{}) {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("writeJson: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
