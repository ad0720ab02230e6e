// fview runs one fusion cycle from the command line and prints the
// fused airspace as a text table, plus the composed health. Handy for
// eyeballing what the service would serve without standing it up.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/skypies/util/date"

	fv "github.com/skypies/flightview"
	"github.com/skypies/flightview/aex"
	"github.com/skypies/flightview/config"
	"github.com/skypies/flightview/fa"
	"github.com/skypies/flightview/fuser"
)

var fConfigPath = flag.String("config", "", "path to YAML config (optional)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*fConfigPath)
	if err != nil {
		log.Fatalf("fview: %v", err)
	}

	positions := aex.New(nil, cfg.Aex.URL, cfg.Aex.APIKey)
	schedules := fa.New(nil, cfg.Fa.URL, cfg.Fa.Username, cfg.Fa.APIKey)
	f := fuser.New(positions, schedules)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	views := f.FetchAll(ctx)

	fmt.Printf("-- fused airspace at %s (%d flights, %s) --\n",
		date.NowInPdt().Format("15:04:05 MST"), len(views),
		date.RoundDuration(time.Since(start)))
	fmt.Print(fv.DebugViewList(views))

	health := f.Health(ctx)
	fmt.Printf("\nhealth: overall=%s aex=[%s auth=%v %q] fa=[%s auth=%v %q]\n",
		health.Overall,
		health.PositionSource.Status, health.PositionSource.Authenticated,
		health.PositionSource.Message,
		health.ScheduleSource.Status, health.ScheduleSource.Authenticated,
		health.ScheduleSource.Message)
}
