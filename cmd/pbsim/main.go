// cmd/pbsim/main.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// pbsim runs an automated pushback from a parking spot against a
// simulated aircraft, or records a custom pushback path for the spot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/bridge"
	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/math"
	"github.com/pushback-utility/pbutil/pushback"
	"github.com/pushback-utility/pbutil/scenery"
)

var (
	configFile  = flag.String("config", "", "config file (default: config.json in the user config directory)")
	writeConfig = flag.Bool("writeconfig", false, "write the effective config to the config file and exit")
	logLevel    = flag.String("loglevel", "", "logging level: debug, info, warn, error (default: from config)")
	logDir      = flag.String("logdir", "", "log file directory")
	envFile     = flag.String("env", ".env", "file of environment variable overrides")
	spotName    = flag.String("spot", "", "parking spot to start from, e.g. \"EDDM/GATE A 12\"")
	position    = flag.String("pos", "", "position to start from as \"lat,lon\", instead of -spot")
	heading     = flag.Float64("heading", -1, "initial heading (default: the parking spot's heading)")
	route       = flag.Int("route", 0, "index of the route to push back onto")
	record      = flag.Bool("record", false, "save the resolved pushback path for the spot and exit")
	tick        = flag.Duration("tick", 100*time.Millisecond, "simulation time step")
	timeout     = flag.Duration("timeout", 15*time.Minute, "maximum simulated time")
	noise       = flag.Float64("noise", 0, "position noise in meters")
	seed        = flag.Int64("seed", 1, "random seed for sensor noise")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *envFile, err)
	}

	// Log at info until we know what the config asks for.
	level := *logLevel
	if level == "" {
		level = "info"
	}
	lg := log.New(level, *logDir, nil)
	defer lg.CatchAndReportCrash()

	if *configFile == "" {
		*configFile = configFilePath(lg)
	}
	config, err := LoadOrMakeDefaultConfig(*configFile, lg)
	if err != nil {
		fatal(lg, err)
	}
	if *logLevel == "" && config.LogLevel != "info" {
		lg = log.New(config.LogLevel, *logDir, nil)
	}

	if *writeConfig {
		if err := config.Save(*configFile, lg); err != nil {
			fatal(lg, err)
		}
		return
	}
	if err := config.Check(); err != nil {
		fatal(lg, err)
	}

	reg, err := aviation.LoadRegistryFile(config.IndexFile)
	if err != nil {
		fatal(lg, err)
	}
	lib := scenery.NewLibrary(config.SceneryRoot, reg, lg)

	var store pushback.PathStore
	if config.PathsDir != "" {
		store = pushback.NewFileStore(config.PathsDir)
	} else if *record {
		fatal(lg, fmt.Errorf("-record: paths_dir must be set (or $%s)", envPaths))
	}

	start, hdg, err := startingPoint(lib)
	if err != nil {
		fatal(lg, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	k := bridge.NewKinematic(start, hdg, *seed)
	k.PositionNoise = *noise
	p := pushback.NewPlanner(config.Pushback, lib, store, lg)

	if err := simulate(ctx, os.Stdout, p, k); err != nil {
		fatal(lg, err)
	}
}

func fatal(lg *log.Logger, err error) {
	lg.Errorf("%v", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func startingPoint(lib *scenery.Library) (math.Point2LL, float64, error) {
	switch {
	case *spotName != "":
		icao, label, ok := strings.Cut(*spotName, "/")
		if !ok {
			return math.Point2LL{}, 0, fmt.Errorf("%s: expected ICAO/spot", *spotName)
		}
		ap, err := lib.Airport(strings.ToUpper(icao))
		if err != nil {
			return math.Point2LL{}, 0, err
		}
		spot, err := ap.Parking.ByLabel(strings.ToUpper(label))
		if err != nil {
			return math.Point2LL{}, 0, fmt.Errorf("%s: %w", ap.ICAO, err)
		}
		hdg := float64(spot.Heading)
		if *heading >= 0 {
			hdg = *heading
		}
		return spot.Location, hdg, nil

	case *position != "":
		lat, lon, ok := strings.Cut(*position, ",")
		if !ok {
			return math.Point2LL{}, 0, fmt.Errorf("%s: expected lat,lon", *position)
		}
		la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return math.Point2LL{}, 0, err
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if err != nil {
			return math.Point2LL{}, 0, err
		}
		return math.Point2LL{lo, la}, max(0, *heading), nil

	default:
		return math.Point2LL{}, 0, errors.New("one of -spot or -pos must be given")
	}
}

func simulate(ctx context.Context, w io.Writer, p *pushback.Planner, k *bridge.Kinematic) error {
	var simTime time.Duration
	status := ""
	report := func() {
		if s := p.Status(); s != status {
			status = s
			fmt.Fprintf(w, "%8s  %-16s %s\n", simTime.Round(time.Second), p.State(), s)
		}
	}

	step := func() error {
		if _, err := bridge.Tick(p, k, k); err != nil {
			return err
		}
		report()
		k.Step(*tick)
		simTime += *tick
		return nil
	}

	if err := step(); err != nil {
		return err
	}
	sample, err := k.Sample()
	if err != nil {
		return err
	}
	if err := p.Start(sample); err != nil {
		return err
	}
	for i, r := range p.Routes() {
		fmt.Fprintf(w, "  route %d: %s\n", i, r)
	}
	if *route != 0 {
		if err := p.SelectRoute(*route); err != nil {
			return err
		}
	}

	if *record {
		sp, err := p.RecordPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved pushback path for %s %s: %v\n", sp.ICAO, sp.Spot, sp.Points)
		p.Reset()
		return nil
	}

	track, _ := p.Track()
	maxOffset := 0.

	k.ParkingBrake = false
	for simTime < *timeout {
		select {
		case <-ctx.Done():
			p.Reset()
			return ctx.Err()
		default:
		}

		if err := step(); err != nil {
			return err
		}
		if _, off, _ := track.Project(k.Position); math.Abs(off) > maxOffset {
			maxOffset = math.Abs(off)
		}
		if p.State() == pushback.Done {
			k.ParkingBrake = true
			if err := step(); err != nil {
				return err
			}
			fmt.Fprintf(w, "Stopped at %s heading %03.0f after %s, at most %.1fm off the planned track\n",
				k.Position.DDString(), k.Heading, simTime.Round(time.Second), maxOffset)
			return nil
		}
	}

	p.Reset()
	return fmt.Errorf("pushback not complete after %s", *timeout)
}
