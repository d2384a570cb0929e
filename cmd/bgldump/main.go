// cmd/bgldump/main.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// bgldump prints the airports, taxiways and parking found in scenery
// containers.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/goforj/godump"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/pushback-utility/pbutil/aviation"
	"github.com/pushback-utility/pbutil/bgl"
	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/scenery"
	"github.com/pushback-utility/pbutil/util"
)

var (
	logLevel = flag.String("loglevel", "warn", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "log file directory")
	envFile  = flag.String("env", ".env", "file of environment variable overrides")
	icao     = flag.String("icao", "", "only print the airport with the given ICAO code")
	dump     = flag.Bool("dump", false, "dump the full decoded airport records")
	scan     = flag.Bool("scan", false, "decode every container under the given files and directories and summarize")
	nWorkers = flag.Int("nworkers", runtime.NumCPU(), "number of containers to decode concurrently with -scan")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: bgldump [flags] [file.bgl...]\n")
	fmt.Fprintf(os.Stderr, "With no files, -icao finds the airport through $PBUTIL_INDEX and $PBUTIL_SCENERY_ROOT.\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *envFile, err)
	}

	lg := log.New(*logLevel, *logDir, os.Stderr)
	defer lg.CatchAndReportCrash()

	var err error
	switch {
	case *scan:
		if flag.NArg() == 0 {
			usage()
		}
		err = scanContainers(os.Stdout, flag.Args(), lg)
	case flag.NArg() == 0:
		if *icao == "" {
			usage()
		}
		err = printFromLibrary(os.Stdout, *icao, lg)
	default:
		for _, fn := range flag.Args() {
			if err = printFile(os.Stdout, fn, lg); err != nil {
				break
			}
		}
	}

	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printFromLibrary(w io.Writer, icao string, lg *log.Logger) error {
	root, index := os.Getenv("PBUTIL_SCENERY_ROOT"), os.Getenv("PBUTIL_INDEX")
	if root == "" || index == "" {
		return errors.New("PBUTIL_SCENERY_ROOT and PBUTIL_INDEX must be set to look up airports")
	}

	reg, err := aviation.LoadRegistryFile(index)
	if err != nil {
		return err
	}
	ap, err := scenery.NewLibrary(root, reg, lg).Airport(strings.ToUpper(icao))
	if err != nil {
		return err
	}
	printAirport(w, ap)
	return nil
}

func printFile(w io.Writer, fn string, lg *log.Logger) error {
	buf, err := util.ReadFile(fn)
	if err != nil {
		return err
	}
	f, err := bgl.Decode(buf, lg.With("file", fn))
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}

	fmt.Fprintf(w, "%s: %d section(s)\n", fn, len(f.Sections))
	for _, rec := range f.Airports() {
		if *icao != "" && !strings.EqualFold(rec.ICAO, *icao) {
			continue
		}
		if *dump {
			godump.Fdump(w, rec)
		} else {
			printAirport(w, rec.Airport)
		}
	}
	if f.Problems.HaveErrors() {
		fmt.Fprintf(w, "Problems:\n%s\n", f.Problems.String())
	}
	return nil
}

func printAirport(w io.Writer, ap *aviation.Airport) {
	fmt.Fprintf(w, "\n%s at %s, elevation %.0fm, magvar %.1f\n", ap, ap.Location.DDString(), ap.Altitude, ap.MagVar)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tTYPE\tLOCATION")
	for _, n := range ap.Nodes.Nodes {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", n.Index, n.Type, n.Location.DDString())
	}
	tw.Flush()

	fmt.Fprintln(tw, "\nEDGE\tTYPE\tSTART\tEND\tTO\tWIDTH")
	for _, e := range ap.Graph.Edges {
		to := "?"
		if p, err := ap.EdgeTarget(e); err == nil {
			to = p.DDString()
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%.1fm\n", e.Index, e.Type, e.Start, e.End, to, e.Width)
	}
	tw.Flush()

	fmt.Fprintln(tw, "\nSPOT\tNAME\tTYPE\tPUSHBACK\tRADIUS\tHEADING\tAIRLINES")
	for _, s := range ap.Parking.Spots {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1fm\t%.0f\t%s\n", s.Index, s.Label(), s.Type, s.Pushback,
			s.Radius, s.Heading, strings.Join(s.Airlines, ","))
	}
	tw.Flush()
}

type scanResult struct {
	path     string
	airports []string
	problems int
	err      error
}

func isContainer(path string) bool {
	path = strings.ToLower(strings.TrimSuffix(path, ".zst"))
	return filepath.Ext(path) == ".bgl"
}

func findContainers(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		err := filepath.WalkDir(a, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && (path == a || isContainer(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func scanContainers(w io.Writer, args []string, lg *log.Logger) error {
	files, err := findContainers(args)
	if err != nil {
		return err
	}

	// Each goroutine decodes into its own buffer and writes only its own
	// result slot.
	results := make([]scanResult, len(files))
	var eg errgroup.Group
	eg.SetLimit(max(1, *nWorkers))
	for i, fn := range files {
		eg.Go(func() error {
			buf, err := util.ReadFile(fn)
			if err != nil {
				return err
			}

			r := scanResult{path: fn}
			f, err := bgl.Decode(buf, lg.With("file", fn))
			if err != nil {
				r.err = err
			} else {
				for _, rec := range f.Airports() {
					r.airports = append(r.airports, rec.ICAO)
				}
				r.problems = len(f.Problems.Errors())
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var nAirports, nFailed, nProblems int
	for _, r := range results {
		if r.err != nil {
			nFailed++
			fmt.Fprintf(w, "%s: %v\n", r.path, r.err)
			continue
		}
		nAirports += len(r.airports)
		nProblems += r.problems
		if r.problems > 0 || *icao == "" || containsFold(r.airports, *icao) {
			fmt.Fprintf(w, "%s: %d airport(s) %s, %d problem(s)\n", r.path, len(r.airports),
				strings.Join(r.airports, " "), r.problems)
		}
	}
	fmt.Fprintf(w, "%d container(s), %d airport(s), %d problem(s), %d failed\n", len(results), nAirports,
		nProblems, nFailed)
	return nil
}

func containsFold(s []string, v string) bool {
	for _, e := range s {
		if strings.EqualFold(e, v) {
			return true
		}
	}
	return false
}
