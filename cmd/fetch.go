package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/tonhe/iotmon/internal/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func fetchCmd(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	dashName := fs.String("dashboard", "", "Saved dashboard to poll")
	endpoint := fs.String("endpoint", "", "Status endpoint URL")
	asJSON := fs.Bool("json", false, "Print the state as JSON")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: iotmon fetch [--dashboard NAME] [--endpoint URL] [--json]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dash, err := ResolveDashboard(cfg, Target{Dashboard: *dashName, Endpoint: *endpoint})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := engine.NewSession(dash, engine.WithLogger(NewStderrLogger(cfg)))
	if err := s.Tick(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.State()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printState(os.Stdout, s.State(), time.Now())
}

// printState writes a plain-text rendering of st.
func printState(w io.Writer, st *engine.State, now time.Time) {
	fmt.Fprintf(w, "%s  %s  (%s)\n", st.Name, st.Endpoint, st.Status())

	fmt.Fprintln(w, "\nDistance:")
	if r, ok := st.Latest(); ok {
		fmt.Fprintf(w, "  current  %.2f px  %s\n", r.Current, r.Status())
		if drift, ok := r.Drift(); ok {
			fmt.Fprintf(w, "  drift    %+.2f px\n", drift)
		}
		if !r.Timestamp.IsZero() {
			fmt.Fprintf(w, "  measured %s\n", humanize.RelTime(r.Timestamp, now, "ago", "from now"))
		}
	} else {
		fmt.Fprintln(w, "  (none)")
	}

	fmt.Fprintln(w, "\nEndpoints:")
	stats := engine.SortedStats(st.EndpointStats)
	if len(stats) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range stats {
		fmt.Fprintf(w, "  %-16s %5s total %5s ok %5s err %4d%%\n", e.Endpoint,
			humanize.Comma(int64(e.Total)), humanize.Comma(int64(e.SuccessCount)),
			humanize.Comma(int64(e.ErrorCount)), e.SuccessRatePercent)
	}

	fmt.Fprintln(w, "\nSchedule:")
	if len(st.ScheduleView) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range st.ScheduleView {
		parts := []string{e.Primary}
		if e.Time != "" {
			parts = append(parts, e.Time)
		}
		if e.TargetTime != "" {
			parts = append(parts, "target "+e.TargetTime)
		}
		parts = append(parts, "items: "+e.RequiredItems)
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  "))
	}

	fmt.Fprintln(w, "\nLogs:")
	if len(st.LogView) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range st.LogView {
		if e.Category != engine.CategoryNone {
			fmt.Fprintf(w, "  [%s] %s\n", e.Category, e.Text)
		} else {
			fmt.Fprintf(w, "  %s\n", e.Text)
		}
	}

	if st.DroppedEntries > 0 {
		fmt.Fprintf(w, "\n%d entries dropped\n", st.DroppedEntries)
	}
}
