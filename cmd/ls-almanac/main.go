// Command ls-almanac prints and browses sunrise, sunset and twilight times
// by latitude, and can watch for solar events as they happen.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/schedule"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/ui"
	"github.com/litescript/ls-almanac/internal/version"
)

// CLI flags for headless mode
var (
	tableMode   bool
	compareMode bool
	jsonPath    string
	watchSpecs  string
	showVersion bool
)

const (
	defaultRefresh = 5 * time.Second
	minRefresh     = 1 * time.Second
	maxRefresh     = 5 * time.Minute
)

func main() {
	// Parse flags
	date := flag.String("date", "", "UTC date as YYYY-MM-DD (default today)")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees, east positive")
	name := flag.String("name", "Greenwich", "Observer name")
	latitudes := flag.String("latitudes", "", "Comma-separated table latitudes (default 72 to -60)")
	events := flag.String("events", "", "Comma-separated events or \"all\" (default dawn to dusk)")
	engine := flag.String("engine", "meeus", "Observer event source (meeus, sunrise, suncalc)")
	refresh := flag.Duration("refresh", defaultRefresh, "UI refresh interval (e.g., 5s, 1m)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file instead of stderr")
	flag.BoolVar(&tableMode, "table", false, "Print the almanac table instead of TUI")
	flag.BoolVar(&compareMode, "compare", false, "Compare observer events across all engines")
	flag.StringVar(&jsonPath, "json", "", "Export the almanac as JSON to file (use - for stdout)")
	flag.StringVar(&watchSpecs, "watch", "", "Watch schedules, e.g. \"@sunrise,@sunset -30m,0 12 * * *\"")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-almanac %s\n", version.Version)
		return
	}

	// Validate refresh interval
	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(*logLevel))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(fmt.Errorf("open log file: %w", err))
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	day, err := parseDate(*date, time.Now())
	if err != nil {
		fatal(err)
	}

	obs := astro.Observer{Latitude: astro.Degrees(*lat), Longitude: astro.Degrees(*lon), Name: *name}
	if err := astro.CheckLatitude(obs.Latitude); err != nil {
		fatal(fmt.Errorf("observer: %w", err))
	}

	almanacCfg, err := almanacConfig(*latitudes, *events)
	if err != nil {
		fatal(err)
	}

	mode, err := ephem.ParseMode(*engine)
	if err != nil {
		fatal(fmt.Errorf("-engine: %w", err))
	}

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize components
	stateCfg := state.DefaultConfig()
	stateCfg.Almanac = almanacCfg
	stateCfg.Observer = obs
	stateCfg.Provider = ephem.New(mode)
	stateCfg.RefreshInterval = *refresh
	stateMgr := state.NewManager(stateCfg)
	stateMgr.SetDate(day)

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	// Headless mode: no TUI
	if tableMode || compareMode || jsonPath != "" || !isTTY && watchSpecs == "" {
		if err := runHeadless(stateMgr); err != nil {
			fatal(err)
		}
		return
	}

	var watcher *schedule.Watcher
	if watchSpecs != "" {
		watcher, err = newWatcher(stateMgr, obs, logger)
		if err != nil {
			fatal(err)
		}
	}

	// Watch without a terminal: log firings until interrupted
	if !isTTY {
		if err := watcher.Run(ctx); err != nil {
			fatal(err)
		}
		return
	}

	// Logs would scribble over the alt screen
	if *logFile == "" {
		logger.SetOutput(io.Discard)
	}

	// Create Bubble Tea program
	p := tea.NewProgram(ui.New(stateMgr), tea.WithAltScreen())

	if watcher != nil {
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("watcher: %v", err)
			}
		}()
		go forwardEvents(ctx, stateMgr, p)
	}

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// parseDate reads a YYYY-MM-DD date, defaulting to the UTC date of now.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// almanacConfig builds the table configuration from the -latitudes and
// -events flags, keeping defaults for empty values.
func almanacConfig(latitudes, events string) (almanac.Config, error) {
	cfg := almanac.DefaultConfig()
	if latitudes != "" {
		lats, err := almanac.ParseLatitudes(latitudes)
		if err != nil {
			return cfg, fmt.Errorf("-latitudes: %w", err)
		}
		cfg.Latitudes = lats
	}
	if events != "" {
		evs, err := almanac.ParseEvents(events)
		if err != nil {
			return cfg, fmt.Errorf("-events: %w", err)
		}
		cfg.Events = evs
	}
	return cfg, cfg.Validate()
}

// newWatcher schedules every comma-separated -watch spec.
func newWatcher(stateMgr *state.Manager, obs astro.Observer, logger *logging.Logger) (*schedule.Watcher, error) {
	w := schedule.NewWatcher(stateMgr, obs, logger.With("watch"))
	for _, spec := range strings.Split(watchSpecs, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if _, err := w.AddSpec(spec); err != nil {
			return nil, fmt.Errorf("-watch %q: %w", spec, err)
		}
	}
	return w, nil
}

// forwardEvents pushes a snapshot to the UI whenever the watcher records
// something, instead of waiting for the next tick.
func forwardEvents(ctx context.Context, stateMgr *state.Manager, p *tea.Program) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var last time.Time
	if recent := stateMgr.RecentEvents(1); len(recent) > 0 {
		last = recent[0].Timestamp
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			recent := stateMgr.RecentEvents(1)
			if len(recent) == 0 || !recent[0].Timestamp.After(last) {
				continue
			}
			last = recent[0].Timestamp
			p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
		}
	}
}

// runHeadless prints the table and/or JSON export without starting the TUI.
func runHeadless(stateMgr *state.Manager) error {
	snap := stateMgr.Snapshot()

	if jsonPath != "" {
		export := almanac.Export(snap.Table)
		if jsonPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(jsonPath)
			if err != nil {
				return fmt.Errorf("create JSON file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if tableMode || jsonPath == "" && !compareMode {
		almanac.WriteTable(os.Stdout, snap.Table)
		writeObserverEvents(os.Stdout, snap)
	}

	if compareMode {
		fmt.Fprintf(os.Stdout, "\nEngines for %s on %s\n", snap.Observer.Name, snap.Date.Format("2006-01-02"))
		others := []ephem.Provider{ephem.New(ephem.ModeSunrise), ephem.New(ephem.ModeSuncalc)}
		comps := ephem.Compare(ephem.MeeusProvider{}, others, astro.AllEvents(), snap.Date, snap.Observer)
		ephem.WriteComparison(os.Stdout, comps)
	}
	return nil
}

// writeObserverEvents lists the observer's own event times below the table.
func writeObserverEvents(w io.Writer, snap state.Snapshot) {
	fmt.Fprintf(w, "\nObserver %s (%.4f, %.4f)\n", snap.Observer.Name,
		float64(snap.Observer.Latitude), float64(snap.Observer.Longitude))
	for _, oe := range snap.ObserverEvents {
		when := "does not occur"
		if oe.OK {
			when = oe.Time.UTC().Format("2006-01-02 15:04:05Z")
		}
		if oe.OK && oe.Source != "meeus" {
			when += " via " + oe.Source
		}
		fmt.Fprintf(w, "  %-18s %s\n", oe.Event, when)
	}

	noon, alt := astro.Transit(astro.SampleDay(snap.Observer, snap.Date, 10*time.Minute))
	fmt.Fprintf(w, "  %-18s %s at %+.1f°\n", "solar-noon", noon.UTC().Format("2006-01-02 15:04:05Z"), float64(alt))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
