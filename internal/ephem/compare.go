package ephem

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Result is one provider's answer for an event.
type Result struct {
	Provider  string
	Time      time.Time
	OK        bool
	Available bool
	Delta     time.Duration // Time minus the reference time, when both exist
}

// Comparison lines up several providers' answers for one event.
type Comparison struct {
	Event     astro.Event
	Reference Result
	Others    []Result
}

// MaxDelta returns the largest absolute difference from the reference.
func (c Comparison) MaxDelta() time.Duration {
	var worst time.Duration
	for _, r := range c.Others {
		if !r.OK || !c.Reference.OK {
			continue
		}
		d := r.Delta
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst
}

// Compare computes each event with ref and with every other provider.
func Compare(ref Provider, others []Provider, events []astro.Event, day time.Time, obs astro.Observer) []Comparison {
	result := make([]Comparison, 0, len(events))
	for _, e := range events {
		c := Comparison{Event: e, Reference: evaluate(ref, e, day, obs)}
		for _, p := range others {
			r := evaluate(p, e, day, obs)
			if r.OK && c.Reference.OK {
				r.Delta = r.Time.Sub(c.Reference.Time)
			}
			c.Others = append(c.Others, r)
		}
		result = append(result, c)
	}
	return result
}

func evaluate(p Provider, e astro.Event, day time.Time, obs astro.Observer) Result {
	r := Result{Provider: p.Name(), Available: p.Available(e)}
	if r.Available {
		r.Time, r.OK = p.EventAt(e, day, obs)
	}
	return r
}

// WriteComparison writes comparisons as a text table.
func WriteComparison(w io.Writer, comps []Comparison) {
	if len(comps) == 0 {
		fmt.Fprintln(w, "No events to compare")
		return
	}

	fmt.Fprintf(w, "%-18s  %-8s", "Event", comps[0].Reference.Provider)
	for _, r := range comps[0].Others {
		fmt.Fprintf(w, "  %-14s", r.Provider)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 28+16*len(comps[0].Others)))

	for _, c := range comps {
		fmt.Fprintf(w, "%-18s  %-8s", c.Event, formatResult(c.Reference))
		for _, r := range c.Others {
			cell := formatResult(r)
			if r.OK && c.Reference.OK {
				cell += fmt.Sprintf(" %+4.0fs", r.Delta.Seconds())
			}
			fmt.Fprintf(w, "  %-14s", cell)
		}
		fmt.Fprintln(w)
	}
}

func formatResult(r Result) string {
	switch {
	case !r.Available:
		return "-"
	case !r.OK:
		return "N/A"
	default:
		return r.Time.UTC().Format("15:04:05")
	}
}
