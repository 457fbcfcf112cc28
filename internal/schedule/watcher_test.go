package schedule

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/state"
)

func newTestWatcher(t *testing.T, now time.Time) (*Watcher, *state.Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logging.New(logging.LevelDebug)
	log.SetOutput(&buf)

	mgr := state.NewManager(state.DefaultConfig())
	w := NewWatcher(mgr, greenwich50, log.With("watch"))
	w.now = func() time.Time { return now }
	return w, mgr, &buf
}

func jobFor(t *testing.T, w *Watcher, id cron.EntryID) *eventJob {
	t.Helper()
	job, ok := w.cron.Entry(id).Job.(*eventJob)
	if !ok {
		t.Fatalf("entry %d job is %T", id, w.cron.Entry(id).Job)
	}
	return job
}

func TestWatcherAdd(t *testing.T) {
	now := time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)
	w, mgr, buf := newTestWatcher(t, now)

	id := w.Add(EventSchedule{Event: astro.Sunrise})
	job := jobFor(t, w, id)

	if job.sched.(EventSchedule).Observer != greenwich50 {
		t.Error("Add should default to the watcher's observer")
	}
	if job.due.Hour() != 4 || job.due.Minute() != 25 {
		t.Errorf("due = %v, want 04:25", job.due)
	}
	if !strings.Contains(buf.String(), "watch: sunrise: next at 1994-05-08T04:25") {
		t.Errorf("log missing next time:\n%s", buf.String())
	}
	if len(mgr.RecentEvents(10)) != 0 {
		t.Error("no events should be recorded for a schedule with a next time")
	}
}

func TestWatcherAddNeverDue(t *testing.T) {
	now := time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)
	w, mgr, buf := newTestWatcher(t, now)

	w.Add(EventSchedule{
		Event:         astro.NauticalDusk,
		Observer:      astro.Observer{Latitude: 80, Name: "north"},
		MaxSearchDays: 20,
	})

	events := mgr.RecentEvents(10)
	if len(events) != 1 || events[0].Type != state.EventNoneDue {
		t.Fatalf("events = %+v, want one NONE_DUE", events)
	}
	if events[0].Name != "nautical-dusk" {
		t.Errorf("Name = %q", events[0].Name)
	}
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("expected a warning:\n%s", buf.String())
	}
}

func TestWatcherUpcoming(t *testing.T) {
	now := time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)
	w, _, _ := newTestWatcher(t, now)

	w.Add(EventSchedule{Event: astro.Sunset})
	w.Add(EventSchedule{Event: astro.NauticalDusk, Observer: astro.Observer{Latitude: 80}, MaxSearchDays: 5})
	w.Add(EventSchedule{Event: astro.Sunrise, Offset: -time.Hour})

	up := w.Upcoming(now)
	if len(up) != 3 {
		t.Fatalf("Upcoming() = %d entries, want 3", len(up))
	}

	wantNames := []string{"sunrise-1h0m0s", "sunset", "nautical-dusk"}
	for i, name := range wantNames {
		if up[i].Name != name {
			t.Errorf("Upcoming()[%d] = %q, want %q", i, up[i].Name, name)
		}
	}
	if !up[2].Next.IsZero() {
		t.Errorf("never-due entry Next = %v, want zero", up[2].Next)
	}
}

func TestEventJobRun(t *testing.T) {
	now := time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)
	w, mgr, _ := newTestWatcher(t, now)

	job := jobFor(t, w, w.Add(EventSchedule{Event: astro.Sunrise}))
	due := job.due

	// On time
	w.now = func() time.Time { return due.Add(10 * time.Second) }
	job.Run()

	events := mgr.RecentEvents(10)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != state.EventFired || ev.Name != "sunrise" || ev.Solar != astro.Sunrise {
		t.Errorf("event = %+v", ev)
	}
	if !ev.Scheduled.Equal(due) {
		t.Errorf("Scheduled = %v, want %v", ev.Scheduled, due)
	}
	if math.Abs(float64(ev.Altitude)+0.833) > 0.1 {
		t.Errorf("Altitude = %.3f°, want about -0.833°", ev.Altitude)
	}
	if job.due.Day() != 9 {
		t.Errorf("due after run = %v, want next day", job.due)
	}

	// Late
	late := job.due.Add(5 * time.Minute)
	w.now = func() time.Time { return late }
	job.Run()

	events = mgr.RecentEvents(10)
	if got := events[len(events)-1].Type; got != state.EventLate {
		t.Errorf("late run recorded as %s, want LATE", got)
	}

	w.LateAfter = 10 * time.Minute
	w.now = func() time.Time { return job.due.Add(5 * time.Minute) }
	job.Run()
	events = mgr.RecentEvents(10)
	if got := events[len(events)-1].Type; got != state.EventFired {
		t.Errorf("run within LateAfter recorded as %s, want FIRED", got)
	}
}

func TestWatcherAddSpec(t *testing.T) {
	now := time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)
	w, mgr, _ := newTestWatcher(t, now)

	id, err := w.AddSpec("@hourly")
	if err != nil {
		t.Fatalf("AddSpec(@hourly) error = %v", err)
	}
	job := jobFor(t, w, id)
	if job.name != "@hourly" {
		t.Errorf("job name = %q", job.name)
	}
	if want := now.Add(time.Hour); !job.due.Equal(want) {
		t.Errorf("due = %v, want %v", job.due, want)
	}

	w.now = func() time.Time { return job.due }
	job.Run()
	if events := mgr.RecentEvents(1); len(events) != 1 || events[0].Name != "@hourly" {
		t.Errorf("events = %+v", events)
	}

	if _, err := w.AddSpec("@sunset +15m"); err != nil {
		t.Errorf("AddSpec(@sunset +15m) error = %v", err)
	}
	if _, err := w.AddSpec("@sunset whenever"); err == nil {
		t.Error("AddSpec with a bad offset should fail")
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	w, _, buf := newTestWatcher(t, time.Now())
	w.Add(EventSchedule{Event: astro.Sunset})

	// Keep the scheduler goroutine's debug chatter out of buf
	w.log.SetLevel(logging.LevelInfo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if !strings.Contains(buf.String(), "watching 1 schedules for test") {
		t.Errorf("log missing start line:\n%s", buf.String())
	}
}

func TestWatcherRunRearmsDueTimes(t *testing.T) {
	added := time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)
	w, mgr, _ := newTestWatcher(t, added)
	w.log.SetLevel(logging.LevelInfo)

	job := jobFor(t, w, w.Add(EventSchedule{Event: astro.Sunrise}))
	if job.due.Day() != 8 {
		t.Fatalf("due = %v, want May 8", job.due)
	}

	// Start an hour after that sunrise has passed
	started := time.Date(1994, 5, 8, 5, 30, 0, 0, time.UTC)
	w.now = func() time.Time { return started }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	job.mu.Lock()
	due := job.due
	job.mu.Unlock()
	if due.Day() != 9 || due.Hour() != 4 {
		t.Fatalf("due after Run = %v, want May 9 around 04:2x", due)
	}

	w.now = func() time.Time { return due.Add(10 * time.Second) }
	job.Run()

	events := mgr.RecentEvents(1)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != state.EventFired {
		t.Errorf("Type = %v, want FIRED", events[0].Type)
	}
	if !events[0].Scheduled.Equal(due) {
		t.Errorf("Scheduled = %v, want %v", events[0].Scheduled, due)
	}
}
