package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/state"
)

// DefaultLateAfter is how far past its due time a job may run before it is
// recorded as late.
const DefaultLateAfter = time.Minute

// Watcher runs solar event schedules and records each firing in the state
// manager.
type Watcher struct {
	cron     *cron.Cron
	state    *state.Manager
	log      *logging.Logger
	observer astro.Observer

	mu    sync.Mutex
	names map[cron.EntryID]string

	// LateAfter overrides DefaultLateAfter when positive.
	LateAfter time.Duration

	now func() time.Time
}

// Upcoming is the next firing of a watched schedule.
type Upcoming struct {
	Name string
	Next time.Time
}

// NewWatcher creates a watcher for an observer.
func NewWatcher(mgr *state.Manager, obs astro.Observer, log *logging.Logger) *Watcher {
	cl := log.Cron()
	return &Watcher{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		state:    mgr,
		log:      log,
		observer: obs,
		names:    make(map[cron.EntryID]string),
		now:      time.Now,
	}
}

// Add schedules a solar event. If the event does not occur within the
// search window a NONE_DUE event is recorded and the entry never fires.
func (w *Watcher) Add(s EventSchedule) cron.EntryID {
	if s.Observer == (astro.Observer{}) {
		s.Observer = w.observer
	}

	job := &eventJob{w: w, sched: s, solar: s.Event, name: s.Name()}
	return w.schedule(s, job, s.Name())
}

// AddSpec parses and schedules spec as ParseSpec does for the watcher's
// observer.
func (w *Watcher) AddSpec(spec string) (cron.EntryID, error) {
	sched, err := ParseSpec(spec, w.observer)
	if err != nil {
		return 0, err
	}
	if es, ok := sched.(EventSchedule); ok {
		return w.Add(es), nil
	}

	job := &eventJob{w: w, sched: sched, name: spec, solar: -1}
	return w.schedule(sched, job, spec), nil
}

func (w *Watcher) schedule(sched cron.Schedule, job *eventJob, name string) cron.EntryID {
	now := w.now()
	job.due = sched.Next(now)

	id := w.cron.Schedule(sched, job)

	w.mu.Lock()
	w.names[id] = name
	w.mu.Unlock()

	if job.due.IsZero() {
		w.log.Warn("%s: no occurrence within the search window", name)
		w.state.RecordEvent(state.Event{
			Type:      state.EventNoneDue,
			Timestamp: now,
			Solar:     job.solar,
			Name:      name,
			Observer:  w.observer.Name,
		})
	} else {
		w.log.Info("%s: next at %s", name, job.due.Format(time.RFC3339))
	}
	return id
}

// Upcoming lists the next firing of every entry after now, soonest first.
// Entries that never fire sort last with a zero Next.
func (w *Watcher) Upcoming(now time.Time) []Upcoming {
	w.mu.Lock()
	defer w.mu.Unlock()

	var result []Upcoming
	for _, e := range w.cron.Entries() {
		result = append(result, Upcoming{Name: w.names[e.ID], Next: e.Schedule.Next(now)})
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Next, result[j].Next
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.Before(b)
	})
	return result
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watching %d schedules for %s", len(w.cron.Entries()), describeObserver(w.observer))
	w.rearm(w.now())
	w.cron.Start()

	<-ctx.Done()

	stopped := w.cron.Stop()
	<-stopped.Done()
	w.log.Debug("scheduler stopped")
	return nil
}

// rearm recomputes every job's due time from now.
func (w *Watcher) rearm(now time.Time) {
	for _, e := range w.cron.Entries() {
		job, ok := e.Job.(*eventJob)
		if !ok {
			continue
		}
		job.mu.Lock()
		job.due = job.sched.Next(now)
		job.mu.Unlock()
	}
}

// eventJob records a firing in the state manager.
//
// This implements robfig/cron.Job
type eventJob struct {
	w     *Watcher
	sched cron.Schedule
	solar astro.Event
	name  string

	mu  sync.Mutex
	due time.Time
}

func (j *eventJob) Run() {
	j.mu.Lock()
	defer j.mu.Unlock()

	w := j.w
	now := w.now()
	lateAfter := w.LateAfter
	if lateAfter <= 0 {
		lateAfter = DefaultLateAfter
	}

	ev := state.Event{
		Type:      state.EventFired,
		Timestamp: now,
		Scheduled: j.due,
		Solar:     j.solar,
		Name:      j.name,
		Observer:  w.observer.Name,
		Altitude:  astro.SunAltitude(now, w.observer),
	}
	if ev.Name == "" {
		ev.Name = j.solar.String()
	}
	if !j.due.IsZero() && now.Sub(j.due) > lateAfter {
		ev.Type = state.EventLate
		w.log.Warn("%s ran %s late", ev.Name, now.Sub(j.due).Round(time.Second))
	}
	w.log.Info("%s at %s, sun altitude %.2f°", ev.Name, now.Format(time.RFC3339), ev.Altitude)
	w.state.RecordEvent(ev)

	j.due = j.sched.Next(now)
}

func describeObserver(obs astro.Observer) string {
	pos := fmt.Sprintf("%.4f, %.4f", float64(obs.Latitude), float64(obs.Longitude))
	if obs.Name == "" {
		return pos
	}
	return fmt.Sprintf("%s (%s)", obs.Name, pos)
}
