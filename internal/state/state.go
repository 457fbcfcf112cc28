// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/ephem"
)

// EventType represents the type of watch event.
type EventType string

const (
	EventFired   EventType = "FIRED"
	EventLate    EventType = "LATE"
	EventNoneDue EventType = "NONE_DUE"
)

// Event records a solar event seen by the watcher.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Scheduled time.Time     `json:"scheduled,omitempty"`
	Solar     astro.Event   `json:"-"`
	Name      string        `json:"event"`
	Observer  string        `json:"observer,omitempty"`
	Altitude  astro.Degrees `json:"altitude"`
}

// ObserverEvent is one solar event at the observer's location.
type ObserverEvent struct {
	Event  astro.Event
	Time   time.Time
	OK     bool
	Source string // Provider that computed Time
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current page
	date            time.Time
	observer        astro.Observer
	table           *almanac.Table
	observerEvents  []ObserverEvent
	lastCompute     time.Time
	computeDuration time.Duration

	// Recently viewed pages keyed by date
	pages    map[string]*almanac.Table
	pageKeys []string
	maxPages int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	almanacCfg      almanac.Config
	provider        ephem.Provider
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	Almanac         almanac.Config
	Observer        astro.Observer
	Provider        ephem.Provider // Observer event source, default the built-in engine
	MaxPages        int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Almanac:         almanac.DefaultConfig(),
		Observer:        astro.Observer{Name: "Greenwich"},
		MaxPages:        14, // Two weeks of paging back and forth
		MaxEvents:       50, // Last 50 events
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	provider := cfg.Provider
	if provider == nil {
		provider = ephem.MeeusProvider{}
	}
	return &Manager{
		observer:        cfg.Observer,
		provider:        ephem.NewCachedProvider(provider),
		almanacCfg:      cfg.Almanac,
		maxPages:        maxPages,
		pages:           make(map[string]*almanac.Table),
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// SetDate selects the UTC calendar date of t and computes its table.
func (m *Manager) SetDate(t time.Time) {
	y, mo, d := t.UTC().Date()
	date := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	key := date.Format("2006-01-02")

	m.mu.RLock()
	table, cached := m.pages[key]
	cfg := m.almanacCfg
	obs := m.observer
	provider := m.provider
	m.mu.RUnlock()

	start := time.Now()
	if !cached {
		table = almanac.ComputeJD(astro.JulianDayFromTime(date), cfg)
	}
	events := observerEvents(provider, date, obs)
	elapsed := time.Since(start)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.date = date
	m.table = table
	m.observerEvents = events
	m.lastCompute = time.Now()
	m.computeDuration = elapsed

	if !cached {
		m.addPage(key, table)
	}
}

// ShiftDate moves the current date by days.
func (m *Manager) ShiftDate(days int) {
	m.mu.RLock()
	date := m.date
	m.mu.RUnlock()

	m.SetDate(date.AddDate(0, 0, days))
}

// Date returns the current UTC date at midnight.
func (m *Manager) Date() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.date
}

// SetObserver changes the observer and recomputes its events for the
// current date.
func (m *Manager) SetObserver(obs astro.Observer) {
	m.mu.Lock()
	m.observer = obs
	date := m.date
	m.mu.Unlock()

	if !date.IsZero() {
		m.SetDate(date)
	}
}

// Observer returns the current observer.
func (m *Manager) Observer() astro.Observer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.observer
}

// addPage adds a table to the page cache, evicting the oldest.
func (m *Manager) addPage(key string, table *almanac.Table) {
	if _, ok := m.pages[key]; ok {
		m.pages[key] = table
		return
	}
	m.pages[key] = table
	m.pageKeys = append(m.pageKeys, key)
	if len(m.pageKeys) > m.maxPages {
		delete(m.pages, m.pageKeys[0])
		m.pageKeys = m.pageKeys[1:]
	}
}

// observerEvents computes every event for obs, falling back to the
// built-in engine for events the provider lacks.
func observerEvents(p ephem.Provider, date time.Time, obs astro.Observer) []ObserverEvent {
	all := astro.AllEvents()
	result := make([]ObserverEvent, len(all))
	for i, e := range all {
		src := p
		if !src.Available(e) {
			src = ephem.MeeusProvider{}
		}
		t, ok := src.EventAt(e, date, obs)
		result[i] = ObserverEvent{Event: e, Time: t, OK: ok, Source: src.Name()}
	}
	return result
}

// ProviderName returns the name of the observer event source.
func (m *Manager) ProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider.Name()
}

// RecordEvent adds a watch event to the log.
func (m *Manager) RecordEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Name == "" {
		e.Name = e.Solar.String()
	}
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
// Table is shared and must not be modified.
type Snapshot struct {
	Date            time.Time
	Observer        astro.Observer
	Table           *almanac.Table
	ObserverEvents  []ObserverEvent
	LastCompute     time.Time
	ComputeDuration time.Duration
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obsEvents := make([]ObserverEvent, len(m.observerEvents))
	copy(obsEvents, m.observerEvents)

	return Snapshot{
		Date:            m.date,
		Observer:        m.observer,
		Table:           m.table,
		ObserverEvents:  obsEvents,
		LastCompute:     m.lastCompute,
		ComputeDuration: m.computeDuration,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// CachedPages returns the number of tables held in the page cache.
func (m *Manager) CachedPages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pages)
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a table has been computed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table != nil
}
