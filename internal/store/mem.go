package store

import (
	"fmt"
	"sort"

	"github.com/flightworks/derive/internal/signal"
)

// Mem is a map-backed Container for tests and one-shot processing runs.
type Mem struct {
	flights   map[string]map[string]*signal.Signal
	durations map[string]float64
}

// NewMem creates an empty in-memory container.
func NewMem() *Mem {
	return &Mem{
		flights:   make(map[string]map[string]*signal.Signal),
		durations: make(map[string]float64),
	}
}

// AddFlight registers a flight with its duration in seconds.
func (m *Mem) AddFlight(flightID string, duration float64) {
	if _, ok := m.flights[flightID]; !ok {
		m.flights[flightID] = make(map[string]*signal.Signal)
	}
	m.durations[flightID] = duration
}

// ListChannelNames implements Container.
func (m *Mem) ListChannelNames(flightID string) ([]string, error) {
	chans, ok := m.flights[flightID]
	if !ok {
		return nil, fmt.Errorf("flight %q: %w", flightID, ErrNotFound)
	}
	names := make([]string, 0, len(chans))
	for name := range chans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Channel implements Container.
func (m *Mem) Channel(flightID, name string) (*signal.Signal, error) {
	chans, ok := m.flights[flightID]
	if !ok {
		return nil, fmt.Errorf("flight %q: %w", flightID, ErrNotFound)
	}
	s, ok := chans[name]
	if !ok {
		return nil, fmt.Errorf("channel %q of flight %q: %w", name, flightID, ErrNotFound)
	}
	return s, nil
}

// Channels implements Container.
func (m *Mem) Channels(flightID string, names []string) (map[string]*signal.Signal, error) {
	chans, ok := m.flights[flightID]
	if !ok {
		return nil, fmt.Errorf("flight %q: %w", flightID, ErrNotFound)
	}
	out := make(map[string]*signal.Signal, len(names))
	for _, name := range names {
		if s, ok := chans[name]; ok {
			out[name] = s
		}
	}
	return out, nil
}

// SetChannel implements Container.
func (m *Mem) SetChannel(flightID string, s *signal.Signal) error {
	chans, ok := m.flights[flightID]
	if !ok {
		return fmt.Errorf("flight %q: %w", flightID, ErrNotFound)
	}
	chans[s.Name] = s
	return nil
}

// Duration implements Container.
func (m *Mem) Duration(flightID string) (float64, error) {
	d, ok := m.durations[flightID]
	if !ok {
		return 0, fmt.Errorf("flight %q: %w", flightID, ErrNotFound)
	}
	return d, nil
}
