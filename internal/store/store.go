// Package store is the persisted flight-data container: named channels with
// their sample rate and phase offset, keyed by flight. The derivation engine
// reads recorded channels from it and writes newly derived continuous
// signals back.
package store

import (
	"errors"

	"github.com/flightworks/derive/internal/signal"
)

// ErrNotFound is returned when a flight or channel does not exist.
var ErrNotFound = errors.New("not found in container")

// Container is the narrow interface the engine consumes. Implementations
// are exclusively owned by one in-flight processing run; no locking is
// required within a run.
type Container interface {
	// ListChannelNames returns the names of every channel recorded or
	// derived for the flight.
	ListChannelNames(flightID string) ([]string, error)
	// Channel fetches a single channel by name.
	Channel(flightID, name string) (*signal.Signal, error)
	// Channels fetches several channels at once. Missing names are simply
	// absent from the returned map.
	Channels(flightID string, names []string) (map[string]*signal.Signal, error)
	// SetChannel writes a newly derived channel back into the container.
	SetChannel(flightID string, s *signal.Signal) error
	// Duration returns the flight duration in seconds.
	Duration(flightID string) (float64, error)
}
