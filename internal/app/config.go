package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ContainerPath is the directory of the flight-data container.
	ContainerPath string
	// FlightID names the flight to process.
	FlightID string
	// ProfilePath points at an .hcl profile file or a directory of them.
	// Empty uses the defaults.
	ProfilePath string
	// DotPath, when set, receives a Graphviz rendering of the dependency
	// graph. Best-effort: failures are logged, never fatal.
	DotPath string
	// AirportURL is the base URL of the airport/runway lookup service.
	// Empty disables lookup-backed nodes.
	AirportURL string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ContainerPath == "" {
		return nil, errors.New("ContainerPath is a required configuration field and cannot be empty")
	}
	if cfg.FlightID == "" {
		return nil, errors.New("FlightID is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
