// Package app wires the derivation pipeline together: profile loading,
// catalogue registration, graph construction, planning, and execution for
// one flight.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/flightworks/derive/internal/airport"
	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/nodes"
	"github.com/flightworks/derive/internal/profile"
)

// airportTimeout bounds every lookup-service request.
const airportTimeout = 10 * time.Second

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog *catalog.Catalog
	profile *profile.Profile
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and catalog. A
// failure to load the profile is a fatal startup error and panics; the CLI
// boundary recovers it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	prof := profile.Default()
	if appConfig.ProfilePath != "" {
		loaded, err := profile.Load(ctx, appConfig.ProfilePath)
		if err != nil {
			panic(fmt.Errorf("failed to load analysis profile: %w", err))
		}
		prof = loaded
	}
	logger.Debug("Analysis profile loaded.",
		"aircraft", prof.Aircraft, "requested_outputs", len(prof.Requested))

	var airports airport.Lookup
	if appConfig.AirportURL != "" {
		airports = airport.NewClient(appConfig.AirportURL, airportTimeout)
		logger.Debug("Airport lookup client configured.", "base_url", appConfig.AirportURL)
	}

	cat := catalog.New()
	nodes.Register(cat, nodes.Deps{Airports: airports, Touchdown: prof.Touchdown})
	logger.Debug("Node catalog registered.", "outputs", len(cat.Outputs()))

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: cat,
		profile: prof,
	}
}

// Catalog returns the application's node catalog. This is primarily for
// testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Profile returns the loaded analysis profile. This is primarily for
// testing.
func (a *App) Profile() *profile.Profile {
	return a.profile
}
