// Package nodes holds the built-in node specs registered with every
// application instance. The full formula catalogue lives outside this
// repository; the specs here are the representative set that exercises each
// engine path: derived signals with write-back, phases, consensus-detected
// instants, and scalar events depending on earlier events.
package nodes

import (
	"github.com/flightworks/derive/internal/airport"
	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/touchdown"
)

// Channel and output names shared across the built-in specs.
const (
	ChanAltitudeSTD    = "Altitude STD"
	ChanAltitudeRadio  = "Altitude Radio"
	ChanVertSpeedInert = "Vertical Speed Inertial"
	ChanVertSpeed      = "Vertical Speed"
	ChanAccelNormal    = "Acceleration Normal"
	ChanGearOnGround   = "Gear On Ground"
	ChanHeading        = "Heading"
	ChanLatitude       = "Latitude"
	ChanLongitude      = "Longitude"

	OutAltitudeAAL          = "Altitude AAL"
	OutAirborne             = "Airborne"
	OutTouchdown            = "Touchdown"
	OutLiftoff              = "Liftoff"
	OutHeadingAtTouchdown   = "Heading At Touchdown"
	OutLandingRunwayHeading = "Landing Runway Heading"
)

// Deps carries the external collaborators and per-run settings the built-in
// specs close over.
type Deps struct {
	// Airports is the runway/airport lookup service. Nil disables the
	// lookup-backed specs gracefully: they error node-locally when invoked.
	Airports airport.Lookup
	// Touchdown holds the consensus-detector thresholds from the profile.
	Touchdown touchdown.Config
}

// Register adds every built-in spec to the catalog.
func Register(cat *catalog.Catalog, deps Deps) {
	registerAltitudeAAL(cat)
	registerAirborne(cat)
	registerTouchdownAndLiftoff(cat, deps.Touchdown)
	registerHeadingAtTouchdown(cat)
	registerLandingRunwayHeading(cat, deps.Airports)
}
