// Package profile loads analysis profiles: HCL files declaring which outputs
// a run should produce, the flight's aircraft type, detector thresholds, and
// which optional hooks are enabled. Profiles are the only configuration
// surface; there is no ambient global state.
package profile

import "github.com/flightworks/derive/internal/touchdown"

// Profile is the merged, validated analysis profile for a run.
type Profile struct {
	// Aircraft is the aircraft type used to arbitrate variant specs.
	Aircraft string
	// Requested lists the output names to compute. Empty means every
	// operable output.
	Requested []string
	// Touchdown holds the consensus-detector thresholds.
	Touchdown touchdown.Config
	// Hooks enables optional processing hooks.
	Hooks Hooks
}

// Hooks toggles the engine's optional hook functions.
type Hooks struct {
	// PostProcessSignal runs the derived-signal post-processing hook.
	PostProcessSignal bool
}

// Default returns the profile used when no .hcl files are given: all
// operable outputs, default thresholds, no hooks.
func Default() *Profile {
	return &Profile{Touchdown: touchdown.DefaultConfig()}
}
