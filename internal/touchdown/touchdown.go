// Package touchdown pinpoints the instant of touchdown or liftoff by
// consensus between several independent, individually unreliable indicators:
// vertical speed, the normal-acceleration bump of wheel contact, radio
// altitude, and the gear ground-contact switch. Any subset of sensors may be
// absent; absence reduces the candidate set and is never an error.
package touchdown

import (
	"context"
	"sort"

	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/signal"
)

// Config holds the detection thresholds. Zero values are replaced by the
// defaults, so a partially filled Config from a profile file is usable
// directly.
type Config struct {
	// VertSpeedThreshold is the small-magnitude vertical-speed value, in
	// ft/min, whose crossing marks the onset of climb or the end of descent.
	VertSpeedThreshold float64
	// AccelThreshold is the minimum two-sample delta product, in g^2, for a
	// normal-acceleration bump to count as significant.
	AccelThreshold float64
	// RadioAltMargin is how close to zero, in ft, radio altitude must be for
	// a ground-switch edge to be trusted. Oleo compression makes switches
	// fire late; an edge seen while still clearly airborne is rejected.
	RadioAltMargin float64
	// RadioAltCrossing is the radio-altitude value, in ft, whose crossing
	// is taken as the zero-height candidate.
	RadioAltCrossing float64
}

// DefaultConfig returns the thresholds used when a profile specifies none.
func DefaultConfig() Config {
	return Config{
		VertSpeedThreshold: 120,
		AccelThreshold:     0.1,
		RadioAltMargin:     5,
		RadioAltCrossing:   1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VertSpeedThreshold == 0 {
		c.VertSpeedThreshold = d.VertSpeedThreshold
	}
	if c.AccelThreshold == 0 {
		c.AccelThreshold = d.AccelThreshold
	}
	if c.RadioAltMargin == 0 {
		c.RadioAltMargin = d.RadioAltMargin
	}
	if c.RadioAltCrossing == 0 {
		c.RadioAltCrossing = d.RadioAltCrossing
	}
	return c
}

// Sensors carries the inputs the detector may draw on. All signals must
// share one time base; any field may be nil.
type Sensors struct {
	// VertSpeedInertial is the preferred vertical-speed source.
	VertSpeedInertial *signal.Signal
	// VertSpeedBaro is the barometric fallback, used only when the inertial
	// source is absent.
	VertSpeedBaro *signal.Signal
	// NormalAccel is normal acceleration in g.
	NormalAccel *signal.Signal
	// RadioAlt is radio altitude in ft.
	RadioAlt *signal.Signal
	// GroundSwitch is the discrete gear ground-contact switch, 1 when on
	// the ground.
	GroundSwitch *signal.Signal
}

// Detect returns the touchdown index within the window [from, to), or false
// when no sensor produced a candidate.
func Detect(ctx context.Context, s Sensors, from, to int, cfg Config) (float64, bool) {
	return detect(ctx, s, from, to, cfg.withDefaults(), false)
}

// DetectLiftoff returns the liftoff index within the window [from, to), or
// false when no sensor produced a candidate.
func DetectLiftoff(ctx context.Context, s Sensors, from, to int, cfg Config) (float64, bool) {
	return detect(ctx, s, from, to, cfg.withDefaults(), true)
}

func detect(ctx context.Context, s Sensors, from, to int, cfg Config, liftoff bool) (float64, bool) {
	logger := ctxlog.FromContext(ctx)

	var candidates []float64
	add := func(source string, idx float64, ok bool) {
		if !ok {
			return
		}
		logger.Debug("Consensus candidate found.", "source", source, "index", idx, "liftoff", liftoff)
		candidates = append(candidates, idx)
	}

	idx, ok := vertSpeedCandidate(s, from, to, cfg, liftoff)
	add("vertical_speed", idx, ok)
	idx, ok = accelBumpCandidate(s.NormalAccel, from, to, cfg)
	add("normal_accel", idx, ok)
	idx, ok = radioAltCandidate(s.RadioAlt, from, to, cfg, liftoff)
	add("radio_alt", idx, ok)

	switchIdx, switchOK := groundSwitchCandidate(s, from, to, cfg, liftoff)
	add("ground_switch", switchIdx, switchOK)

	if len(candidates) == 0 {
		logger.Debug("No consensus candidates in window.", "from", from, "to", to, "liftoff", liftoff)
		return 0, false
	}

	sort.Float64s(candidates)

	// With two or more candidates the earliest is treated as a possibly
	// premature false trigger and the second-earliest wins.
	chosen := candidates[0]
	if len(candidates) >= 2 {
		chosen = candidates[1]
	}

	// A validated physical ground contact earlier than the consensus choice
	// wins outright.
	if switchOK && switchIdx < chosen {
		chosen = switchIdx
	}

	logger.Debug("Consensus index chosen.", "index", chosen, "candidates", len(candidates))
	return chosen, true
}

// vertSpeedCandidate finds the vertical-speed threshold crossing: rising
// through +threshold for liftoff (onset of climb), rising through -threshold
// for touchdown (end of descent). Inertial vertical speed is preferred, the
// barometric source is the fallback.
func vertSpeedCandidate(s Sensors, from, to int, cfg Config, liftoff bool) (float64, bool) {
	vs := s.VertSpeedInertial
	if vs == nil {
		vs = s.VertSpeedBaro
	}
	if vs == nil {
		return 0, false
	}
	threshold := -cfg.VertSpeedThreshold
	if liftoff {
		threshold = cfg.VertSpeedThreshold
	}
	return signal.CrossingIndex(vs, threshold, from, to, true)
}

// accelBumpCandidate finds the characteristic double-peak of wheel contact:
// the sample whose two straddling deltas have the largest product, provided
// that product clears the significance threshold.
func accelBumpCandidate(accel *signal.Signal, from, to int, cfg Config) (float64, bool) {
	if accel == nil {
		return 0, false
	}
	if from < 1 {
		from = 1
	}
	if to > accel.Len()-1 {
		to = accel.Len() - 1
	}

	best, bestScore := -1, 0.0
	for i := from; i < to; i++ {
		if !accel.Valid[i-1] || !accel.Valid[i] || !accel.Valid[i+1] {
			continue
		}
		score := (accel.Values[i] - accel.Values[i-1]) * (accel.Values[i] - accel.Values[i+1])
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best == -1 || bestScore < cfg.AccelThreshold {
		return 0, false
	}
	return float64(best), true
}

// radioAltCandidate finds the radio-altitude zero crossing: falling for
// touchdown, rising for liftoff.
func radioAltCandidate(ra *signal.Signal, from, to int, cfg Config, liftoff bool) (float64, bool) {
	if ra == nil {
		return 0, false
	}
	return signal.CrossingIndex(ra, cfg.RadioAltCrossing, from, to, liftoff)
}

// groundSwitchCandidate finds the ground-switch edge: rising (reaching
// ground) for touchdown, falling (leaving ground) for liftoff. The edge is
// accepted only while radio altitude reads within RadioAltMargin of zero,
// which rejects switches firing late under oleo compression. Without a radio
// altimeter the switch is taken at face value.
func groundSwitchCandidate(s Sensors, from, to int, cfg Config, liftoff bool) (float64, bool) {
	if s.GroundSwitch == nil {
		return 0, false
	}
	var edges []float64
	if liftoff {
		edges = signal.FallingEdges(s.GroundSwitch, from, to)
	} else {
		edges = signal.RisingEdges(s.GroundSwitch, from, to)
	}
	for _, edge := range edges {
		if s.RadioAlt != nil {
			alt, ok := s.RadioAlt.At(int(edge))
			if ok && alt > cfg.RadioAltMargin {
				continue
			}
		}
		return edge, true
	}
	return 0, false
}
