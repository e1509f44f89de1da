package cli

import (
	"errors"
	"fmt"
)

// Options are the raw CLI flags shared by the run and check commands.
// Resolve validates them into a [RunConfig] before any controller is
// constructed.
type Options struct {
	Simulate        bool
	Real            bool
	Auto            bool
	Slow            bool
	Fast            bool
	SpeedMultiplier float64
}

// RunConfig is the validated run configuration derived from [Options].
type RunConfig struct {
	// Simulate selects the simulated controller; false means real
	// hardware.
	Simulate bool

	// AutoConfirm suppresses per-step operator prompts.
	AutoConfirm bool

	// Multiplier is the resolved speed multiplier applied to the
	// default speed table.
	Multiplier float64

	// SpeedLabel describes the multiplier for the run banner,
	// e.g. "Fast (2.0x)".
	SpeedLabel string
}

// Resolve validates the flag combination and resolves the effective speed
// multiplier.
//
// Exactly one of --simulate/--real is required, and --slow/--fast are
// mutually exclusive. The shorthand flags take precedence over an explicit
// --speed-multiplier; only the slow+fast pair is rejected as a conflict.
func (o Options) Resolve() (RunConfig, error) {
	if o.Simulate && o.Real {
		return RunConfig{}, errors.New("cannot specify both --simulate and --real")
	}
	if !o.Simulate && !o.Real {
		return RunConfig{}, errors.New("must specify either --simulate or --real")
	}
	if o.Slow && o.Fast {
		return RunConfig{}, errors.New("cannot specify both --slow and --fast")
	}
	if o.SpeedMultiplier <= 0 {
		return RunConfig{}, fmt.Errorf("speed multiplier must be positive, got %g", o.SpeedMultiplier)
	}

	rc := RunConfig{
		Simulate:    o.Simulate,
		AutoConfirm: o.Auto,
		Multiplier:  1.0,
		SpeedLabel:  "Default",
	}
	switch {
	case o.Slow:
		rc.Multiplier, rc.SpeedLabel = 0.5, "Slow (0.5x)"
	case o.Fast:
		rc.Multiplier, rc.SpeedLabel = 2.0, "Fast (2.0x)"
	case o.SpeedMultiplier != 1.0:
		rc.Multiplier = o.SpeedMultiplier
		rc.SpeedLabel = fmt.Sprintf("Custom (%gx)", o.SpeedMultiplier)
	}
	return rc, nil
}

func (rc RunConfig) modeLabel() string {
	if rc.Simulate {
		return "SIMULATION"
	}
	return "REAL HARDWARE"
}

func (rc RunConfig) confirmLabel() string {
	if rc.AutoConfirm {
		return "AUTO"
	}
	return "MANUAL"
}
