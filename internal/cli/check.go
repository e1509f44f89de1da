package cli

import (
	"github.com/spf13/cobra"

	"platepickup/internal/plan"
)

func newCheckCommand(app *App, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Preflight the rig without moving anything",
		Long: `Resolve flags, construct the controller, and run the same preflight
checks the run command performs: required positions present, linear track
enabled, gripper configured. Prints the plan with effective speeds.

No motion is ever commanded. Exits non-zero when preflight fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := opts.Resolve()
			if err != nil {
				app.Printer.Failure("%v", err)
				return NewExitError(1)
			}
			return app.checkRig(rc)
		},
	}
}

// checkRig is the dry-run counterpart of runSequence: identical setup and
// validation, zero motion.
func (app *App) checkRig(rc RunConfig) error {
	rig, err := app.Config.ResolveRig()
	if err != nil {
		app.Printer.Failure("%v", err)
		return NewExitError(1)
	}

	ctrl, err := app.NewController(app.Config, rig, rc.Simulate)
	if err != nil {
		app.Printer.Failure("Failed to construct controller: %v", err)
		return NewExitError(1)
	}
	defer ctrl.Disconnect()

	if err := ctrl.Initialize(); err != nil {
		app.Printer.Failure("Failed to initialize controller: %v", err)
		return NewExitError(1)
	}

	speeds := app.Config.Speeds.ApplyMultiplier(rc.Multiplier)
	p := plan.PlatePickup(ctrl, speeds)

	app.Printer.Banner(p.Name+" — preflight",
		"Mode: "+rc.modeLabel(),
		"Speed: "+rc.SpeedLabel,
	)
	for i, step := range p.Steps {
		switch {
		case step.Speed.HasJoint():
			app.Printer.Detail("%d. %s — %g°/s", i+1, step.Description, step.Speed.Joint)
		case step.Speed.HasTrack():
			app.Printer.Detail("%d. %s — %g mm/s", i+1, step.Description, step.Speed.Track)
		default:
			app.Printer.Detail("%d. %s", i+1, step.Description)
		}
	}

	if err := p.Validate(ctrl); err != nil {
		app.Printer.Failure("Preflight check failed: %v", err)
		return NewExitError(1)
	}
	if !ctrl.HasGripper() {
		app.Printer.Warn("No gripper configured. Plate pickup will not work.")
	}
	app.Printer.Success("Preflight checks passed: %d positions present, track enabled", len(p.RequiredLocations()))
	return nil
}
