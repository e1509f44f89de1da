package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"platepickup/internal/config"
	"platepickup/internal/output"
	"platepickup/internal/plan"
	"platepickup/internal/runner"
)

func newRunCommand(app *App, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the plate pickup sequence",
		Long: `Run the fixed seven-step plate pickup sequence:
  1. Robot joints to home position + open gripper
  2. Linear track to Local_1 position
  3. Joint movement to deck_high position
  4. Joint movement to deck_low position
  5. Close gripper (grip well plate)
  6. Joint movement to deck_high position (with plate)
  7. Robot joints to home position (with plate)

Each step prompts for confirmation unless --auto is given. Ctrl+C at a
prompt or mid-motion stops the robot immediately and aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := opts.Resolve()
			if err != nil {
				app.Printer.Failure("%v", err)
				return NewExitError(1)
			}
			return app.runSequence(cmd.Context(), rc)
		},
	}
}

// runSequence is the top-level run state machine: construct the controller
// for the chosen mode, initialize, report advisory capability warnings,
// execute the plan, and print the final summary. The controller is
// disconnected exactly once on every exit path.
//
// A failed or aborted sequence still returns nil: only invalid flag
// combinations produce a non-zero exit.
func (app *App) runSequence(ctx context.Context, rc RunConfig) error {
	app.Printer.Banner("Plate Pickup Demo",
		"Mode: "+rc.modeLabel(),
		"Confirmation: "+rc.confirmLabel(),
		"Speed: "+rc.SpeedLabel,
	)

	rig, err := app.Config.ResolveRig()
	if err != nil {
		app.Printer.Failure("%v", err)
		return nil
	}

	ctrl, err := app.NewController(app.Config, rig, rc.Simulate)
	if err != nil {
		app.Printer.Failure("Failed to construct controller: %v", err)
		return nil
	}
	defer func() {
		ctrl.Disconnect()
		app.Printer.Info("Controller disconnected")
	}()

	if err := ctrl.Initialize(); err != nil {
		app.Printer.Failure("Failed to initialize controller: %v", err)
		return nil
	}
	app.Printer.Success("Controller initialized successfully")

	// Advisory only; the blocking check happens in plan preflight.
	if !ctrl.IsComponentEnabled(config.ComponentTrack) {
		app.Printer.Warn("Linear track not enabled. Some movements may fail.")
	}
	if !ctrl.HasGripper() {
		app.Printer.Warn("No gripper configured. Plate pickup will not work.")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	speeds := app.Config.Speeds.ApplyMultiplier(rc.Multiplier)
	p := plan.PlatePickup(ctrl, speeds)

	var confirmer runner.Confirmer
	if !rc.AutoConfirm {
		confirmer = runner.NewStdinConfirmer(app.Printer, app.Stdin)
	}
	exec := runner.NewExecutor(ctrl, app.Printer, confirmer, rc.AutoConfirm, app.Config.StepPause)
	result := exec.Run(ctx, p)

	app.Printer.Summary(p.Name, result.Completed(), summaryRows(result))
	return nil
}

func summaryRows(result runner.Result) []output.SummaryRow {
	rows := make([]output.SummaryRow, len(result.Steps))
	for i, step := range result.Steps {
		row := output.SummaryRow{Name: step.Name, OK: step.Err == nil && !step.Skipped, Skipped: step.Skipped}
		switch {
		case step.Skipped:
			row.Detail = "(skipped)"
		case step.Err != nil:
			row.Detail = step.Err.Error()
		}
		rows[i] = row
	}
	return rows
}
