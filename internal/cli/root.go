// Package cli provides the cobra command tree for platepickup.
//
// The root command carries the shared mode and speed flags; subcommands are:
//   - run: execute the plate pickup sequence
//   - check: preflight the rig without moving anything
//   - positions: list the configured named locations
//
// [App] holds the injected dependencies (config, printer, stdin, controller
// factory) so tests can drive commands end to end without hardware or
// prompts.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"platepickup/internal/config"
	"platepickup/internal/controller"
	"platepickup/internal/output"
)

// App holds the dependencies shared by all commands.
type App struct {
	// Config is the application configuration.
	Config *config.Config

	// Printer renders all terminal output.
	Printer *output.Printer

	// Stdin supplies operator confirmations. os.Stdin in production.
	Stdin io.Reader

	// NewController builds a controller for the resolved mode. Tests
	// inject a factory returning a [controller.Mock].
	NewController func(cfg *config.Config, rig *config.RigConfig, simulate bool) (controller.Controller, error)
}

// NewApp creates an App with the production controller factory.
func NewApp(cfg *config.Config, printer *output.Printer) *App {
	return &App{
		Config:        cfg,
		Printer:       printer,
		Stdin:         os.Stdin,
		NewController: newController,
	}
}

// newController is the production controller factory: [controller.Sim] for
// --simulate, [controller.Hardware] for --real.
func newController(cfg *config.Config, rig *config.RigConfig, simulate bool) (controller.Controller, error) {
	if simulate {
		return controller.NewSim(rig), nil
	}
	return controller.NewHardware(cfg.Serial, rig)
}

// Execute loads configuration, builds the production [App], runs the CLI,
// and returns the process exit code.
func Execute() int {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	app := NewApp(cfg, output.NewPrinter())
	return app.Run(os.Args[1:])
}

// Run executes the command tree with the given arguments and returns the
// exit code. Separated from [Execute] so tests can drive the full CLI.
func (app *App) Run(args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return code
		}
		app.Printer.Failure("%v", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree with the shared flag set.
func NewRootCommand(app *App) *cobra.Command {
	opts := &Options{}
	var configPath string

	root := &cobra.Command{
		Use:   "plate-pickup",
		Short: "Well-plate pickup demo for the arm, linear track and gripper",
		Long: `plate-pickup drives a robotic arm, an auxiliary linear track, and a
gripper through a fixed pickup sequence: home, traverse to the deck,
descend, grip the plate, lift, and return home.

Run in simulation first:
  plate-pickup run --simulate
  plate-pickup run --real --auto --fast`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			cfg, err := config.NewLoader().LoadFromFile(configPath)
			if err != nil {
				app.Printer.Failure("%v", err)
				return NewExitError(1)
			}
			app.Config = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.Simulate, "simulate", false, "simulation mode")
	pf.BoolVar(&opts.Real, "real", false, "real hardware mode")
	pf.BoolVar(&opts.Auto, "auto", false, "auto-confirm all movements (no user prompts)")
	pf.BoolVar(&opts.Slow, "slow", false, "use slow speed (0.5x multiplier)")
	pf.BoolVar(&opts.Fast, "fast", false, "use fast speed (2.0x multiplier)")
	pf.Float64Var(&opts.SpeedMultiplier, "speed-multiplier", 1.0, "custom speed multiplier")
	pf.StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newRunCommand(app, opts))
	root.AddCommand(newCheckCommand(app, opts))
	root.AddCommand(newPositionsCommand(app))

	return root
}
