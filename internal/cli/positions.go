package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"platepickup/internal/config"
)

func newPositionsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "List the configured named locations",
		Long: `List the arm locations, track locations, and component flags from the
rig position table. Reads configuration only; no controller is constructed
and nothing moves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rig, err := app.Config.ResolveRig()
			if err != nil {
				app.Printer.Failure("%v", err)
				return NewExitError(1)
			}
			app.printRig(rig)
			return nil
		},
	}
}

func (app *App) printRig(rig *config.RigConfig) {
	app.Printer.Info("Arm positions:")
	for _, name := range sortedKeys(rig.Positions) {
		app.Printer.Detail("%-16s %v", name, rig.Positions[name].Joints)
	}

	app.Printer.Info("Track positions:")
	for _, name := range sortedKeys(rig.TrackPositions) {
		app.Printer.Detail("%-16s %g mm", name, rig.TrackPositions[name])
	}

	app.Printer.Info("Components:")
	for _, name := range sortedKeys(rig.Components) {
		state := "disabled"
		if rig.Components[name] {
			state = "enabled"
		}
		app.Printer.Detail("%-16s %s", name, state)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
