package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platepickup/internal/config"
	"platepickup/internal/controller"
	"platepickup/internal/output"
)

// testApp wires an [App] to a recording mock controller and an output
// buffer so commands can be driven end to end without hardware or prompts.
type testApp struct {
	app          *App
	mock         *controller.Mock
	out          *bytes.Buffer
	factoryCalls int
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.StepPause = 0

	ta := &testApp{
		mock: controller.NewMock(),
		out:  &bytes.Buffer{},
	}
	ta.app = &App{
		Config:  cfg,
		Printer: output.NewPrinterWithWriter(ta.out),
		Stdin:   strings.NewReader(""),
		NewController: func(cfg *config.Config, rig *config.RigConfig, simulate bool) (controller.Controller, error) {
			ta.factoryCalls++
			ta.mock.Rig = rig
			return ta.mock, nil
		},
	}
	return ta
}

func TestOptions_Resolve(t *testing.T) {
	tests := []struct {
		name           string
		opts           Options
		wantMultiplier float64
		wantLabel      string
		wantErr        string
	}{
		{
			name:           "simulate default speed",
			opts:           Options{Simulate: true, SpeedMultiplier: 1.0},
			wantMultiplier: 1.0,
			wantLabel:      "Default",
		},
		{
			name:           "slow",
			opts:           Options{Real: true, Slow: true, SpeedMultiplier: 1.0},
			wantMultiplier: 0.5,
			wantLabel:      "Slow (0.5x)",
		},
		{
			name:           "fast",
			opts:           Options{Simulate: true, Fast: true, SpeedMultiplier: 1.0},
			wantMultiplier: 2.0,
			wantLabel:      "Fast (2.0x)",
		},
		{
			name:           "custom multiplier",
			opts:           Options{Simulate: true, SpeedMultiplier: 1.5},
			wantMultiplier: 1.5,
			wantLabel:      "Custom (1.5x)",
		},
		{
			name:           "fast wins over custom multiplier",
			opts:           Options{Simulate: true, Fast: true, SpeedMultiplier: 3.0},
			wantMultiplier: 2.0,
			wantLabel:      "Fast (2.0x)",
		},
		{
			name:    "both modes",
			opts:    Options{Simulate: true, Real: true, SpeedMultiplier: 1.0},
			wantErr: "cannot specify both --simulate and --real",
		},
		{
			name:    "neither mode",
			opts:    Options{SpeedMultiplier: 1.0},
			wantErr: "must specify either --simulate or --real",
		},
		{
			name:    "slow and fast",
			opts:    Options{Simulate: true, Slow: true, Fast: true, SpeedMultiplier: 1.0},
			wantErr: "cannot specify both --slow and --fast",
		},
		{
			name:    "non-positive multiplier",
			opts:    Options{Simulate: true, SpeedMultiplier: -2},
			wantErr: "speed multiplier must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := tt.opts.Resolve()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMultiplier, rc.Multiplier)
			assert.Equal(t, tt.wantLabel, rc.SpeedLabel)
		})
	}
}

func TestRun_ConflictingModeFlags(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"run", "--simulate", "--real"})

	assert.Equal(t, 1, code)
	// Flag validation rejects before any controller exists.
	assert.Zero(t, ta.factoryCalls)
	assert.Contains(t, ta.out.String(), "cannot specify both --simulate and --real")
}

func TestRun_MissingModeFlag(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"run", "--auto"})

	assert.Equal(t, 1, code)
	assert.Zero(t, ta.factoryCalls)
	assert.Contains(t, ta.out.String(), "must specify either --simulate or --real")
}

func TestRun_SlowFastConflict(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"run", "--simulate", "--slow", "--fast"})

	assert.Equal(t, 1, code)
	assert.Zero(t, ta.factoryCalls)
}

func TestRun_SimulateAutoFast(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"run", "--simulate", "--auto", "--fast"})

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, ta.factoryCalls)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	assert.Zero(t, ta.mock.StopCalls)

	// Doubled defaults, bound per step.
	assert.Equal(t, []float64{40, 300, 30, 16, 20, 30}, ta.mock.Speeds)
	assert.Equal(t, []string{
		"init",
		"move:robot_home",
		"open_gripper",
		"track:Local_1",
		"move:deck_high",
		"move:deck_low",
		"close_gripper",
		"move:deck_high",
		"move:robot_home",
		"disconnect",
	}, ta.mock.Calls)

	out := ta.out.String()
	assert.Contains(t, out, "SIMULATION")
	assert.Contains(t, out, "Fast (2.0x)")
	assert.Contains(t, out, "completed successfully")
}

func TestRun_ManualConfirmations(t *testing.T) {
	ta := newTestApp(t)
	// One Enter for the start prompt plus one per step.
	ta.app.Stdin = strings.NewReader(strings.Repeat("\n", 8))

	code := ta.app.Run([]string{"run", "--simulate"})

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	assert.Contains(t, ta.out.String(), "completed successfully")
}

func TestRun_OperatorAbortAtPrompt(t *testing.T) {
	ta := newTestApp(t)
	// EOF at the start prompt counts as an abort.
	ta.app.Stdin = strings.NewReader("")

	code := ta.app.Run([]string{"run", "--simulate"})

	// An aborted sequence is still a clean process exit.
	assert.Equal(t, 0, code)
	assert.Equal(t, 1, ta.mock.StopCalls)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	assert.NotContains(t, ta.mock.Calls, "move:robot_home")
	assert.Contains(t, ta.out.String(), "did not complete")
}

func TestRun_StepFailureStillExitsZero(t *testing.T) {
	ta := newTestApp(t)
	ta.mock.FailOn = config.LocationDeckLow

	code := ta.app.Run([]string{"run", "--simulate", "--auto"})

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	assert.Zero(t, ta.mock.StopCalls)

	out := ta.out.String()
	assert.Contains(t, out, "did not complete")
	assert.Contains(t, out, "(skipped)")
}

func TestRun_InitFailureDisconnectsOnce(t *testing.T) {
	ta := newTestApp(t)
	ta.mock.InitErr = assert.AnError

	code := ta.app.Run([]string{"run", "--simulate", "--auto"})

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	assert.Equal(t, []string{"init", "disconnect"}, ta.mock.Calls)
	assert.Contains(t, ta.out.String(), "Failed to initialize controller")
}

func TestRun_GripperWarning(t *testing.T) {
	ta := newTestApp(t)
	rigPath := writeRigWithoutGripper(t)

	code := ta.app.Run([]string{"run", "--simulate", "--auto", "--config", writeConfigPointingAt(t, rigPath)})

	assert.Equal(t, 0, code)
	assert.Contains(t, ta.out.String(), "No gripper configured")
}

func TestCheck_Passes(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"check", "--simulate", "--fast"})

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	// Preflight never commands motion.
	assert.Equal(t, []string{"init", "disconnect"}, ta.mock.Calls)
	assert.Contains(t, ta.out.String(), "Preflight checks passed")
}

func TestCheck_MissingPositionFails(t *testing.T) {
	ta := newTestApp(t)
	rigPath := writeRigMissingDeckLow(t)

	code := ta.app.Run([]string{"check", "--simulate", "--config", writeConfigPointingAt(t, rigPath)})

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, ta.mock.DisconnectCalls)
	assert.Equal(t, []string{"init", "disconnect"}, ta.mock.Calls)
	assert.Contains(t, ta.out.String(), "Preflight check failed")
}

func TestCheck_RejectsInvalidFlags(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"check", "--simulate", "--real"})

	assert.Equal(t, 1, code)
	assert.Zero(t, ta.factoryCalls)
}

func TestPositions_ListsRig(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"positions"})

	assert.Equal(t, 0, code)
	// Reads configuration only; no controller is constructed.
	assert.Zero(t, ta.factoryCalls)

	out := ta.out.String()
	assert.Contains(t, out, "robot_home")
	assert.Contains(t, out, "deck_low")
	assert.Contains(t, out, "Local_1")
	assert.Contains(t, out, "gripper")
}

func TestRootCommand_BadConfigPath(t *testing.T) {
	ta := newTestApp(t)

	code := ta.app.Run([]string{"run", "--simulate", "--auto", "--config", "/nonexistent/config.yaml"})

	assert.Equal(t, 1, code)
	assert.Zero(t, ta.factoryCalls)
	assert.Contains(t, ta.out.String(), "error reading config file")
}

// writeConfigPointingAt writes a minimal config file whose positions_file
// points at the given rig table.
func writeConfigPointingAt(t *testing.T, rigPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("positions_file: "+rigPath+"\n"), 0644))
	return path
}

func writeRigMissingDeckLow(t *testing.T) string {
	t.Helper()
	rig := `
positions:
  robot_home:
    joints: [0, -30, -20, 0, 50, 0]
  deck_high:
    joints: [20, -10, -45, 0, 55, 20]
track_positions:
  Local_1: 380.0
components:
  track: true
  gripper: true
`
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rig), 0644))
	return path
}

func writeRigWithoutGripper(t *testing.T) string {
	t.Helper()
	rig := `
positions:
  robot_home:
    joints: [0, -30, -20, 0, 50, 0]
  deck_high:
    joints: [20, -10, -45, 0, 55, 20]
  deck_low:
    joints: [20, 5, -60, 0, 55, 20]
track_positions:
  Local_1: 380.0
components:
  track: true
  gripper: false
`
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rig), 0644))
	return path
}
