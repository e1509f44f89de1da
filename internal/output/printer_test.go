package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_StepHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.StepHeader(1, 7, "Move robot to home position")

	assert.Contains(t, buf.String(), "[1/7] Move robot to home position")
}

func TestPrinter_SpeedAnnotations(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.JointSpeed(20)
	p.TrackSpeed(150)

	out := buf.String()
	assert.Contains(t, out, "Joint speed: 20°/s")
	assert.Contains(t, out, "Track speed: 150 mm/s")
}

func TestPrinter_Banner(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.Banner("Plate Pickup Demo", "Mode: SIMULATION", "Speed: Fast (2.0x)")

	out := buf.String()
	assert.Contains(t, out, "Plate Pickup Demo")
	assert.Contains(t, out, "Mode: SIMULATION")
	assert.Contains(t, out, "Speed: Fast (2.0x)")
}

func TestPrinter_StatusLines(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.Success("Movement completed successfully")
	p.Failure("Movement failed")
	p.Warn("Linear track not enabled")

	out := buf.String()
	assert.Contains(t, out, "✓ Movement completed successfully")
	assert.Contains(t, out, "✗ Movement failed")
	assert.Contains(t, out, "Warning: Linear track not enabled")
}

func TestPrinter_Summary(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.Summary("Plate Pickup", false, []SummaryRow{
		{Name: "robot_home", OK: true},
		{Name: "deck_low", Detail: "servo stalled"},
		{Name: "plate_pickup", Detail: "(skipped)", Skipped: true},
	})

	out := buf.String()
	assert.Contains(t, out, "✓ robot_home")
	assert.Contains(t, out, "✗ deck_low")
	assert.Contains(t, out, "servo stalled")
	assert.Contains(t, out, "○ plate_pickup")
	assert.Contains(t, out, "Plate Pickup did not complete")
}

func TestPrinter_PromptKeepsCursorOnLine(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.Prompt("Press Enter to continue...")

	assert.Equal(t, "Press Enter to continue...", buf.String())
}
