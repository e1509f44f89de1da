// Package output provides terminal output formatting for platepickup.
//
// All user-facing text flows through [Printer], which renders banners, step
// headers, speed annotations, and the final run summary with consistent
// lipgloss styling. Commands and the runner never write to stdout directly;
// they hold a Printer so tests can capture output with
// [NewPrinterWithWriter].
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one line in the final run summary.
//
// Exactly one of the three states applies: executed successfully (OK),
// executed and failed (!OK, !Skipped), or never reached (Skipped).
type SummaryRow struct {
	// Name is the step name, e.g. "deck_low".
	Name string

	// Detail is a short human-readable note, e.g. the step description
	// or a failure reason.
	Detail string

	// OK indicates the step completed successfully.
	OK bool

	// Skipped indicates the step was never executed because an earlier
	// step failed or the run was aborted.
	Skipped bool
}

// Printer renders formatted terminal output.
//
// Create instances with [NewPrinter] for stdout or [NewPrinterWithWriter]
// for tests. Printer is not safe for concurrent use; the sequencer is
// single-threaded so this never matters in practice.
type Printer struct {
	w io.Writer

	banner  lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a [Printer] writing to w.
//
// Tests typically pass a bytes.Buffer to assert on rendered output.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		banner:  lipgloss.NewStyle().Bold(true).Border(lipgloss.DoubleBorder()).Padding(0, 2),
		step:    lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		dim:     lipgloss.NewStyle().Faint(true),
	}
}

// Banner renders a bordered title block. Additional lines appear below the
// title inside the border.
func (p *Printer) Banner(title string, lines ...string) {
	content := title
	if len(lines) > 0 {
		content += "\n" + strings.Join(lines, "\n")
	}
	fmt.Fprintln(p.w, p.banner.Render(content))
}

// StepHeader prints the "[n/total] description" line that opens each step.
func (p *Printer) StepHeader(index, total int, description string) {
	fmt.Fprintf(p.w, "\n%s\n", p.step.Render(fmt.Sprintf("[%d/%d] %s", index, total, description)))
}

// JointSpeed prints a joint speed annotation in degrees per second.
func (p *Printer) JointSpeed(v float64) {
	fmt.Fprintf(p.w, "      %s\n", p.dim.Render(fmt.Sprintf("Joint speed: %g°/s", v)))
}

// TrackSpeed prints a track speed annotation in millimetres per second.
func (p *Printer) TrackSpeed(v float64) {
	fmt.Fprintf(p.w, "      %s\n", p.dim.Render(fmt.Sprintf("Track speed: %g mm/s", v)))
}

// Info prints a plain informational line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Detail prints an indented, de-emphasized line.
func (p *Printer) Detail(format string, args ...any) {
	fmt.Fprintf(p.w, "   %s\n", p.dim.Render(fmt.Sprintf(format, args...)))
}

// Success prints a green checkmarked line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.w, "%s\n", p.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Failure prints a red crossmarked line.
func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintf(p.w, "%s\n", p.failure.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.w, "%s\n", p.warn.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// Prompt prints a confirmation prompt without a trailing newline, leaving
// the cursor on the prompt line.
func (p *Printer) Prompt(text string) {
	fmt.Fprint(p.w, text)
}

// Summary renders the final per-step summary table and an overall
// success or failure line.
func (p *Printer) Summary(title string, ok bool, rows []SummaryRow) {
	var b strings.Builder
	b.WriteString(title)
	for _, row := range rows {
		mark := "✓"
		switch {
		case row.Skipped:
			mark = "○"
		case !row.OK:
			mark = "✗"
		}
		b.WriteString(fmt.Sprintf("\n%s %-18s %s", mark, row.Name, row.Detail))
	}
	fmt.Fprintln(p.w, p.banner.Render(b.String()))
	if ok {
		p.Success("%s completed successfully", title)
	} else {
		p.Failure("%s did not complete", title)
	}
}
