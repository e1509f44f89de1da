package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"platepickup/internal/output"
)

// StdinConfirmer reads operator acknowledgments from an input stream,
// usually standard input.
//
// Confirm races the blocking line read against context cancellation so a
// SIGINT arriving while the operator is being prompted aborts immediately.
// A read error (including EOF when input is exhausted) is reported as an
// abort: an operator who cannot confirm must not start motion.
type StdinConfirmer struct {
	printer *output.Printer
	in      *bufio.Reader
}

// NewStdinConfirmer creates a confirmer reading from in.
func NewStdinConfirmer(printer *output.Printer, in io.Reader) *StdinConfirmer {
	return &StdinConfirmer{
		printer: printer,
		in:      bufio.NewReader(in),
	}
}

// Confirm prints the prompt and blocks until a line is read or ctx is
// cancelled. On cancellation the blocked read goroutine is abandoned; the
// process is about to exit and stdin has no cleanup to run.
func (c *StdinConfirmer) Confirm(ctx context.Context, prompt string) error {
	c.printer.Prompt(prompt)

	done := make(chan error, 1)
	go func() {
		_, err := c.in.ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		c.printer.Info("")
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		return nil
	}
}
