package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"platepickup/internal/output"
)

func TestStdinConfirmer_AcknowledgesOnNewline(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewStdinConfirmer(output.NewPrinterWithWriter(buf), strings.NewReader("\n"))

	err := c.Confirm(context.Background(), "Press Enter...")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Press Enter...")
}

func TestStdinConfirmer_EOFIsAbort(t *testing.T) {
	c := NewStdinConfirmer(output.NewPrinterWithWriter(io.Discard), strings.NewReader(""))

	err := c.Confirm(context.Background(), "Press Enter...")

	assert.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestStdinConfirmer_CancellationWinsOverBlockedRead(t *testing.T) {
	// A pipe that is never written keeps the read goroutine blocked.
	pr, pw := io.Pipe()
	defer pw.Close()
	c := NewStdinConfirmer(output.NewPrinterWithWriter(io.Discard), pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Confirm(ctx, "Press Enter...")
	assert.ErrorIs(t, err, context.Canceled)
}
