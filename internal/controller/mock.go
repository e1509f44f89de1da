package controller

import (
	"context"
	"errors"
	"fmt"

	"platepickup/internal/config"
)

// Mock is a recording [Controller] implementation for tests.
//
// Every operation is appended to Calls in invocation order, and move speeds
// are appended to Speeds, so tests can assert on exact sequencing. Configure
// FailOn to make a location report a clean motion failure, or FaultOn to
// make it return an unexpected error.
type Mock struct {
	// Rig is the position table exposed via PositionConfig. Defaults to
	// [config.DefaultRig] when constructed via NewMock.
	Rig *config.RigConfig

	// InitErr, when set, is returned by Initialize.
	InitErr error

	// FailOn names a location whose move reports [ErrMotionFailed].
	FailOn string

	// FaultOn names a location whose move returns an unexpected error.
	FaultOn string

	// BlockOn names a location whose move blocks until ctx is cancelled,
	// then returns ctx.Err(). Simulates an interrupt mid-motion.
	BlockOn string

	// Calls records operations in order: "init", "move:<name>",
	// "track:<name>", "open_gripper", "close_gripper", "stop_motion",
	// "disconnect".
	Calls []string

	// Speeds records the speed argument of each move in call order.
	Speeds []float64

	// StopCalls counts StopMotion invocations.
	StopCalls int

	// DisconnectCalls counts Disconnect invocations.
	DisconnectCalls int
}

// NewMock creates a Mock backed by the default rig table.
func NewMock() *Mock {
	return &Mock{Rig: config.DefaultRig()}
}

func (m *Mock) Initialize() error {
	m.Calls = append(m.Calls, "init")
	return m.InitErr
}

func (m *Mock) Disconnect() {
	m.Calls = append(m.Calls, "disconnect")
	m.DisconnectCalls++
}

func (m *Mock) StopMotion() {
	m.Calls = append(m.Calls, "stop_motion")
	m.StopCalls++
}

func (m *Mock) IsComponentEnabled(name string) bool {
	return m.Rig.ComponentEnabled(name)
}

func (m *Mock) HasGripper() bool {
	return m.Rig.HasGripper()
}

func (m *Mock) PositionConfig() *config.RigConfig {
	return m.Rig
}

func (m *Mock) MoveToNamedLocation(ctx context.Context, name string, speed float64) error {
	m.Calls = append(m.Calls, "move:"+name)
	m.Speeds = append(m.Speeds, speed)
	return m.moveResult(ctx, name)
}

func (m *Mock) MoveTrackToNamedLocation(ctx context.Context, name string, speed float64) error {
	m.Calls = append(m.Calls, "track:"+name)
	m.Speeds = append(m.Speeds, speed)
	return m.moveResult(ctx, name)
}

func (m *Mock) OpenGripper(ctx context.Context) error {
	m.Calls = append(m.Calls, "open_gripper")
	return m.moveResult(ctx, "open_gripper")
}

func (m *Mock) CloseGripper(ctx context.Context) error {
	m.Calls = append(m.Calls, "close_gripper")
	return m.moveResult(ctx, "close_gripper")
}

func (m *Mock) moveResult(ctx context.Context, name string) error {
	switch name {
	case m.BlockOn:
		<-ctx.Done()
		return ctx.Err()
	case m.FailOn:
		return fmt.Errorf("mock failure at %q: %w", name, ErrMotionFailed)
	case m.FaultOn:
		return errors.New("mock fault at " + name)
	}
	return ctx.Err()
}
