// Package controller defines the motion controller surface consumed by the
// sequencer and provides the simulation and serial-bus implementations.
//
// Key types:
//   - [Controller]: the interface the sequencer drives
//   - [Sim]: in-memory simulated controller
//   - [Hardware]: controller backed by a feetech serial servo bus
//   - [Mock]: recording implementation for tests
//
// Error contract: motion operations return an error wrapping
// [ErrMotionFailed] for clean failures where the controller has already left
// the rig in a safe state (the caller must not issue a redundant stop). Any
// other error is an unexpected fault; the caller should stop motion
// defensively. Context cancellation propagates as ctx.Err().
package controller

import (
	"context"
	"errors"

	"platepickup/internal/config"
)

// ErrMotionFailed is the sentinel wrapped by motion operations that failed
// cleanly: the movement did not complete, but the controller has already
// left the rig safe, so callers must not issue stop-motion for it.
var ErrMotionFailed = errors.New("motion failed")

// Controller is the motion controller surface the sequencer consumes.
//
// All movement operations block the calling goroutine until the physical
// (or simulated) motion completes, fails, or the context is cancelled.
// Implementations own all hardware resources; the sequencer never holds
// any of its own.
type Controller interface {
	// Initialize connects to and enables the rig. It must be called
	// before any motion operation.
	Initialize() error

	// Disconnect releases the rig. It must be called exactly once on
	// every exit path, regardless of outcome, and is safe to call even
	// when Initialize failed part-way.
	Disconnect()

	// StopMotion halts all actuators immediately. It is the emergency
	// stop used on operator cancellation and unexpected faults.
	StopMotion()

	// IsComponentEnabled reports whether a named component ("track",
	// "gripper") is enabled on this rig.
	IsComponentEnabled(name string) bool

	// HasGripper reports whether a gripper is configured.
	HasGripper() bool

	// MoveToNamedLocation moves the arm joints to a named location at
	// the given joint speed in degrees per second.
	MoveToNamedLocation(ctx context.Context, name string, speed float64) error

	// MoveTrackToNamedLocation moves the linear track to a named track
	// location at the given speed in millimetres per second.
	MoveTrackToNamedLocation(ctx context.Context, name string, speed float64) error

	// OpenGripper opens the gripper.
	OpenGripper(ctx context.Context) error

	// CloseGripper closes the gripper.
	CloseGripper(ctx context.Context) error

	// PositionConfig exposes the read-only rig position table.
	PositionConfig() *config.RigConfig
}
