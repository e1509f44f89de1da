package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"platepickup/internal/config"
)

// defaultTimeScale is the fraction of real motion time the simulator
// sleeps, keeping demo runs observable but quick.
const defaultTimeScale = 0.01

// Sim is an in-memory [Controller] for --simulate mode.
//
// Moves sleep a duration derived from travel distance and the requested
// speed (scaled by TimeScale), honoring context cancellation, so the
// simulator exercises the same blocking and abort paths as real hardware.
type Sim struct {
	rig *config.RigConfig

	// TimeScale scales simulated motion time. 1.0 sleeps for the full
	// real-world duration, 0 disables sleeping. Defaults to 0.01.
	TimeScale float64

	joints      []float64
	trackOffset float64
	gripperOpen bool
	initialized bool
}

// NewSim creates a simulated controller over the given rig table.
func NewSim(rig *config.RigConfig) *Sim {
	return &Sim{
		rig:       rig,
		TimeScale: defaultTimeScale,
	}
}

// Initialize marks the simulated rig ready. It never fails.
func (s *Sim) Initialize() error {
	home, ok := s.rig.Positions[config.LocationRobotHome]
	if ok {
		s.joints = append([]float64(nil), home.Joints...)
	}
	s.initialized = true
	return nil
}

// Disconnect releases the simulated rig.
func (s *Sim) Disconnect() {
	s.initialized = false
}

// StopMotion is immediate in simulation; there is nothing physical to halt.
func (s *Sim) StopMotion() {}

// IsComponentEnabled reports component availability from the rig table.
func (s *Sim) IsComponentEnabled(name string) bool {
	return s.rig.ComponentEnabled(name)
}

// HasGripper reports gripper availability from the rig table.
func (s *Sim) HasGripper() bool {
	return s.rig.HasGripper()
}

// PositionConfig exposes the rig position table.
func (s *Sim) PositionConfig() *config.RigConfig {
	return s.rig
}

// MoveToNamedLocation simulates a joint move, sleeping proportionally to
// the largest joint delta divided by the requested speed.
func (s *Sim) MoveToNamedLocation(ctx context.Context, name string, speed float64) error {
	pose, ok := s.rig.Positions[name]
	if !ok {
		return fmt.Errorf("unknown location %q: %w", name, ErrMotionFailed)
	}
	if speed <= 0 {
		return fmt.Errorf("joint speed %g°/s: %w", speed, ErrMotionFailed)
	}

	var maxDelta float64
	for i, target := range pose.Joints {
		current := 0.0
		if i < len(s.joints) {
			current = s.joints[i]
		}
		maxDelta = math.Max(maxDelta, math.Abs(target-current))
	}

	if err := s.sleep(ctx, maxDelta/speed); err != nil {
		return err
	}
	s.joints = append([]float64(nil), pose.Joints...)
	return nil
}

// MoveTrackToNamedLocation simulates a track move.
func (s *Sim) MoveTrackToNamedLocation(ctx context.Context, name string, speed float64) error {
	if !s.rig.ComponentEnabled(config.ComponentTrack) {
		return fmt.Errorf("linear track not enabled: %w", ErrMotionFailed)
	}
	target, ok := s.rig.TrackPositions[name]
	if !ok {
		return fmt.Errorf("unknown track location %q: %w", name, ErrMotionFailed)
	}
	if speed <= 0 {
		return fmt.Errorf("track speed %g mm/s: %w", speed, ErrMotionFailed)
	}

	if err := s.sleep(ctx, math.Abs(target-s.trackOffset)/speed); err != nil {
		return err
	}
	s.trackOffset = target
	return nil
}

// OpenGripper opens the simulated gripper.
func (s *Sim) OpenGripper(ctx context.Context) error {
	return s.setGripper(ctx, true)
}

// CloseGripper closes the simulated gripper.
func (s *Sim) CloseGripper(ctx context.Context) error {
	return s.setGripper(ctx, false)
}

func (s *Sim) setGripper(ctx context.Context, open bool) error {
	if !s.rig.HasGripper() {
		return fmt.Errorf("no gripper configured: %w", ErrMotionFailed)
	}
	// Gripper actuation takes roughly half a second on the real rig.
	if err := s.sleep(ctx, 0.5); err != nil {
		return err
	}
	s.gripperOpen = open
	return nil
}

// sleep blocks for seconds*TimeScale or until ctx is cancelled.
func (s *Sim) sleep(ctx context.Context, seconds float64) error {
	d := time.Duration(seconds * s.TimeScale * float64(time.Second))
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
