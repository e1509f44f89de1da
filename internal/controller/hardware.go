package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"platepickup/internal/config"
)

// Raw servo unit conversions for the bench rig. The joints are STS servos
// with a 4096-count revolution centered at 2048; the track carriage moves
// 1mm per 20 raw counts of its drive servo.
const (
	rawCenter     = 2048.0
	rawPerDegree  = 4096.0 / 360.0
	trackRawPerMM = 20.0

	gripperOpenRaw   = 2900.0
	gripperClosedRaw = 2100.0

	settlePollInterval = 50 * time.Millisecond
	settleGrace        = 2 * time.Second
)

// Hardware is a [Controller] backed by a feetech serial servo bus.
//
// It is a thin adapter: joint moves write target positions once and block
// until the group settles within tolerance, with the requested speed used
// to budget the settle timeout. The track servo runs in velocity mode and
// is driven toward its target offset. There is no motion planning or
// interpolation here; that is the servo firmware's concern.
type Hardware struct {
	serial config.SerialConfig
	rig    *config.RigConfig

	bus        *feetech.Bus
	joints     *feetech.ServoGroup
	track      *feetech.Servo
	trackGroup *feetech.ServoGroup
	gripper    *feetech.Servo
	gripGroup  *feetech.ServoGroup
}

// NewHardware opens the serial bus and prepares servo handles.
//
// The bus is held until [Hardware.Disconnect]; callers must pair every
// successful NewHardware with a deferred Disconnect.
func NewHardware(serial config.SerialConfig, rig *config.RigConfig) (*Hardware, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     serial.Port,
		BaudRate: serial.BaudRate,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	return &Hardware{
		serial:     serial,
		rig:        rig,
		bus:        bus,
		joints:     feetech.NewServoGroupByIDs(bus, serial.JointIDs...),
		track:      feetech.NewServo(bus, serial.TrackID, nil),
		trackGroup: feetech.NewServoGroupByIDs(bus, serial.TrackID),
		gripper:    feetech.NewServo(bus, serial.GripperID, nil),
		gripGroup:  feetech.NewServoGroupByIDs(bus, serial.GripperID),
	}, nil
}

// Initialize enables torque on the joints and configures the track servo
// for velocity mode.
func (h *Hardware) Initialize() error {
	ctx := context.Background()
	if err := h.joints.EnableAll(ctx); err != nil {
		return fmt.Errorf("enable joints: %w", err)
	}
	if h.rig.ComponentEnabled(config.ComponentTrack) {
		if err := h.track.Disable(ctx); err != nil {
			return fmt.Errorf("prepare track: %w", err)
		}
		if err := h.track.SetOperatingMode(ctx, feetech.ModeVelocity); err != nil {
			return fmt.Errorf("set track mode: %w", err)
		}
		if err := h.track.Enable(ctx); err != nil {
			return fmt.Errorf("enable track: %w", err)
		}
	}
	if h.rig.HasGripper() {
		if err := h.gripper.Enable(ctx); err != nil {
			return fmt.Errorf("enable gripper: %w", err)
		}
	}
	return nil
}

// Disconnect disables torque and closes the bus. Errors during teardown
// are ignored; there is nothing useful a caller can do with them.
func (h *Hardware) Disconnect() {
	ctx := context.Background()
	_ = h.track.SetVelocity(ctx, 0)
	_ = h.joints.DisableAll(ctx)
	_ = h.track.Disable(ctx)
	_ = h.gripper.Disable(ctx)
	_ = h.bus.Close()
}

// StopMotion halts all actuators immediately: the track servo velocity is
// zeroed and joint torque is dropped, which stops in-flight position moves.
// A fresh context is used because StopMotion typically runs after the run
// context has been cancelled.
func (h *Hardware) StopMotion() {
	ctx := context.Background()
	_ = h.track.SetVelocity(ctx, 0)
	_ = h.joints.DisableAll(ctx)
}

// IsComponentEnabled reports component availability from the rig table.
func (h *Hardware) IsComponentEnabled(name string) bool {
	return h.rig.ComponentEnabled(name)
}

// HasGripper reports gripper availability from the rig table.
func (h *Hardware) HasGripper() bool {
	return h.rig.HasGripper()
}

// PositionConfig exposes the rig position table.
func (h *Hardware) PositionConfig() *config.RigConfig {
	return h.rig
}

// MoveToNamedLocation writes the pose's servo targets and blocks until the
// joint group settles within tolerance. The settle budget is the largest
// joint delta divided by the requested speed, plus a fixed grace period.
func (h *Hardware) MoveToNamedLocation(ctx context.Context, name string, speed float64) error {
	pose, ok := h.rig.Positions[name]
	if !ok {
		return fmt.Errorf("unknown location %q: %w", name, ErrMotionFailed)
	}
	if speed <= 0 {
		return fmt.Errorf("joint speed %g°/s: %w", speed, ErrMotionFailed)
	}
	if len(pose.Joints) != len(h.serial.JointIDs) {
		return fmt.Errorf("location %q has %d joints, rig has %d: %w",
			name, len(pose.Joints), len(h.serial.JointIDs), ErrMotionFailed)
	}

	current, err := h.joints.Positions(ctx)
	if err != nil {
		return fmt.Errorf("read joint positions: %w", err)
	}

	targets := make(feetech.PositionMap, len(pose.Joints))
	var maxDelta float64
	for i, deg := range pose.Joints {
		id := h.serial.JointIDs[i]
		raw := rawCenter + deg*rawPerDegree
		targets[id] = int(math.Round(raw))
		maxDelta = math.Max(maxDelta, math.Abs(deg-(float64(current[id])-rawCenter)/rawPerDegree))
	}

	if err := h.joints.SetPositions(ctx, targets); err != nil {
		return fmt.Errorf("write joint positions: %w", err)
	}

	budget := time.Duration(maxDelta/speed*float64(time.Second)) + settleGrace
	return h.waitSettle(ctx, h.joints, targets, budget)
}

// MoveTrackToNamedLocation drives the track servo in velocity mode toward
// the named offset and blocks until the carriage reaches it.
func (h *Hardware) MoveTrackToNamedLocation(ctx context.Context, name string, speed float64) error {
	if !h.rig.ComponentEnabled(config.ComponentTrack) {
		return fmt.Errorf("linear track not enabled: %w", ErrMotionFailed)
	}
	mm, ok := h.rig.TrackPositions[name]
	if !ok {
		return fmt.Errorf("unknown track location %q: %w", name, ErrMotionFailed)
	}
	if speed <= 0 {
		return fmt.Errorf("track speed %g mm/s: %w", speed, ErrMotionFailed)
	}

	target := mm * trackRawPerMM
	current, err := h.trackPosition(ctx)
	if err != nil {
		return err
	}

	delta := target - current
	if math.Abs(delta) <= h.serial.Tolerance {
		return nil
	}

	velocity := int(speed * trackRawPerMM)
	if delta < 0 {
		velocity = -velocity
	}
	if err := h.track.SetVelocity(ctx, velocity); err != nil {
		return fmt.Errorf("start track move: %w", err)
	}

	budget := time.Duration(math.Abs(delta)/(speed*trackRawPerMM)*float64(time.Second)) + settleGrace
	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = h.track.SetVelocity(context.Background(), 0)
			return ctx.Err()
		case <-ticker.C:
			pos, err := h.trackPosition(ctx)
			if err != nil {
				_ = h.track.SetVelocity(context.Background(), 0)
				return err
			}
			if math.Abs(pos-target) <= h.serial.Tolerance {
				return h.track.SetVelocity(ctx, 0)
			}
			if time.Now().After(deadline) {
				_ = h.track.SetVelocity(context.Background(), 0)
				return fmt.Errorf("track did not reach %q within %s: %w", name, budget, ErrMotionFailed)
			}
		}
	}
}

// OpenGripper opens the gripper and waits for it to settle.
func (h *Hardware) OpenGripper(ctx context.Context) error {
	return h.setGripper(ctx, gripperOpenRaw)
}

// CloseGripper closes the gripper and waits for it to settle.
func (h *Hardware) CloseGripper(ctx context.Context) error {
	return h.setGripper(ctx, gripperClosedRaw)
}

func (h *Hardware) setGripper(ctx context.Context, raw float64) error {
	if !h.rig.HasGripper() {
		return fmt.Errorf("no gripper configured: %w", ErrMotionFailed)
	}
	targets := feetech.PositionMap{h.serial.GripperID: int(math.Round(raw))}
	if err := h.gripGroup.SetPositions(ctx, targets); err != nil {
		return fmt.Errorf("write gripper position: %w", err)
	}
	// A closing gripper stalls against the plate and never reaches its
	// target, so settle is time-bounded rather than position-checked.
	timer := time.NewTimer(settleGrace / 2)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *Hardware) trackPosition(ctx context.Context) (float64, error) {
	positions, err := h.trackGroup.Positions(ctx)
	if err != nil {
		return 0, fmt.Errorf("read track position: %w", err)
	}
	return float64(positions[h.serial.TrackID]), nil
}

// waitSettle polls group positions until every servo is within tolerance of
// its target, the budget elapses, or ctx is cancelled.
func (h *Hardware) waitSettle(ctx context.Context, group *feetech.ServoGroup, targets feetech.PositionMap, budget time.Duration) error {
	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			positions, err := group.Positions(ctx)
			if err != nil {
				return fmt.Errorf("read positions: %w", err)
			}
			settled := true
			for id, target := range targets {
				if math.Abs(float64(positions[id]-target)) > h.serial.Tolerance {
					settled = false
					break
				}
			}
			if settled {
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("joints did not settle within %s: %w", budget, ErrMotionFailed)
			}
		}
	}
}
