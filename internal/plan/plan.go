// Package plan defines typed step records and the fixed plate-pickup plan.
//
// A [Plan] is an immutable ordered list of [Step] values constructed once
// per demo. Each step binds its named location and speed into its [Action]
// at construction time, so there is no hidden capture of loop variables and
// no stringly-typed lookups at execution time.
//
// Key types:
//   - [Step]: one movement with its description and speed annotation
//   - [Plan]: the ordered sequence plus preflight validation
//
// [PlatePickup] builds the seven-step well-plate pickup sequence.
package plan

import (
	"context"
	"errors"
	"fmt"

	"platepickup/internal/config"
	"platepickup/internal/controller"
)

// Action is a bound, argument-free movement invocation. It blocks until the
// motion completes, fails, or ctx is cancelled. See the controller package
// for the error contract.
type Action func(ctx context.Context) error

// Step is one entry in a demo plan. Steps are immutable once constructed.
type Step struct {
	// Name identifies the step; it keys the speed table and appears in
	// run summaries.
	Name string

	// Description is shown to the operator before confirmation.
	Description string

	// Location is the named location this step moves to. Empty for
	// gripper-only steps.
	Location string

	// Track marks Location as a track location rather than an arm one.
	Track bool

	// Speed carries the step's speed annotation for display. At most one
	// of joint or track speed is set; gripper steps carry neither.
	Speed config.SpeedInfo

	// Action performs the movement.
	Action Action
}

// Plan is a fixed, ordered sequence of steps.
type Plan struct {
	// Name titles the plan in banners and summaries.
	Name string

	// Steps execute strictly in order; the run stops at the first
	// failing or interrupted step.
	Steps []Step
}

// RequiredLocations returns the arm locations the plan references, in order
// of first reference. Track locations are excluded; the controller's track
// configuration validates those itself.
func (p *Plan) RequiredLocations() []string {
	seen := make(map[string]bool)
	var names []string
	for _, step := range p.Steps {
		if step.Location == "" || step.Track || seen[step.Location] {
			continue
		}
		seen[step.Location] = true
		names = append(names, step.Location)
	}
	return names
}

// UsesTrack reports whether any step moves the linear track.
func (p *Plan) UsesTrack() bool {
	for _, step := range p.Steps {
		if step.Track {
			return true
		}
	}
	return false
}

// Validate is the preflight check run before any motion starts.
//
// It verifies that every arm location the plan references exists in the
// controller's position table and that the linear track is enabled when the
// plan uses it. Validate fails fast so a misconfigured rig never starts an
// irreversible partial sequence; callers must not issue stop-motion on a
// validation failure, since motion never started.
func (p *Plan) Validate(ctrl controller.Controller) error {
	positions := ctrl.PositionConfig().Positions
	for _, name := range p.RequiredLocations() {
		if _, ok := positions[name]; !ok {
			return fmt.Errorf("position %q not found in rig position table", name)
		}
	}
	if p.UsesTrack() && !ctrl.IsComponentEnabled(config.ComponentTrack) {
		return errors.New("linear track is not enabled")
	}
	return nil
}

// PlatePickup builds the fixed seven-step plate-pickup plan against the
// given controller, with speeds taken from the (already multiplied) table.
//
// Sequence: home + open gripper, track to Local_1, deck_high, deck_low,
// close gripper, deck_high with plate, home with plate.
func PlatePickup(ctrl controller.Controller, speeds config.SpeedTable) *Plan {
	// Each action binds its location and speed here, at construction.
	homeSpeed := speeds[config.StepRobotHome].Joint
	trackSpeed := speeds[config.StepMoveToLocal1].Track
	deckHighSpeed := speeds[config.StepDeckHigh].Joint
	deckLowSpeed := speeds[config.StepDeckLow].Joint
	liftSpeed := speeds[config.StepDeckHighReturn].Joint
	returnSpeed := speeds[config.StepFinalHome].Joint

	steps := []Step{
		{
			Name:        config.StepRobotHome,
			Description: "Moving robot joints to home position + opening gripper",
			Location:    config.LocationRobotHome,
			Speed:       speeds[config.StepRobotHome],
			Action: func(ctx context.Context) error {
				if err := ctrl.MoveToNamedLocation(ctx, config.LocationRobotHome, homeSpeed); err != nil {
					return err
				}
				// Opening the gripper after homing is best-effort: a
				// clean gripper failure does not fail the step, but
				// faults and cancellation still propagate.
				if err := ctrl.OpenGripper(ctx); err != nil && !errors.Is(err, controller.ErrMotionFailed) {
					return err
				}
				return nil
			},
		},
		{
			Name:        config.StepMoveToLocal1,
			Description: "Moving linear track to Local_1 position",
			Location:    config.TrackLocal1,
			Track:       true,
			Speed:       speeds[config.StepMoveToLocal1],
			Action: func(ctx context.Context) error {
				return ctrl.MoveTrackToNamedLocation(ctx, config.TrackLocal1, trackSpeed)
			},
		},
		{
			Name:        config.StepDeckHigh,
			Description: "Joint movement to deck_high position",
			Location:    config.LocationDeckHigh,
			Speed:       speeds[config.StepDeckHigh],
			Action: func(ctx context.Context) error {
				return ctrl.MoveToNamedLocation(ctx, config.LocationDeckHigh, deckHighSpeed)
			},
		},
		{
			Name:        config.StepDeckLow,
			Description: "Joint movement to deck_low position (approach plate)",
			Location:    config.LocationDeckLow,
			Speed:       speeds[config.StepDeckLow],
			Action: func(ctx context.Context) error {
				return ctrl.MoveToNamedLocation(ctx, config.LocationDeckLow, deckLowSpeed)
			},
		},
		{
			Name:        config.StepPlatePickup,
			Description: "Closing gripper to pick up well plate",
			Speed:       speeds[config.StepPlatePickup],
			Action: func(ctx context.Context) error {
				return ctrl.CloseGripper(ctx)
			},
		},
		{
			Name:        config.StepDeckHighReturn,
			Description: "Joint movement to deck_high position (with plate)",
			Location:    config.LocationDeckHigh,
			Speed:       speeds[config.StepDeckHighReturn],
			Action: func(ctx context.Context) error {
				return ctrl.MoveToNamedLocation(ctx, config.LocationDeckHigh, liftSpeed)
			},
		},
		{
			Name:        config.StepFinalHome,
			Description: "Joint movement back to robot home position (with plate)",
			Location:    config.LocationRobotHome,
			Speed:       speeds[config.StepFinalHome],
			Action: func(ctx context.Context) error {
				return ctrl.MoveToNamedLocation(ctx, config.LocationRobotHome, returnSpeed)
			},
		},
	}

	return &Plan{Name: "Plate Pickup", Steps: steps}
}
