// Package runner orchestrates plan execution against a motion controller.
//
// The [Executor] walks a fixed plan in order: print the step, wait for
// operator confirmation unless auto-confirming, execute the bound action,
// and stop at the first failing or interrupted step. Operator cancellation
// — at a prompt or mid-motion — synchronously issues exactly one
// stop-motion call before the run aborts.
//
// Key concepts:
//   - Preflight validation runs after the start prompt, before any motion
//   - A clean [controller.ErrMotionFailed] aborts without stop-motion,
//     because the controller has already left the rig safe
//   - Any other action error is an unexpected fault: stop-motion is issued
//     defensively and a diagnostic is printed
//   - Panics are recovered, stop motion, and fail the run with a stack trace
package runner

import (
	"context"
	"errors"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"platepickup/internal/controller"
	"platepickup/internal/output"
	"platepickup/internal/plan"
)

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeCompleted means every step succeeded in order.
	OutcomeCompleted Outcome = iota

	// OutcomeAborted means the operator cancelled at a prompt or
	// mid-motion. Stop-motion has already been issued.
	OutcomeAborted

	// OutcomeFailed means preflight rejected the rig or a step failed.
	OutcomeFailed
)

// StepResult records one step's outcome within a run.
type StepResult struct {
	// Name is the step name.
	Name string

	// Err is the step's terminal error, nil on success.
	Err error

	// Skipped marks steps never executed because the run ended earlier.
	Skipped bool
}

// Result is the outcome of a full run.
type Result struct {
	// Outcome classifies the run.
	Outcome Outcome

	// Steps has one entry per plan step, in plan order.
	Steps []StepResult

	// Err is the error that terminated the run, nil when completed.
	Err error
}

// Completed reports whether every step succeeded.
func (r Result) Completed() bool {
	return r.Outcome == OutcomeCompleted
}

// Confirmer blocks until the operator acknowledges a prompt or ctx is
// cancelled. Implementations return ctx.Err() on cancellation; any error
// is treated by the [Executor] as an abort.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) error
}

// Executor runs a plan against a motion controller.
//
// Executor uses dependency injection for testability: the controller, the
// printer, and the confirmer are all supplied by the caller. Use
// [NewExecutor] to create an instance and [Executor.Run] to execute a plan.
type Executor struct {
	ctrl      controller.Controller
	printer   *output.Printer
	confirmer Confirmer
	auto      bool
	pause     time.Duration
	stopOnce  sync.Once
}

// NewExecutor creates an Executor.
//
// When auto is true, all confirmation prompts are skipped and confirmer may
// be nil. pause is the fixed delay after each successful step.
func NewExecutor(ctrl controller.Controller, printer *output.Printer, confirmer Confirmer, auto bool, pause time.Duration) *Executor {
	return &Executor{
		ctrl:      ctrl,
		printer:   printer,
		confirmer: confirmer,
		auto:      auto,
		pause:     pause,
	}
}

// Run executes the plan: overview, start confirmation, preflight
// validation, then every step in order until the first failure or abort.
//
// Stop-motion is issued at most once per run, and never for preflight
// failures (motion has not started) or clean motion failures (the
// controller already left the rig safe).
func (e *Executor) Run(ctx context.Context, p *plan.Plan) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.stopMotion()
			e.printer.Failure("%s failed with panic: %v", p.Name, r)
			e.printer.Detail("%s", debug.Stack())
			result = Result{
				Outcome: OutcomeFailed,
				Steps:   skippedResults(p),
				Err:     errors.New("panic during run"),
			}
		}
	}()

	e.printOverview(p)

	if !e.auto {
		if err := e.confirmer.Confirm(ctx, "Press Enter to start the demo (Ctrl+C to abort)..."); err != nil {
			e.printer.Failure("Demo aborted by user")
			e.stopMotion()
			return Result{Outcome: OutcomeAborted, Steps: skippedResults(p), Err: err}
		}
	}

	if err := p.Validate(e.ctrl); err != nil {
		// Motion never started; stop-motion must not be issued here.
		e.printer.Failure("Preflight check failed: %v", err)
		return Result{Outcome: OutcomeFailed, Steps: skippedResults(p), Err: err}
	}

	total := len(p.Steps)
	results := make([]StepResult, 0, total)
	for i, step := range p.Steps {
		err, aborted := e.runStep(ctx, i+1, total, step)
		results = append(results, StepResult{Name: step.Name, Err: err})
		if err != nil {
			for _, rest := range p.Steps[i+1:] {
				results = append(results, StepResult{Name: rest.Name, Skipped: true})
			}
			outcome := OutcomeFailed
			if aborted {
				outcome = OutcomeAborted
			}
			return Result{Outcome: outcome, Steps: results, Err: err}
		}
	}

	return Result{Outcome: OutcomeCompleted, Steps: results}
}

// runStep executes a single step: header, speed annotations, confirmation,
// action, and error classification. aborted is true when the operator
// cancelled, distinguishing aborts from plain failures.
func (e *Executor) runStep(ctx context.Context, index, total int, step plan.Step) (err error, aborted bool) {
	e.printer.StepHeader(index, total, step.Description)
	if step.Speed.HasJoint() {
		e.printer.JointSpeed(step.Speed.Joint)
	}
	if step.Speed.HasTrack() {
		e.printer.TrackSpeed(step.Speed.Track)
	}

	if !e.auto {
		if err := e.confirmer.Confirm(ctx, "Press Enter to continue (Ctrl+C to abort)..."); err != nil {
			e.printer.Failure("Movement aborted by user")
			e.stopMotion()
			return err, true
		}
	}

	e.printer.Detail("Executing movement...")
	err = step.Action(ctx)
	switch {
	case err == nil:
		e.printer.Success("Movement completed successfully")
		e.pauseBetweenSteps(ctx)
		return nil, false

	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		e.printer.Failure("Movement interrupted - stopping robot immediately")
		e.stopMotion()
		return err, true

	case errors.Is(err, controller.ErrMotionFailed):
		// The controller already left the rig safe; no stop needed.
		e.printer.Failure("Movement failed: %v", err)
		return err, false

	default:
		e.printer.Failure("Movement failed with unexpected error: %v", err)
		e.stopMotion()
		return err, false
	}
}

// printOverview renders the plan banner: the ordered step list and the
// effective speed configuration.
func (e *Executor) printOverview(p *plan.Plan) {
	lines := make([]string, 0, len(p.Steps))
	for i, step := range p.Steps {
		lines = append(lines, strconv.Itoa(i+1)+". "+step.Description)
	}
	e.printer.Banner(p.Name, lines...)

	e.printer.Info("Speed configuration:")
	for _, step := range p.Steps {
		switch {
		case step.Speed.HasJoint():
			e.printer.Detail("%s: %g°/s (joint)", step.Name, step.Speed.Joint)
		case step.Speed.HasTrack():
			e.printer.Detail("%s: %g mm/s (track)", step.Name, step.Speed.Track)
		default:
			e.printer.Detail("%s: %s", step.Name, step.Speed.Description)
		}
	}
}

// stopMotion issues the emergency stop at most once per run.
func (e *Executor) stopMotion() {
	e.stopOnce.Do(e.ctrl.StopMotion)
}

// pauseBetweenSteps holds briefly after a successful movement so the rig
// settles before the next prompt, returning early on cancellation.
func (e *Executor) pauseBetweenSteps(ctx context.Context) {
	if e.pause <= 0 {
		return
	}
	timer := time.NewTimer(e.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func skippedResults(p *plan.Plan) []StepResult {
	results := make([]StepResult, len(p.Steps))
	for i, step := range p.Steps {
		results[i] = StepResult{Name: step.Name, Skipped: true}
	}
	return results
}
