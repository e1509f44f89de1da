package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platepickup/internal/config"
)

func newTestSim() *Sim {
	sim := NewSim(config.DefaultRig())
	sim.TimeScale = 0
	return sim
}

func TestSim_FullSequence(t *testing.T) {
	sim := newTestSim()
	require.NoError(t, sim.Initialize())

	ctx := context.Background()
	assert.NoError(t, sim.MoveToNamedLocation(ctx, config.LocationRobotHome, 20))
	assert.NoError(t, sim.OpenGripper(ctx))
	assert.NoError(t, sim.MoveTrackToNamedLocation(ctx, config.TrackLocal1, 150))
	assert.NoError(t, sim.MoveToNamedLocation(ctx, config.LocationDeckHigh, 15))
	assert.NoError(t, sim.MoveToNamedLocation(ctx, config.LocationDeckLow, 8))
	assert.NoError(t, sim.CloseGripper(ctx))
	assert.NoError(t, sim.MoveToNamedLocation(ctx, config.LocationDeckHigh, 10))
	assert.NoError(t, sim.MoveToNamedLocation(ctx, config.LocationRobotHome, 15))

	sim.Disconnect()
}

func TestSim_UnknownLocation(t *testing.T) {
	sim := newTestSim()

	err := sim.MoveToNamedLocation(context.Background(), "moon_base", 20)
	assert.ErrorIs(t, err, ErrMotionFailed)
	assert.Contains(t, err.Error(), "moon_base")
}

func TestSim_UnknownTrackLocation(t *testing.T) {
	sim := newTestSim()

	err := sim.MoveTrackToNamedLocation(context.Background(), "Local_9", 150)
	assert.ErrorIs(t, err, ErrMotionFailed)
}

func TestSim_TrackDisabled(t *testing.T) {
	rig := config.DefaultRig()
	rig.Components[config.ComponentTrack] = false
	sim := NewSim(rig)
	sim.TimeScale = 0

	err := sim.MoveTrackToNamedLocation(context.Background(), config.TrackLocal1, 150)
	assert.ErrorIs(t, err, ErrMotionFailed)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestSim_NoGripper(t *testing.T) {
	rig := config.DefaultRig()
	rig.Components[config.ComponentGripper] = false
	sim := NewSim(rig)
	sim.TimeScale = 0

	assert.ErrorIs(t, sim.OpenGripper(context.Background()), ErrMotionFailed)
	assert.ErrorIs(t, sim.CloseGripper(context.Background()), ErrMotionFailed)
}

func TestSim_NonPositiveSpeed(t *testing.T) {
	sim := newTestSim()

	assert.ErrorIs(t, sim.MoveToNamedLocation(context.Background(), config.LocationRobotHome, 0), ErrMotionFailed)
	assert.ErrorIs(t, sim.MoveTrackToNamedLocation(context.Background(), config.TrackLocal1, -5), ErrMotionFailed)
}

func TestSim_Cancellation(t *testing.T) {
	sim := NewSim(config.DefaultRig())
	require.NoError(t, sim.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sim.MoveToNamedLocation(ctx, config.LocationDeckHigh, 15)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrMotionFailed)
}
