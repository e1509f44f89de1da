// Package config provides configuration loading and management for platepickup.
//
// Application configuration (per-step speeds, step pause, serial settings) is
// loaded using Viper, supporting YAML config files and environment variable
// overrides. The rig position table lives in a separate YAML file owned by the
// motion controller configuration and is loaded with yaml.v3 (see rig.go),
// because location names such as "Local_1" are case-sensitive.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [SpeedInfo] defines one step's speed parameters
//   - [RigConfig] is the controller-owned position table
//
// Configuration priority (highest to lowest):
//  1. Environment variables (PLATEPICKUP_ prefix)
//  2. Config file specified by PLATEPICKUP_CONFIG_PATH
//  3. ./platepickup.yaml
//  4. [DefaultConfig] defaults
package config

import "time"

// Step names for the fixed plate-pickup plan. These key the speed table and
// name the steps in run summaries.
const (
	StepRobotHome      = "robot_home"
	StepMoveToLocal1   = "move_to_local_1"
	StepDeckHigh       = "deck_high"
	StepDeckLow        = "deck_low"
	StepPlatePickup    = "plate_pickup"
	StepDeckHighReturn = "deck_high_return"
	StepFinalHome      = "final_home"
)

// SpeedInfo represents one step's speed parameters.
//
// A step carries at most one of Joint or Track; gripper-only steps carry
// neither. A zero value means the parameter is absent, not a speed of zero.
// No bounds checking is performed on speed values here: out-of-range speeds
// are the motion controller's concern.
type SpeedInfo struct {
	// Joint is the joint speed in degrees per second. Zero means unset.
	Joint float64 `mapstructure:"joint_speed"`

	// Track is the linear track speed in millimetres per second.
	// Zero means unset.
	Track float64 `mapstructure:"track_speed"`

	// Description is a short human-readable note about the step's speed
	// choice, shown in the plan overview.
	Description string `mapstructure:"description"`
}

// HasJoint reports whether a joint speed is set.
func (s SpeedInfo) HasJoint() bool { return s.Joint != 0 }

// HasTrack reports whether a track speed is set.
func (s SpeedInfo) HasTrack() bool { return s.Track != 0 }

// SpeedTable maps step names to their speed parameters.
type SpeedTable map[string]SpeedInfo

// ApplyMultiplier returns a copy of the table with every present joint and
// track speed scaled by m. Steps without a speed (e.g. the gripper-close
// step) are left untouched. A multiplier of 1.0 returns an identical copy.
func (t SpeedTable) ApplyMultiplier(m float64) SpeedTable {
	scaled := make(SpeedTable, len(t))
	for name, info := range t {
		if info.Joint != 0 {
			info.Joint *= m
		}
		if info.Track != 0 {
			info.Track *= m
		}
		scaled[name] = info
	}
	return scaled
}

// SerialConfig contains serial bus settings for the real-hardware controller.
type SerialConfig struct {
	// Port is the serial device, e.g. "/dev/ttyUSB0".
	Port string `mapstructure:"port"`

	// BaudRate is the bus baud rate. Default 1000000.
	BaudRate int `mapstructure:"baud_rate"`

	// JointIDs are the servo IDs of the arm joints, in joint order.
	JointIDs []int `mapstructure:"joint_ids"`

	// TrackID is the servo ID of the linear track motor.
	TrackID int `mapstructure:"track_id"`

	// GripperID is the servo ID of the gripper.
	GripperID int `mapstructure:"gripper_id"`

	// Tolerance is the raw position tolerance used to decide a move
	// has settled.
	Tolerance float64 `mapstructure:"tolerance"`
}

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used
// throughout the application. Use [DefaultConfig] to get sensible defaults
// that run the simulation out of the box.
type Config struct {
	// Speeds maps step names to their default speed parameters.
	// The CLI speed multiplier is applied on top of these values.
	Speeds SpeedTable `mapstructure:"speeds"`

	// StepPause is the fixed delay after a successful step before the
	// next one starts. Default 1s.
	StepPause time.Duration `mapstructure:"step_pause"`

	// PositionsFile is an optional path to the rig position table YAML.
	// When empty, [DefaultRig] is used.
	PositionsFile string `mapstructure:"positions_file"`

	// Serial contains serial bus settings for --real mode.
	Serial SerialConfig `mapstructure:"serial"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
//
// The per-step speeds are tuned for safe plate handling: standard speed for
// homing, a moderate track traverse, and a very slow descent to plate level.
// These defaults work out of the box in simulation mode.
func DefaultConfig() *Config {
	return &Config{
		Speeds: SpeedTable{
			StepRobotHome:      {Joint: 20, Description: "Robot joint homing speed with gripper open"},
			StepMoveToLocal1:   {Track: 150, Description: "Linear track movement to Local_1 position"},
			StepDeckHigh:       {Joint: 15, Description: "Joint movement to deck high position"},
			StepDeckLow:        {Joint: 8, Description: "Slow descent to plate pickup level"},
			StepPlatePickup:    {Description: "Close gripper to pick up well plate"},
			StepDeckHighReturn: {Joint: 10, Description: "Slow lift to safe height with plate"},
			StepFinalHome:      {Joint: 15, Description: "Return to home position with plate"},
		},
		StepPause: time.Second,
		Serial: SerialConfig{
			Port:      "/dev/ttyUSB0",
			BaudRate:  1_000_000,
			JointIDs:  []int{1, 2, 3, 4, 5, 6},
			TrackID:   7,
			GripperID: 8,
			Tolerance: 8,
		},
	}
}
