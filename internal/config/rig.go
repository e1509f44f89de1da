package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Named locations referenced by the plate-pickup plan. Arm locations key
// [RigConfig.Positions]; track locations key [RigConfig.TrackPositions].
// Track location names are case-sensitive, matching the rig file.
const (
	LocationRobotHome = "robot_home"
	LocationDeckHigh  = "deck_high"
	LocationDeckLow   = "deck_low"
	TrackLocal1       = "Local_1"
)

// Component names recognized by [RigConfig.ComponentEnabled].
const (
	ComponentTrack   = "track"
	ComponentGripper = "gripper"
)

// Pose is a named arm position expressed as joint angles in degrees,
// in joint order.
type Pose struct {
	Joints []float64 `yaml:"joints"`
}

// RigConfig is the rig position table, owned by the motion controller's
// configuration and treated as read-only by the sequencer.
//
// The sequencer only validates presence of required keys before running;
// it never mutates this table.
type RigConfig struct {
	// Positions maps arm location names to joint poses.
	Positions map[string]Pose `yaml:"positions"`

	// TrackPositions maps track location names to offsets in millimetres
	// from the track origin.
	TrackPositions map[string]float64 `yaml:"track_positions"`

	// Components maps component names ("track", "gripper") to whether
	// they are enabled on this rig.
	Components map[string]bool `yaml:"components"`
}

// ComponentEnabled reports whether the named component is enabled.
// Unknown components are disabled.
func (r *RigConfig) ComponentEnabled(name string) bool {
	return r.Components[name]
}

// HasGripper reports whether the rig has a gripper configured.
func (r *RigConfig) HasGripper() bool {
	return r.ComponentEnabled(ComponentGripper)
}

// DefaultRig returns a rig table with the positions the plate-pickup plan
// requires, suitable for simulation mode out of the box. Poses were recorded
// from the bench rig; real deployments point [Config.PositionsFile] at their
// own table.
func DefaultRig() *RigConfig {
	return &RigConfig{
		Positions: map[string]Pose{
			LocationRobotHome: {Joints: []float64{0, -35.2, -21.8, 0, 57, 0}},
			LocationDeckHigh:  {Joints: []float64{24.6, -12.4, -48.1, 3.2, 60.5, 24.9}},
			LocationDeckLow:   {Joints: []float64{24.6, 4.8, -61.3, 3.2, 56.5, 24.9}},
		},
		TrackPositions: map[string]float64{
			TrackLocal1: 412.5,
		},
		Components: map[string]bool{
			ComponentTrack:   true,
			ComponentGripper: true,
		},
	}
}

// LoadRig loads a rig position table from a YAML file.
func LoadRig(path string) (*RigConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rig file: %w", err)
	}
	rig := &RigConfig{}
	if err := yaml.Unmarshal(data, rig); err != nil {
		return nil, fmt.Errorf("error parsing rig file: %w", err)
	}
	return rig, nil
}

// ResolveRig returns the rig table for this configuration: the file named
// by [Config.PositionsFile] when set, otherwise [DefaultRig].
func (c *Config) ResolveRig() (*RigConfig, error) {
	if c.PositionsFile == "" {
		return DefaultRig(), nil
	}
	return LoadRig(c.PositionsFile)
}
