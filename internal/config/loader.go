package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles Viper-based configuration loading.
//
// Create instances with [NewLoader]. The zero value is not usable.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] with a fresh Viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load loads configuration using the standard resolution order.
//
// Defaults come from [DefaultConfig]. If PLATEPICKUP_CONFIG_PATH is set, that
// file must exist and parse; otherwise ./platepickup.yaml is read when
// present. Environment variables with the PLATEPICKUP_ prefix override file
// values (e.g. PLATEPICKUP_SERIAL_PORT).
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()
	l.bindEnv()

	if path := os.Getenv("PLATEPICKUP_CONFIG_PATH"); path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		return l.unmarshal()
	}

	l.v.SetConfigName("platepickup")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}
	return l.unmarshal()
}

// LoadFromFile loads configuration from a specific file, merged over
// defaults. Unlike [Loader.Load], a missing file is an error.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.setDefaults()
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

// MustLoad loads configuration with [Loader.Load] and panics on error.
//
// Intended for application startup where a broken config file should stop
// the process before any hardware is touched.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// setDefaults registers every leaf of [DefaultConfig] with Viper so config
// files can override individual keys without clobbering whole sections.
func (l *Loader) setDefaults() {
	def := DefaultConfig()
	for name, info := range def.Speeds {
		l.v.SetDefault("speeds."+name+".joint_speed", info.Joint)
		l.v.SetDefault("speeds."+name+".track_speed", info.Track)
		l.v.SetDefault("speeds."+name+".description", info.Description)
	}
	l.v.SetDefault("step_pause", def.StepPause)
	l.v.SetDefault("positions_file", def.PositionsFile)
	l.v.SetDefault("serial.port", def.Serial.Port)
	l.v.SetDefault("serial.baud_rate", def.Serial.BaudRate)
	l.v.SetDefault("serial.joint_ids", def.Serial.JointIDs)
	l.v.SetDefault("serial.track_id", def.Serial.TrackID)
	l.v.SetDefault("serial.gripper_id", def.Serial.GripperID)
	l.v.SetDefault("serial.tolerance", def.Serial.Tolerance)
}

func (l *Loader) bindEnv() {
	l.v.SetEnvPrefix("PLATEPICKUP")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	l.v.BindEnv("serial.port", "PLATEPICKUP_SERIAL_PORT")
	l.v.BindEnv("positions_file", "PLATEPICKUP_POSITIONS_FILE")
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}
