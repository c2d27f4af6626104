// Arm configuration parsed from the [arm], [api] and [log] sections.
package config

import (
	"armkin-go/pkg/kinematics"
)

// ArmConfig is the parsed application configuration. Every option has a
// default; a missing file section simply keeps the defaults.
type ArmConfig struct {
	// Limits is the solver geometry from the [arm] section.
	Limits kinematics.Limits

	// ListenAddr is the API listen address from the [api] section.
	// Empty means the API server is not started.
	ListenAddr string

	// LogLevel is the log level name from the [log] section.
	LogLevel string
}

// DefaultArmConfig returns the configuration used when no file is given.
func DefaultArmConfig() ArmConfig {
	return ArmConfig{
		Limits:   kinematics.DefaultLimits(),
		LogLevel: "info",
	}
}

// ParseArmConfig loads an arm configuration file.
func ParseArmConfig(path string) (ArmConfig, error) {
	file, err := Load(path)
	if err != nil {
		return ArmConfig{}, err
	}
	return armConfigFromFile(file)
}

// ParseArmConfigString parses an arm configuration from a string.
func ParseArmConfigString(data string) (ArmConfig, error) {
	file, err := LoadString(data)
	if err != nil {
		return ArmConfig{}, err
	}
	return armConfigFromFile(file)
}

func armConfigFromFile(file *File) (ArmConfig, error) {
	cfg := DefaultArmConfig()

	if file.HasSection("arm") {
		arm, err := file.GetSection("arm")
		if err != nil {
			return ArmConfig{}, err
		}
		options := []struct {
			name string
			dst  *float64
		}{
			{"theta_min", &cfg.Limits.Theta[0]},
			{"theta_max", &cfg.Limits.Theta[1]},
			{"azimuth_min", &cfg.Limits.Azimuth[0]},
			{"azimuth_max", &cfg.Limits.Azimuth[1]},
			{"extension_min", &cfg.Limits.Extension[0]},
			{"extension_max", &cfg.Limits.Extension[1]},
			{"length_offset", &cfg.Limits.LengthOffset},
		}
		for _, opt := range options {
			v, err := arm.GetFloat(opt.name, *opt.dst)
			if err != nil {
				return ArmConfig{}, err
			}
			*opt.dst = v
		}
	}

	if file.HasSection("api") {
		api, err := file.GetSection("api")
		if err != nil {
			return ArmConfig{}, err
		}
		addr, err := api.Get("listen", "")
		if err != nil {
			return ArmConfig{}, err
		}
		cfg.ListenAddr = addr
	}

	if file.HasSection("log") {
		logSec, err := file.GetSection("log")
		if err != nil {
			return ArmConfig{}, err
		}
		level, err := logSec.Get("level", cfg.LogLevel)
		if err != nil {
			return ArmConfig{}, err
		}
		cfg.LogLevel = level
	}

	// Limit ordering and offset validity are checked by the solver
	// constructor, so a malformed [arm] section fails here rather than
	// at first solve.
	if _, err := kinematics.NewSolver(cfg.Limits); err != nil {
		return ArmConfig{}, err
	}

	return cfg, nil
}
