// Package config loads the emulator's INI configuration: one [general]
// section of process-wide settings and one or more [interface_*] sections,
// each describing a single emulated radio station.
package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Interface describes one emulated station as configured on disk.
type Interface struct {
	Section    string // e.g. "interface_1", kept for error messages
	Port       int
	Callsign   string
	Frequency  int // dial_hz
	Offset     int // offset_hz
	Maidenhead string
}

// Config is the fully parsed, defaulted configuration.
type Config struct {
	FragmentSize int     // bytes per transmitted fragment
	FrameTime    float64 // seconds per frame

	// DebugPort, when non-zero, enables the read-only HTTP status endpoint.
	DebugPort int

	LogLevel string
	LogFile  string

	Interfaces []Interface
}

const interfaceSectionPrefix = "interface_"

// LoadConfig reads and parses an INI file at path.
func LoadConfig(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{
		FragmentSize: 4,
		FrameTime:    0.1,
		LogLevel:     "info",
	}

	general := file.Section("general")

	if key, err := requireKey(general, "fragment_size"); err != nil {
		return nil, err
	} else if n, err := key.Int(); err != nil {
		return nil, fmt.Errorf("section [general]: key fragment_size is not numeric: %w", err)
	} else {
		cfg.FragmentSize = n
	}

	if key, err := requireKey(general, "frame_time"); err != nil {
		return nil, err
	} else if f, err := key.Float64(); err != nil {
		return nil, fmt.Errorf("section [general]: key frame_time is not numeric: %w", err)
	} else {
		cfg.FrameTime = f
	}

	if general.HasKey("debug_port") {
		if n, err := general.Key("debug_port").Int(); err != nil {
			return nil, fmt.Errorf("section [general]: key debug_port is not numeric: %w", err)
		} else {
			cfg.DebugPort = n
		}
	}
	if general.HasKey("log_level") {
		cfg.LogLevel = general.Key("log_level").String()
	}
	if general.HasKey("log_file") {
		cfg.LogFile = general.Key("log_file").String()
	}

	var names []string
	for _, sec := range file.Sections() {
		if strings.HasPrefix(sec.Name(), interfaceSectionPrefix) {
			names = append(names, sec.Name())
		}
	}
	sort.Strings(names)

	seenPorts := make(map[int]string)
	for _, name := range names {
		sec := file.Section(name)

		ifc := Interface{Section: name}

		portKey, err := requireKey(sec, "port")
		if err != nil {
			return nil, err
		}
		ifc.Port, err = portKey.Int()
		if err != nil {
			return nil, fmt.Errorf("section [%s]: key port is not numeric: %w", name, err)
		}
		if ifc.Port < 1 || ifc.Port > 65535 {
			return nil, fmt.Errorf("section [%s]: key port must be in 1..65535, got %d", name, ifc.Port)
		}
		if other, dup := seenPorts[ifc.Port]; dup {
			return nil, fmt.Errorf("section [%s]: port %d is already used by section [%s]", name, ifc.Port, other)
		}
		seenPorts[ifc.Port] = name

		callKey, err := requireKey(sec, "callsign")
		if err != nil {
			return nil, err
		}
		ifc.Callsign = callKey.String()
		if ifc.Callsign == "" {
			return nil, fmt.Errorf("section [%s]: key callsign must not be empty", name)
		}

		freqKey, err := requireKey(sec, "frequency")
		if err != nil {
			return nil, err
		}
		ifc.Frequency, err = freqKey.Int()
		if err != nil {
			return nil, fmt.Errorf("section [%s]: key frequency is not numeric: %w", name, err)
		}

		offKey, err := requireKey(sec, "offset")
		if err != nil {
			return nil, err
		}
		ifc.Offset, err = offKey.Int()
		if err != nil {
			return nil, fmt.Errorf("section [%s]: key offset is not numeric: %w", name, err)
		}

		gridKey, err := requireKey(sec, "maidenhead")
		if err != nil {
			return nil, err
		}
		ifc.Maidenhead = gridKey.String()

		cfg.Interfaces = append(cfg.Interfaces, ifc)
	}

	return cfg, nil
}

// Validate checks cross-field invariants that LoadConfig alone can't.
func (c *Config) Validate() error {
	if c.FragmentSize <= 0 {
		return fmt.Errorf("general.fragment_size must be positive, got %d", c.FragmentSize)
	}
	if c.FrameTime <= 0 {
		return fmt.Errorf("general.frame_time must be positive, got %f", c.FrameTime)
	}
	if len(c.Interfaces) == 0 {
		return fmt.Errorf("at least one [interface_*] section is required")
	}
	return nil
}

func requireKey(sec *ini.Section, name string) (*ini.Key, error) {
	if !sec.HasKey(name) {
		return nil, fmt.Errorf("section [%s]: missing required key %q", sec.Name(), name)
	}
	return sec.Key(name), nil
}
