package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker            string
	MQTTClientIDMonitor   string
	MQTTClientIDWeb       string
	MQTTClientIDSimulator string

	// Topics
	TopicAcclLeft  string
	TopicAcclRight string
	TopicMeasures  string

	// Signal
	SamplingFreq float64 // Hz of the raw acceleration stream
	BufferDur    float64 // seconds of raw samples retained per limb

	// Use detection (GMAC)
	ForearmAxis    int  // 0=x, 1=y, 2=z
	ElbowToForearm bool // axis points from the elbow toward the wrist
	CountsLow      float64
	CountsHigh     float64
	PitchRange     float64 // degrees

	// Averaging and scoring
	WindowDur   float64 // seconds
	WindowShift float64 // seconds
	PercentileQ float64

	// Timing
	EvalInterval int // milliseconds between measure evaluations

	// Web Server
	WebServerPort int
}

// defaults returns a Config preloaded with the values that do not have to
// appear in the file.
func defaults() *Config {
	return &Config{
		MQTTClientIDMonitor:   "ulmotion-monitor",
		MQTTClientIDWeb:       "ulmotion-web",
		MQTTClientIDSimulator: "ulmotion-simulator",
		TopicAcclLeft:         "ulmotion/accl/left",
		TopicAcclRight:        "ulmotion/accl/right",
		TopicMeasures:         "ulmotion/measures",
		SamplingFreq:          50,
		BufferDur:             60,
		ForearmAxis:           0,
		ElbowToForearm:        true,
		CountsLow:             0.05,
		CountsHigh:            0.1,
		PitchRange:            30,
		WindowDur:             5,
		WindowShift:           1,
		PercentileQ:           90,
		EvalInterval:          2000,
		WebServerPort:         8080,
	}
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_MONITOR":
		c.MQTTClientIDMonitor = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_SIMULATOR":
		c.MQTTClientIDSimulator = value

	// Topics
	case "TOPIC_ACCL_LEFT":
		c.TopicAcclLeft = value
	case "TOPIC_ACCL_RIGHT":
		c.TopicAcclRight = value
	case "TOPIC_MEASURES":
		c.TopicMeasures = value

	// Signal
	case "SAMPLING_FREQ":
		fs, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLING_FREQ %q: %w", value, err)
		}
		c.SamplingFreq = fs
	case "BUFFER_DUR":
		dur, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid BUFFER_DUR %q: %w", value, err)
		}
		c.BufferDur = dur

	// Use detection
	case "FOREARM_AXIS":
		axis, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FOREARM_AXIS %q: %w", value, err)
		}
		if axis < 0 || axis > 2 {
			return fmt.Errorf("FOREARM_AXIS must be 0-2 (0=x, 1=y, 2=z), got %d", axis)
		}
		c.ForearmAxis = axis
	case "ELBOW_TO_FOREARM":
		flag, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ELBOW_TO_FOREARM %q: %w", value, err)
		}
		c.ElbowToForearm = flag
	case "COUNTS_LOW":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid COUNTS_LOW %q: %w", value, err)
		}
		c.CountsLow = v
	case "COUNTS_HIGH":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid COUNTS_HIGH %q: %w", value, err)
		}
		c.CountsHigh = v
	case "PITCH_RANGE":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid PITCH_RANGE %q: %w", value, err)
		}
		c.PitchRange = v

	// Averaging and scoring
	case "WINDOW_DUR":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid WINDOW_DUR %q: %w", value, err)
		}
		c.WindowDur = v
	case "WINDOW_SHIFT":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid WINDOW_SHIFT %q: %w", value, err)
		}
		c.WindowShift = v
	case "PERCENTILE_Q":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid PERCENTILE_Q %q: %w", value, err)
		}
		c.PercentileQ = v

	// Timing
	case "EVAL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid EVAL_INTERVAL %q: %w", value, err)
		}
		c.EvalInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SamplingFreq <= 0 {
		return fmt.Errorf("SAMPLING_FREQ must be positive, got %g", c.SamplingFreq)
	}
	if c.BufferDur <= 0 {
		return fmt.Errorf("BUFFER_DUR must be positive, got %g", c.BufferDur)
	}
	if c.CountsLow > c.CountsHigh {
		return fmt.Errorf("COUNTS_LOW %g exceeds COUNTS_HIGH %g", c.CountsLow, c.CountsHigh)
	}
	if c.PitchRange <= 0 {
		return fmt.Errorf("PITCH_RANGE must be positive, got %g", c.PitchRange)
	}
	if c.WindowDur <= 0 || c.WindowShift <= 0 {
		return fmt.Errorf("WINDOW_DUR and WINDOW_SHIFT must be positive, got %g and %g", c.WindowDur, c.WindowShift)
	}
	if c.WindowDur > c.BufferDur {
		return fmt.Errorf("WINDOW_DUR %g exceeds BUFFER_DUR %g", c.WindowDur, c.BufferDur)
	}
	if c.PercentileQ < 0 || c.PercentileQ > 100 {
		return fmt.Errorf("PERCENTILE_Q must be between 0 and 100, got %g", c.PercentileQ)
	}
	if c.EvalInterval <= 0 {
		return fmt.Errorf("EVAL_INTERVAL must be positive, got %d", c.EvalInterval)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
