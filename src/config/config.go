package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	NumCars           = 3
	MaxPassengers     = 5
	StartFloor        = 1
	TravelDuration    = 500 * time.Millisecond
	DoorOpenDuration  = 1500 * time.Millisecond
	DoorCloseDuration = 500 * time.Millisecond
	IdleWait          = 500 * time.Millisecond
	QueuePollInterval = 100 * time.Millisecond
	ShutdownGrace     = 3 * time.Second
	LogLevel          = "info"

	EnvPrefix = "ELEVFLEET_"
)

type Config struct {
	NumCars           int           `yaml:"num_cars"`
	MaxPassengers     int           `yaml:"max_passengers"`
	StartFloor        int           `yaml:"start_floor"`
	TravelDuration    time.Duration `yaml:"travel_duration"`
	DoorOpenDuration  time.Duration `yaml:"door_open_duration"`
	DoorCloseDuration time.Duration `yaml:"door_close_duration"`
	IdleWait          time.Duration `yaml:"idle_wait"`
	QueuePollInterval time.Duration `yaml:"queue_poll_interval"`
	ShutdownGrace     time.Duration `yaml:"shutdown_grace"`
	LogLevel          string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		NumCars:           NumCars,
		MaxPassengers:     MaxPassengers,
		StartFloor:        StartFloor,
		TravelDuration:    TravelDuration,
		DoorOpenDuration:  DoorOpenDuration,
		DoorCloseDuration: DoorCloseDuration,
		IdleWait:          IdleWait,
		QueuePollInterval: QueuePollInterval,
		ShutdownGrace:     ShutdownGrace,
		LogLevel:          LogLevel,
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when
// path is empty), the .env file at envPath (skipped when missing) and finally
// ELEVFLEET_* environment variables.
func Load(path, envPath string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config %s: %w", path, err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if envPath != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (cfg *Config) applyEnv() error {
	ints := map[string]*int{
		"NUM_CARS":       &cfg.NumCars,
		"MAX_PASSENGERS": &cfg.MaxPassengers,
		"START_FLOOR":    &cfg.StartFloor,
	}
	for key, field := range ints {
		val, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*field = n
	}

	durations := map[string]*time.Duration{
		"TRAVEL_DURATION":     &cfg.TravelDuration,
		"DOOR_OPEN_DURATION":  &cfg.DoorOpenDuration,
		"DOOR_CLOSE_DURATION": &cfg.DoorCloseDuration,
		"IDLE_WAIT":           &cfg.IdleWait,
		"QUEUE_POLL_INTERVAL": &cfg.QueuePollInterval,
		"SHUTDOWN_GRACE":      &cfg.ShutdownGrace,
	}
	for key, field := range durations {
		val, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*field = d
	}

	if val, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}
	return nil
}

func (cfg Config) Validate() error {
	var errs []error
	if cfg.NumCars <= 0 {
		errs = append(errs, fmt.Errorf("num_cars must be positive, got %d", cfg.NumCars))
	}
	if cfg.MaxPassengers <= 0 {
		errs = append(errs, fmt.Errorf("max_passengers must be positive, got %d", cfg.MaxPassengers))
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"travel_duration", cfg.TravelDuration},
		{"door_open_duration", cfg.DoorOpenDuration},
		{"door_close_duration", cfg.DoorCloseDuration},
		{"idle_wait", cfg.IdleWait},
		{"queue_poll_interval", cfg.QueuePollInterval},
		{"shutdown_grace", cfg.ShutdownGrace},
	}
	for _, d := range durations {
		if d.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", d.name, d.d))
		}
	}
	return errors.Join(errs...)
}
