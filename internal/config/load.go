package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/pkg/encoding"
)

// Environment overrides applied after the YAML document.
const (
	EnvLogLevel         = "ARENA_LOG_LEVEL"
	EnvSeed             = "ARENA_SEED"
	EnvTelemetryAddr    = "ARENA_TELEMETRY_ADDR"
	EnvTelemetryEnabled = "ARENA_TELEMETRY_ENABLED"
)

// Load reads path over Default, applies .env and process overrides, and
// validates the result. An empty path yields the defaults.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "open config %s", path)
		}
		defer f.Close()
		if err = Decode(f, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "decode config %s", path)
		}
	}

	if err := loadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Decode overlays one YAML document onto cfg. Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// loadEnvFiles populates the process environment from .env files without
// overriding variables that are already set. Missing files are skipped.
func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, name := range files {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.Wrapf(err, "load env file %s", name)
		}
	}
	return nil
}

// ApplyEnv applies the ARENA_* overrides found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvSeed)
		}
		cfg.Session.Seed = seed
	}
	if v, ok := lookup(EnvTelemetryAddr); ok && v != "" {
		cfg.Telemetry.Addr = v
	}
	if v, ok := lookup(EnvTelemetryEnabled); ok && v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvTelemetryEnabled)
		}
		cfg.Telemetry.Enabled = on
	}
	return nil
}

// Logger builds the session logger from the log section.
func (c LogConfig) Logger() (*log.Logger, error) {
	return log.New(log.Config{Level: log.ParseLevel(c.Level), Development: c.Development})
}

func (c *Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return errors.Wrap(err, "session")
	}
	if err := c.Telemetry.Validate(); err != nil {
		return errors.Wrap(err, "telemetry")
	}
	if err := c.Arena.Validate(); err != nil {
		return errors.Wrap(err, "arena")
	}
	if c.Rifle.Prototype == "" {
		return errors.New("rifle.prototype is required")
	}
	if c.Sidearm.Enabled {
		switch strings.ToLower(c.Sidearm.Mode) {
		case "hitscan":
		case "projectile":
			if c.Sidearm.Prototype == "" {
				return errors.New("sidearm.prototype is required in projectile mode")
			}
		default:
			return errors.Errorf("sidearm.mode %q is not one of projectile, hitscan", c.Sidearm.Mode)
		}
	}
	seen := make(map[string]struct{}, len(c.Archetypes))
	for i := range c.Archetypes {
		if err := c.Archetypes[i].Validate(); err != nil {
			return errors.Wrapf(err, "archetypes[%d]", i)
		}
		if _, dup := seen[c.Archetypes[i].ID]; dup {
			return errors.Errorf("archetype %q is defined twice", c.Archetypes[i].ID)
		}
		seen[c.Archetypes[i].ID] = struct{}{}
	}
	return nil
}

func (c *SessionConfig) Validate() error {
	if c.TickRate <= 0 {
		return errors.New("tick_rate must be positive")
	}
	if c.FixedStep <= 0 {
		return errors.New("fixed_step must be positive")
	}
	if c.MaxSteps < 1 {
		return errors.New("max_fixed_steps must be at least 1")
	}
	if c.Duration < 0 {
		return errors.New("duration must not be negative")
	}
	if c.PlayerID == "" {
		return errors.New("player_id is required")
	}
	return nil
}

func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return errors.New("addr is required when enabled")
	}
	if c.Buffer < 1 {
		return errors.New("buffer must be at least 1")
	}
	if _, err := encoding.ByName(c.Format); err != nil {
		return errors.Wrap(err, "format")
	}
	return nil
}

func (c *ArenaConfig) Validate() error {
	if c.HalfExtent <= 0 {
		return errors.New("half_extent must be positive")
	}
	if c.PlayerHP < 1 {
		return errors.New("player_hp must be at least 1")
	}
	if c.PlayerRadius <= 0 || c.PlayerHeight <= 0 {
		return errors.New("player_radius and player_height must be positive")
	}
	return nil
}

func (c *ArchetypeConfig) Validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Radius <= 0 {
		return errors.New("radius must be positive")
	}
	return nil
}
