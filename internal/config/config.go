// Package config loads overlayctl settings from defaults, an optional
// overlay.yaml and OVERLAY_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-overlay/rules"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. OVERLAY_STORE_DRIVER.
const EnvPrefix = "OVERLAY"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Environment string     `mapstructure:"environment"`
	Listen      string     `mapstructure:"listen"`
	Store       Store      `mapstructure:"store"`
	Publish     Publish    `mapstructure:"publish"`
	Base        Base       `mapstructure:"base"`
	Log         Log        `mapstructure:"log"`
	Activity    Activity   `mapstructure:"activity"`
	Migrations  Migrations `mapstructure:"migrations"`
}

type Store struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
}

// Publish selects the remote durable write. Endpoint wins over File; with
// neither set saves stay local.
type Publish struct {
	Endpoint string        `mapstructure:"endpoint"`
	File     string        `mapstructure:"file"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Base points at an on-disk base document. Empty Path uses the compiled-in one.
type Base struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// Activity names the operator recorded on audit entries.
type Activity struct {
	Actor string `mapstructure:"actor"`
}

// Migrations selects the engine that evaluates migration guards: expr, cel,
// or js (js needs the js_eval build tag).
type Migrations struct {
	Engine string `mapstructure:"engine"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Defaults applied before the config file and environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("listen", ":8080")
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "data/overlays")
	v.SetDefault("store.key", "site/content")
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.file", "data/content.json")
	v.SetDefault("publish.timeout", 10*time.Second)
	v.SetDefault("base.path", "")
	v.SetDefault("base.watch", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("activity.actor", "")
	v.SetDefault("migrations.engine", rules.EngineExpr)
}

// Load reads configuration. An explicit file must exist; without one,
// ./overlay.yaml is used when present.
func Load(file string) (Config, error) {
	return load(viper.New(), file)
}

func load(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("overlay")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", describe(file), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Migrations.Engine = strings.ToLower(strings.TrimSpace(cfg.Migrations.Engine))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func describe(file string) string {
	if file == "" {
		return "overlay.yaml"
	}
	return file
}

// Validate checks driver and engine names and required paths.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("%w: store.path is required for the %s driver", ErrInvalidConfig, c.Store.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Publish.Timeout < 0 {
		return fmt.Errorf("%w: publish.timeout must not be negative", ErrInvalidConfig)
	}
	switch c.Migrations.Engine {
	case "", rules.EngineExpr, rules.EngineCEL, rules.EngineJS:
	default:
		return fmt.Errorf("%w: unknown migrations.engine %q", ErrInvalidConfig, c.Migrations.Engine)
	}
	if c.Base.Watch && c.Base.Path == "" {
		return fmt.Errorf("%w: base.watch needs base.path", ErrInvalidConfig)
	}
	return nil
}

// StoreRef splits store.key ("domain/key") into its parts.
func (c Config) StoreRef() (domain, key string, err error) {
	domain, key, ok := strings.Cut(c.Store.Key, "/")
	if !ok || domain == "" || key == "" {
		return "", "", fmt.Errorf("%w: store.key %q must look like domain/key", ErrInvalidConfig, c.Store.Key)
	}
	return domain, key, nil
}
