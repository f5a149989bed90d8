// Package config loads runner/dashboard configuration from a YAML file: a
// viper-backed reader whose result is re-marshaled through yaml.v3 into a
// concrete typed struct, so a partially specified file still resolves
// sensible per-field defaults.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gridcore/constants"
)

// Engine holds the construction parameters for one simulation instance.
type Engine struct {
	SpawnInterval int   `yaml:"spawninterval"`
	Seed          int64 `yaml:"seed"`
}

// Dashboard holds the live-view server's bind address.
type Dashboard struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Runner holds the parallel-instance pool's sizing.
type Runner struct {
	NumWorkers int `yaml:"numworkers"`
}

// Config is the full, typed runtime configuration.
type Config struct {
	Engine    Engine    `yaml:"engine"`
	Dashboard Dashboard `yaml:"dashboard"`
	Runner    Runner    `yaml:"runner"`
}

// outerConfig lets viper unmarshal the top-level document into a generic
// map first, which is then re-marshaled and unmarshaled into the concrete
// Config so the values from Default survive an incomplete file. Viper
// lower-cases every key, which is why the yaml tags above are lower-case.
type outerConfig struct {
	Engine    map[string]interface{} `mapstructure:"engine"`
	Dashboard map[string]interface{} `mapstructure:"dashboard"`
	Runner    map[string]interface{} `mapstructure:"runner"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: Engine{
			SpawnInterval: constants.DefaultSpawnInterval,
			Seed:          0,
		},
		Dashboard: Dashboard{
			Host: "",
			Port: "8080",
		},
		Runner: Runner{
			NumWorkers: 1,
		},
	}
}

// Load reads a YAML config file at path, overlaying it onto Default.
func Load(path string) (*Config, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	var outer outerConfig
	if err := vp.Unmarshal(&outer); err != nil {
		return nil, err
	}

	if err := overlay(&cfg.Engine, outer.Engine); err != nil {
		return nil, err
	}
	if err := overlay(&cfg.Dashboard, outer.Dashboard); err != nil {
		return nil, err
	}
	if err := overlay(&cfg.Runner, outer.Runner); err != nil {
		return nil, err
	}

	return cfg, nil
}

// overlay re-marshals a generic section back to YAML and unmarshals it onto
// an existing typed value, so unspecified fields keep their current
// (default) value instead of being zeroed.
func overlay(dst interface{}, section map[string]interface{}) error {
	if section == nil {
		return nil
	}
	raw, err := yaml.Marshal(section)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, dst)
}
