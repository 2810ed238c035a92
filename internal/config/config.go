// Package config provides configuration management for assetforge
// using Viper for flexible loading from files, environment variables,
// and command-line flags.
//
// Configuration is read from .assetforge.yml in the working directory,
// with ASSETFORGE_ prefixed environment variable overrides
// (ASSETFORGE_OUT_DIR, ASSETFORGE_ENABLED, ...) and flag bindings on
// top. Values are validated before use.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Environment is the deployment signal ("development" or
	// "production"). Enabled defaults from it when not set explicitly.
	Environment string `yaml:"environment"`

	// Enabled selects pack mode (true) vs expand mode (false) for the
	// lifetime of the process.
	Enabled bool `yaml:"enabled"`

	// Reset sweeps the output directory at startup when Enabled.
	Reset bool `yaml:"reset"`

	// OutDir is where cache artifacts are written. Must sit under one
	// of the static roots so packed references stay servable.
	OutDir string `yaml:"out_dir"`

	// StaticRoots are the directories asset references resolve
	// against, in priority order.
	StaticRoots []string `yaml:"static_roots"`

	// ToolTimeout bounds each external processor invocation.
	ToolTimeout time.Duration `yaml:"tool_timeout"`

	// Tools maps a format tag (script, sass, less) to an explicit
	// executable path, overriding PATH discovery.
	Tools map[string]string `yaml:"tools"`

	// Assets declares named groups: artifact name to ordered member
	// references.
	Assets map[string][]string `yaml:"assets"`

	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Environment: "development",
		OutDir:      "public/packed",
		StaticRoots: []string{"public"},
		ToolTimeout: 30 * time.Second,
		Tools:       map[string]string{},
		Assets:      map[string][]string{},
		Server:      ServerConfig{Host: "localhost", Port: 8080},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// Load materializes the configuration from viper's merged sources and
// validates it.
func Load() (*Config, error) {
	config := Default()

	if viper.IsSet("environment") {
		config.Environment = viper.GetString("environment")
	}
	if viper.IsSet("reset") {
		config.Reset = viper.GetBool("reset")
	}
	if viper.IsSet("static_roots") {
		if roots := viper.GetStringSlice("static_roots"); len(roots) > 0 {
			config.StaticRoots = roots
		}
	}
	if viper.IsSet("out_dir") {
		config.OutDir = viper.GetString("out_dir")
	} else if len(config.StaticRoots) > 0 {
		// Artifacts default to a packed/ directory under the first
		// static root, keeping packed references servable.
		config.OutDir = filepath.Join(config.StaticRoots[0], "packed")
	}
	if viper.IsSet("tool_timeout") {
		config.ToolTimeout = viper.GetDuration("tool_timeout")
	}
	if viper.IsSet("tools") {
		config.Tools = viper.GetStringMapString("tools")
	}
	if viper.IsSet("assets") {
		config.Assets = map[string][]string{}
		for name := range viper.GetStringMap("assets") {
			config.Assets[name] = viper.GetStringSlice("assets." + name)
		}
	}
	if viper.IsSet("server.host") {
		config.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.port") {
		config.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("log.level") {
		config.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("log.format") {
		config.Log.Format = viper.GetString("log.format")
	}

	// Pack mode defaults from the deployment signal; an explicit
	// enabled flag wins either way.
	if viper.IsSet("enabled") {
		config.Enabled = viper.GetBool("enabled")
	} else {
		config.Enabled = config.Environment == "production"
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}
