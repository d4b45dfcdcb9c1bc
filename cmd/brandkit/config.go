package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/rawfile"
	"github.com/gnana997/brandkit/pkg/sampler"
	"github.com/gnana997/brandkit/pkg/server"
	"github.com/gnana997/brandkit/pkg/service"
	"github.com/gnana997/brandkit/pkg/util"
)

// defaultConfigPath is read when --config is not given.
const defaultConfigPath = ".brandkit/config.yaml"

// ProjectConfig holds the contents of .brandkit/config.yaml. Every section
// starts from its defaults, so a file only lists what it changes.
type ProjectConfig struct {
	Log     util.LoggerConfig   `yaml:"log"`
	Server  server.Config       `yaml:"server"`
	Sampler sampler.Config      `yaml:"sampler"`
	Cache   service.CacheConfig `yaml:"cache"`
	Policy  kit.Policy          `yaml:"policy"`
	MCP     MCPConfig           `yaml:"mcp"`
	Watch   WatchConfig         `yaml:"watch"`
}

// MCPConfig configures the stdio MCP server.
type MCPConfig struct {
	// LogPath receives one JSON line per tool call. Empty disables it.
	LogPath string `yaml:"log_path"`
}

// WatchConfig configures `brandkit watch` and `brandkit assemble`.
type WatchConfig struct {
	Debounce time.Duration          `yaml:"debounce"`
	Workers  int                    `yaml:"workers"`
	Files    rawfile.DiscoverConfig `yaml:"files"`
}

// defaultProjectConfig returns the configuration used when no file exists.
func defaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Log:     util.DefaultLoggerConfig(),
		Server:  server.DefaultConfig(),
		Sampler: sampler.DefaultConfig(),
		Cache:   service.DefaultCacheConfig(),
		Policy:  kit.DefaultPolicy(),
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
			Files:    rawfile.DefaultDiscoverConfig(),
		},
	}
}

// loadProjectConfig reads the config file at path over the defaults. A
// missing file is only an error when the path was given explicitly.
func loadProjectConfig(path string, explicit bool) (*ProjectConfig, error) {
	cfg := defaultProjectConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *ProjectConfig) validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Files.Validate(); err != nil {
		return fmt.Errorf("watch.files: %w", err)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative")
	}
	if c.Sampler.Timeout < 0 {
		return fmt.Errorf("sampler.timeout must not be negative")
	}
	return nil
}

// resolveListenAddr applies the fallback chain for `serve`:
//  1. Explicit --listen flag
//  2. PORT environment variable
//  3. server.addr from the config file (or its default)
func resolveListenAddr(flagValue string, flagSet bool, cfg *ProjectConfig) string {
	if flagSet && flagValue != "" {
		return flagValue
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return cfg.Server.Addr
}
