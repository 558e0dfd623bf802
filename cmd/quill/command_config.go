package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"quill/internal/config"
)

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
)

type ConfigCommand struct {
	stdout  io.Writer
	stderr  io.Writer
	loadCfg func() (config.Config, error)
}

type configOutput struct {
	ConfigPath string                 `json:"config_path,omitempty" toml:"config_path,omitempty"`
	API        effectiveAPIConfig     `json:"api" toml:"api"`
	Cache      effectiveCacheConfig   `json:"cache" toml:"cache"`
	Logging    effectiveLoggingConfig `json:"logging" toml:"logging"`
	UI         effectiveUIConfig      `json:"ui" toml:"ui"`
}

type effectiveAPIConfig struct {
	BaseURL string `json:"base_url" toml:"base_url"`
}

type effectiveCacheConfig struct {
	Backend  string `json:"backend" toml:"backend"`
	TTLHours int    `json:"ttl_hours" toml:"ttl_hours"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
}

type effectiveUIConfig struct {
	Theme string `json:"theme" toml:"theme"`
}

func NewConfigCommand(stdout, stderr io.Writer, loadCfg func() (config.Config, error)) *ConfigCommand {
	return &ConfigCommand{
		stdout:  stdout,
		stderr:  stderr,
		loadCfg: loadCfg,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}

	var cfg config.Config
	if *defaults {
		cfg = config.Default()
	} else {
		cfg, err = c.loadCfg()
		if err != nil {
			return err
		}
	}

	out := configOutput{
		API:     effectiveAPIConfig{BaseURL: cfg.APIBaseURL()},
		Cache:   effectiveCacheConfig{Backend: cfg.CacheBackend(), TTLHours: int(cfg.CacheTTL().Hours())},
		Logging: effectiveLoggingConfig{Level: cfg.LogLevel()},
		UI:      effectiveUIConfig{Theme: cfg.Theme()},
	}
	if !*defaults {
		if path, err := config.ConfigPath(); err == nil {
			out.ConfigPath = path
		}
	}
	return writeConfigOutput(c.stdout, resolvedFormat, out)
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", errors.New("invalid format: must be json or toml")
	}
}
