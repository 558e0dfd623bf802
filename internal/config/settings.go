package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultAPIBaseURL   = "http://127.0.0.1:8000"
	defaultCacheBackend = "bbolt"
	defaultCacheTTL     = 24 * time.Hour
	defaultTheme        = "dark"
)

type Config struct {
	API     APIConfig     `toml:"api"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type APIConfig struct {
	BaseURL string `toml:"base_url"`
}

type CacheConfig struct {
	Backend  string `toml:"backend"`
	TTLHours int    `toml:"ttl_hours"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type UIConfig struct {
	Theme string `toml:"theme"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: defaultAPIBaseURL,
		},
		Cache: CacheConfig{
			Backend: defaultCacheBackend,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: defaultTheme,
		},
	}
}

// Load reads the settings file, layering it over defaults. A missing or
// empty file yields the defaults. The QUILL_API_URL environment variable
// overrides the configured base URL.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	if url := strings.TrimSpace(os.Getenv("QUILL_API_URL")); url != "" {
		cfg.API.BaseURL = url
	}
	return cfg, nil
}

func (c Config) APIBaseURL() string {
	url := strings.TrimSpace(c.API.BaseURL)
	if url == "" {
		return defaultAPIBaseURL
	}
	return strings.TrimRight(url, "/")
}

func (c Config) CacheBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if backend == "" {
		return defaultCacheBackend
	}
	return backend
}

func (c Config) CacheTTL() time.Duration {
	if c.Cache.TTLHours <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) Theme() string {
	theme := strings.ToLower(strings.TrimSpace(c.UI.Theme))
	switch theme {
	case "light", "dark":
		return theme
	default:
		return defaultTheme
	}
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

// LoadToken resolves the bearer credential: the QUILL_TOKEN environment
// variable wins, then the token file written by `quill login`. An empty
// result means no session.
func LoadToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv("QUILL_TOKEN")); token != "" {
		return token, nil
	}
	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
