package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// EnvAPIKey is the environment override for the API key. Precedence is
// CLI flag > environment > config file.
const EnvAPIKey = "WEBAMON_API_KEY"

const (
	configDirName   = ".webamon"
	configFileName  = "config.json"
	localConfigName = ".webamon.json"
)

// Config holds the persisted CLI settings.
type Config struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

func (c *Config) GetAPIKey() string {
	if c == nil {
		return ""
	}
	return c.APIKey
}

func (c *Config) GetVerbose() bool {
	if c == nil {
		return false
	}
	return c.Verbose
}

// ResolveAPIKey applies the key precedence: an explicit flag value wins,
// then the environment, then the persisted config.
func (c *Config) ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	return c.GetAPIKey()
}

// DefaultPath returns the user-level config location (~/.webamon/config.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Parse decodes a config from r.
func Parse(r io.Reader) (*Config, error) {
	config := &Config{}
	if err := json.NewDecoder(r).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// ParseFile decodes a config from a file on disk.
func ParseFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Load reads the configuration. With an explicit path, that file is used.
// Otherwise the user-level config is tried first, then a project-local
// .webamon.json in the working directory. A missing or corrupt file is not
// fatal; the zero config applies.
func Load(path string) *Config {
	candidates := []string{}
	if path != "" {
		candidates = append(candidates, path)
	} else {
		if def, err := DefaultPath(); err == nil {
			candidates = append(candidates, def)
		}
		candidates = append(candidates, localConfigName)
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		config, err := ParseFile(candidate)
		if err != nil {
			log.Warnf("ignoring unreadable config %s: %v", candidate, err)
			continue
		}
		log.Debugf("loaded config from %s", candidate)
		return config
	}

	return &Config{}
}

// Save persists the configuration. An empty path means the user-level
// default; parent directories are created as needed. Returns the path
// written.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		def, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = def
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
