package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

const defaultTopN = 5

type Config struct {
	Datasets  Datasets  `yaml:"datasets"`
	Recommend Recommend `yaml:"recommend"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`

	// dir is the directory of the loaded file; relative dataset paths resolve against it.
	dir string
}

type Datasets struct {
	Books  string `yaml:"books"`
	Movies string `yaml:"movies"`
}

type Recommend struct {
	TopN int `yaml:"top_n"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for picklist.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "picklist")
}

// DataDir returns the XDG data directory for picklist.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "picklist")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/picklist/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'picklist init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		cfg.dir = abs
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Datasets: Datasets{
			Books:  "books.csv",
			Movies: "imdb_top_1000.csv",
		},
		Recommend: Recommend{TopN: defaultTopN},
		Server:    Server{Port: 8000},
		Logging:   Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Recommend.TopN <= 0 {
		return nil, fmt.Errorf("recommend.top_n must be positive, got %d", cfg.Recommend.TopN)
	}

	return cfg, nil
}

// BooksPath returns the books dataset path, resolved against the config file directory.
func (c *Config) BooksPath() string {
	return c.resolve(c.Datasets.Books)
}

// MoviesPath returns the movies dataset path, resolved against the config file directory.
func (c *Config) MoviesPath() string {
	return c.resolve(c.Datasets.Movies)
}

func (c *Config) resolve(p string) string {
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// Debug reports whether the configured log level asks for verbose output.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.Logging.Level, "DEBUG")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
