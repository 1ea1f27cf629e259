package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFile     = "config.yaml"

	cfgKeyDatabase     = "database"
	cfgKeyFetchTimeout = "fetch.timeout"
	cfgKeyFetchMaxBody = "fetch.max_body_bytes"
	cfgKeyFetchDisable = "fetch.disabled"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# linkpad configuration

# Database file path (optional; overridable by --db flag)
# database:

fetch:
  # Per-request timeout for page downloads
  timeout: 5s
  # How much of a response body to read
  max_body_bytes: 4194304
  # Set true to stop linkpad from going to the network entirely
  disabled: false
`

// Config holds the loaded settings after precedence resolution.
type Config struct {
	DatabasePath string
	Fetch        FetchConfig
}

// FetchConfig tunes the capture pipeline's network behavior.
type FetchConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	Disabled     bool
}

// Load reads config.yaml from the resolved config directory, creating
// the directory and a default file on first run. A missing config.yaml
// is not an error. dbFlag, when non-empty, overrides the configured
// database path.
func Load(configDirFlag, dbFlag string) (*Config, error) {
	configDir, err := ResolveConfigDir(configDirFlag)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyFetchTimeout, "5s")
	v.SetDefault(cfgKeyFetchMaxBody, int64(4<<20))
	v.SetDefault(cfgKeyFetchDisable, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dbPath, err := ResolveDatabasePath(dbFlag, v.GetString(cfgKeyDatabase))
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	return &Config{
		DatabasePath: dbPath,
		Fetch: FetchConfig{
			Timeout:      v.GetDuration(cfgKeyFetchTimeout),
			MaxBodyBytes: v.GetInt64(cfgKeyFetchMaxBody),
			Disabled:     v.GetBool(cfgKeyFetchDisable),
		},
	}, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
