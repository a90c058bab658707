package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort              = "8000"
	defaultLogLevel          = "info"
	defaultLocale            = "en"
	defaultDocsURL           = "https://github.com/sCOSTAkg"
	defaultMessageTTL        = 5 * time.Second
	defaultSessionIdleTimout = 30 * time.Minute
)

type Config struct {
	config *viper.Viper
}

// Load reads config/config.<env>.yaml when it can be found and layers environment
// variables and, if given, command line flags on top of it.
func Load(env string, flags *pflag.FlagSet) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	if flags != nil {
		for key, flagName := range flagBindings {
			flag := flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := viperConfig.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

// flagBindings maps viper keys to the CLI flags that override them.
var flagBindings = map[string]string{
	"PORT":         "port",
	"STORAGE_PATH": "storage-path",
	"LOG_LEVEL":    "log-level",
	"UI_LOCALE":    "locale",
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}
	if len(port) == 0 {
		port = defaultPort
	}

	return port
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.config.GetString("KVDB_PATH")
	if len(kvdbPath) == 0 {
		kvdbPath = c.config.GetString("database.kvdb_path")
	}

	return kvdbPath
}

func (c *Config) GetIndexPath() string {
	indexPath := c.config.GetString("INDEX_PATH")
	if len(indexPath) == 0 {
		indexPath = c.config.GetString("database.index_path")
	}

	return indexPath
}

func (c *Config) GetStoragePath() string {
	storagePath := c.config.GetString("STORAGE_PATH")
	if len(storagePath) == 0 {
		storagePath = c.config.GetString("database.storage_path")
	}

	return storagePath
}

// GetSeedCatalog reports whether an empty store is seeded with the sample documents.
func (c *Config) GetSeedCatalog() bool {
	if c.config.IsSet("SEED_CATALOG") {
		return c.config.GetBool("SEED_CATALOG")
	}
	if c.config.IsSet("database.seed_catalog") {
		return c.config.GetBool("database.seed_catalog")
	}

	return true
}

func (c *Config) GetLogLevel() string {
	level := c.config.GetString("LOG_LEVEL")
	if len(level) == 0 {
		level = c.config.GetString("log.level")
	}
	if len(level) == 0 {
		level = defaultLogLevel
	}

	return level
}

func (c *Config) GetLocale() string {
	locale := c.config.GetString("UI_LOCALE")
	if len(locale) == 0 {
		locale = c.config.GetString("ui.locale")
	}
	if len(locale) == 0 {
		locale = defaultLocale
	}

	return locale
}

func (c *Config) GetDocsURL() string {
	docsURL := c.config.GetString("DOCS_URL")
	if len(docsURL) == 0 {
		docsURL = c.config.GetString("ui.docs_url")
	}
	if len(docsURL) == 0 {
		docsURL = defaultDocsURL
	}

	return docsURL
}

func (c *Config) GetMessageTTL() time.Duration {
	return c.getDuration("MESSAGE_TTL", "ui.message_ttl", defaultMessageTTL)
}

func (c *Config) GetSessionIdleTimeout() time.Duration {
	return c.getDuration("SESSION_IDLE_TIMEOUT", "session.idle_timeout", defaultSessionIdleTimout)
}

func (c *Config) getDuration(envKey string, fileKey string, fallback time.Duration) time.Duration {
	duration := c.config.GetDuration(envKey)
	if duration <= 0 {
		duration = c.config.GetDuration(fileKey)
	}
	if duration <= 0 {
		duration = fallback
	}

	return duration
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
