package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/liliang-cn/datacron/pkg/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// FileName is the configuration file looked up in the working
	// directory and in Home.
	FileName = "datacron.toml"
	// EnvPrefix prefixes every environment override, e.g. DATACRON_SERVER_PORT.
	EnvPrefix = "DATACRON"
)

type Config struct {
	Home    string        `mapstructure:"home" toml:"home,omitempty"`
	Server  ServerConfig  `mapstructure:"server" toml:"server"`
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	Cron    CronConfig    `mapstructure:"cron" toml:"cron"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port" toml:"port"`
	Host        string   `mapstructure:"host" toml:"host"`
	CORSOrigins []string `mapstructure:"cors_origins" toml:"cors_origins"`
}

type StorageConfig struct {
	// DBPath defaults to <home>/data/datacron.db.
	DBPath string `mapstructure:"db_path" toml:"db_path,omitempty"`
}

type CronConfig struct {
	Locale       string `mapstructure:"locale" toml:"locale"`
	PreviewCount int    `mapstructure:"preview_count" toml:"preview_count"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	JSON  bool   `mapstructure:"json" toml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        7130,
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Cron: CronConfig{
			Locale:       string(cronexpr.DefaultLocale),
			PreviewCount: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var envKeys = []string{
	"home",
	"server.port",
	"server.host",
	"storage.db_path",
	"cron.locale",
	"cron.preview_count",
	"log.level",
	"log.json",
}

// Load reads configPath, or the first of ./datacron.toml and
// <home>/datacron.toml when configPath is empty. A missing default file is
// not an error; a missing explicit file is.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	home := os.Getenv(EnvPrefix + "_HOME")
	if home == "" {
		home = "~/.datacron"
	}
	home = expandHomePath(home)

	if configPath != "" {
		absPath, _ := filepath.Abs(configPath)
		v.SetConfigFile(absPath)
		home = filepath.Dir(absPath)
	} else if _, err := os.Stat(FileName); err == nil {
		abs, _ := filepath.Abs(FileName)
		v.SetConfigFile(abs)
		home = filepath.Dir(abs)
	} else {
		v.SetConfigFile(filepath.Join(home, FileName))
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		log.Debug("no config file found, using defaults", "path", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Home == "" {
		cfg.Home = home
	}
	cfg.Home = expandHomePath(cfg.Home)
	cfg.resolveDatabasePath()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("storage.db_path", "")
	v.SetDefault("cron.locale", d.Cron.Locale)
	v.SetDefault("cron.preview_count", d.Cron.PreviewCount)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			log.Warn("failed to bind env var", "key", key, "env", env, "error", err)
		}
	}
}

// DataDir returns the path to the data directory
func (c *Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if _, err := cronexpr.ParseLocale(c.Cron.Locale); err != nil {
		return err
	}

	if c.Cron.PreviewCount <= 0 || c.Cron.PreviewCount > 100 {
		return fmt.Errorf("preview_count must be between 1 and 100: %d", c.Cron.PreviewCount)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// Catalog returns the cron catalog for the configured locale.
func (c *Config) Catalog() (*cronexpr.Catalog, error) {
	locale, err := cronexpr.ParseLocale(c.Cron.Locale)
	if err != nil {
		return nil, err
	}
	return cronexpr.NewCatalog(locale)
}

// TOML renders c as a configuration file.
func (c *Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	header := "# datacron configuration\n# Every key can be overridden with DATACRON_<SECTION>_<KEY>.\n\n"
	return append([]byte(header), out...), nil
}

func (c *Config) resolveDatabasePath() {
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(c.DataDir(), "datacron.db")
	}
	c.Storage.DBPath = expandHomePath(c.Storage.DBPath)
}

func expandHomePath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
