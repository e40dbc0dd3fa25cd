// Package config loads the service configuration from defaults, an optional
// config file and PORTAL_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"vcePortalApi/internal/portal"
)

type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Server struct {
		Addr           string   `mapstructure:"addr"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`

	Portal struct {
		BaseURL        string `mapstructure:"base_url"`
		LoginPath      string `mapstructure:"login_path"`
		DashboardPath  string `mapstructure:"dashboard_path"`
		MarksPath      string `mapstructure:"marks_path"`
		LogoutPath     string `mapstructure:"logout_path"`
		SyllabusURL    string `mapstructure:"syllabus_url"`
		CalendarURL    string `mapstructure:"calendar_url"`
		UserAgent      string `mapstructure:"user_agent"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"portal"`

	Cache struct {
		Path                string `mapstructure:"path"`
		DashboardTTLSeconds int    `mapstructure:"dashboard_ttl_seconds"`
		LoginTTLSeconds     int    `mapstructure:"login_ttl_seconds"`
		PurgeIntervalSecs   int    `mapstructure:"purge_interval_seconds"`
	} `mapstructure:"cache"`
}

// LoadEnv loads a .env file from the working directory or its parent, if
// one exists.
func LoadEnv() {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
	}
}

// Load reads the configuration. configFile overrides the default search
// locations when set.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.vceportal")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("portal.base_url", "https://erp.vce.ac.in")
	v.SetDefault("portal.login_path", "/StudentPortal/Login.aspx")
	v.SetDefault("portal.dashboard_path", "/StudentPortal/Dashboard.aspx")
	v.SetDefault("portal.marks_path", "/StudentPortal/Marks.aspx")
	v.SetDefault("portal.logout_path", "/StudentPortal/Logout.aspx")
	v.SetDefault("portal.syllabus_url", "")
	v.SetDefault("portal.calendar_url", "")
	v.SetDefault("portal.user_agent", portal.DefaultUserAgent)
	v.SetDefault("portal.timeout_seconds", 20)

	v.SetDefault("cache.path", "data/portal-cache.db")
	v.SetDefault("cache.dashboard_ttl_seconds", 300)
	v.SetDefault("cache.login_ttl_seconds", 600)
	v.SetDefault("cache.purge_interval_seconds", 60)
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if cfg.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url is required")
	}
	if cfg.Portal.TimeoutSeconds < 1 {
		return fmt.Errorf("portal.timeout_seconds must be positive, got: %d", cfg.Portal.TimeoutSeconds)
	}
	if cfg.Cache.DashboardTTLSeconds < 1 || cfg.Cache.LoginTTLSeconds < 1 || cfg.Cache.PurgeIntervalSecs < 1 {
		return fmt.Errorf("cache ttls and purge interval must be positive")
	}
	return nil
}

// PortalConfig converts the portal section for the scraping client.
func (c *Config) PortalConfig() portal.Config {
	return portal.Config{
		BaseURL:       c.Portal.BaseURL,
		LoginPath:     c.Portal.LoginPath,
		DashboardPath: c.Portal.DashboardPath,
		MarksPath:     c.Portal.MarksPath,
		LogoutPath:    c.Portal.LogoutPath,
		SyllabusURL:   c.Portal.SyllabusURL,
		CalendarURL:   c.Portal.CalendarURL,
		UserAgent:     c.Portal.UserAgent,
		Timeout:       time.Duration(c.Portal.TimeoutSeconds) * time.Second,
	}
}

func (c *Config) DashboardTTL() time.Duration {
	return time.Duration(c.Cache.DashboardTTLSeconds) * time.Second
}

func (c *Config) LoginTTL() time.Duration {
	return time.Duration(c.Cache.LoginTTLSeconds) * time.Second
}

func (c *Config) PurgeInterval() time.Duration {
	return time.Duration(c.Cache.PurgeIntervalSecs) * time.Second
}
