package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"pricetrack/internal/logging"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Alerting AlertingConfig `mapstructure:"alerting"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig selects where the catalog blob lives.
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"`
	Key      string         `mapstructure:"key"`
	File     FileConfig     `mapstructure:"file"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
}

// FileConfig places blobs as <dir>/<key>.json.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig covers the Redis blob backend.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Table           string        `mapstructure:"table"`
}

// AlertingConfig defines alert thresholds and routing.
type AlertingConfig struct {
	ChangeThresholdPct      float64        `mapstructure:"change_threshold_pct"`
	OpportunityThresholdPct float64        `mapstructure:"opportunity_threshold_pct"`
	Telegram                TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram channel.
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// FeedsConfig governs supplier price-feed polling.
type FeedsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"`
	Align        bool          `mapstructure:"align"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	Sources      []FeedSource  `mapstructure:"sources"`
}

// FeedSource is one supplier feed endpoint.
type FeedSource struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// ExportConfig sets report export behaviour.
type ExportConfig struct {
	Timeframe string `mapstructure:"timeframe"`
	CSVPath   string `mapstructure:"csv_path"`
	PNGPath   string `mapstructure:"png_path"`
	Schedule  string `mapstructure:"schedule"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pricetrack")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.key", "priceTrackData")
	v.SetDefault("storage.file.dir", "data")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", "5s")
	v.SetDefault("storage.database.max_open_conns", 5)
	v.SetDefault("storage.database.max_idle_conns", 1)
	v.SetDefault("storage.database.conn_max_lifetime", "30m")
	v.SetDefault("storage.database.table", "kv_blobs")

	v.SetDefault("alerting.change_threshold_pct", 2.0)
	v.SetDefault("alerting.opportunity_threshold_pct", 5.0)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.timeout", "10s")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("feeds.enabled", false)
	v.SetDefault("feeds.interval", "1h")
	v.SetDefault("feeds.align", true)
	v.SetDefault("feeds.startup_delay", "0s")
	v.SetDefault("feeds.timeout", "15s")
	v.SetDefault("feeds.user_agent", "pricetrack/1.0")

	v.SetDefault("export.timeframe", "month")
	v.SetDefault("export.csv_path", "exports/price-track-pro-export.csv")
	v.SetDefault("export.png_path", "exports/price-trends.png")
	v.SetDefault("export.schedule", "")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Storage.File.Dir == "" {
			return fmt.Errorf("storage.file.dir must be set for the file backend")
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr must be set for the redis backend")
		}
	case BackendPostgres:
		if c.Storage.Database.DSN == "" {
			return fmt.Errorf("storage.database.dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend)
	}

	if c.Alerting.ChangeThresholdPct < 0 {
		return fmt.Errorf("alerting.change_threshold_pct cannot be negative")
	}
	if c.Alerting.OpportunityThresholdPct < 0 {
		return fmt.Errorf("alerting.opportunity_threshold_pct cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be set")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be set")
		}
	}

	if c.Feeds.Enabled {
		if c.Feeds.Interval <= 0 {
			return fmt.Errorf("feeds.interval must be greater than zero")
		}
		for i, src := range c.Feeds.Sources {
			if src.Name == "" || src.URL == "" {
				return fmt.Errorf("feeds.sources[%d] needs both name and url", i)
			}
		}
	}

	switch strings.ToLower(c.Export.Timeframe) {
	case "week", "month", "quarter":
	default:
		return fmt.Errorf("export.timeframe %q must be week, month or quarter", c.Export.Timeframe)
	}
	if c.Export.Schedule != "" {
		if _, err := cron.ParseStandard(c.Export.Schedule); err != nil {
			return fmt.Errorf("export.schedule: %w", err)
		}
	}
	return nil
}
