package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Behyna/pawn-services/internal/api/middleware"
	"github.com/Behyna/pawn-services/pkg/approval"
	"github.com/Behyna/pawn-services/pkg/mq"
	"github.com/Behyna/pawn-services/pkg/mysql"
	"github.com/spf13/viper"
)

const (
	ApprovalModeRemote = "remote"
	ApprovalModeLocal  = "local"
)

type Config struct {
	API      API                   `mapstructure:"api"`
	Database mysql.Config          `mapstructure:"database"`
	RabbitMQ mq.Config             `mapstructure:"rabbitmq"`
	Auth     middleware.AuthConfig `mapstructure:"auth"`
	Approval Approval              `mapstructure:"approval"`
	Ledger   Ledger                `mapstructure:"ledger"`
	Worker   Worker                `mapstructure:"worker"`
	Metrics  Metrics               `mapstructure:"metrics"`
}

type API struct {
	Port            string        `mapstructure:"port"`
	WriteRateLimit  int           `mapstructure:"write_rate_limit"`
	WriteRateWindow time.Duration `mapstructure:"write_rate_window"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ServiceName     string        `mapstructure:"service_name"`
	SlowRequest     time.Duration `mapstructure:"slow_request"`
}

type Approval struct {
	Mode   string            `mapstructure:"mode"`
	Remote approval.Config   `mapstructure:"remote"`
	PINs   map[string]string `mapstructure:"pins"`
}

type Ledger struct {
	Timezone          string        `mapstructure:"timezone"`
	ReversalWindow    time.Duration `mapstructure:"reversal_window"`
	MaxDailyReversals int           `mapstructure:"max_daily_reversals"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

type Worker struct {
	Schedule    string `mapstructure:"schedule"`
	BatchSize   int    `mapstructure:"batch_size"`
	MetricsPort string `mapstructure:"metrics_port"`
}

type Metrics struct {
	CollectInterval time.Duration `mapstructure:"collect_interval"`
}

// Location is the zone whose calendar days the ledger counts in.
func (l Ledger) Location() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger timezone %q: %w", l.Timezone, err)
	}
	return loc, nil
}

func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads config.yml from dir. Any key can be overridden with a
// PAWN_ prefixed environment variable, e.g. PAWN_AUTH_SECRET.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("PAWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.write_rate_limit", 60)
	v.SetDefault("api.write_rate_window", time.Minute)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)
	v.SetDefault("api.service_name", "pawn-ledger")
	v.SetDefault("api.slow_request", 500*time.Millisecond)
	v.SetDefault("rabbitmq.exchange", "pawn.ledger")
	v.SetDefault("rabbitmq.prefetch", 20)
	v.SetDefault("approval.mode", ApprovalModeRemote)
	v.SetDefault("ledger.timezone", "UTC")
	v.SetDefault("ledger.reversal_window", 24*time.Hour)
	v.SetDefault("ledger.max_daily_reversals", 3)
	v.SetDefault("ledger.cache_ttl", 5*time.Second)
	v.SetDefault("worker.schedule", "@every 15m")
	v.SetDefault("worker.batch_size", 500)
	v.SetDefault("worker.metrics_port", ":9102")
	v.SetDefault("metrics.collect_interval", 15*time.Second)
}

func (c *Config) validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}

	switch c.Approval.Mode {
	case ApprovalModeRemote:
		if c.Approval.Remote.BaseURL == "" {
			return fmt.Errorf("approval.remote.base_url is required in remote mode")
		}
	case ApprovalModeLocal:
		if len(c.Approval.PINs) == 0 {
			return fmt.Errorf("approval.pins must list at least one approver in local mode")
		}
	default:
		return fmt.Errorf("unknown approval mode %q", c.Approval.Mode)
	}

	if _, err := c.Ledger.Location(); err != nil {
		return err
	}

	return nil
}
