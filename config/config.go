package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rehabib/plan-report-tourism/internal/model"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	Mode    string     `mapstructure:"mode"` // gin mode: debug | release | test
	CORS    CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig selects and configures the store. Driver is postgres or
// sqlite; SQLitePath is used only by the latter.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig configures the token blacklist and rate limiter store.
// With Enabled false both features pass through.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	LoginRateLimit  int           `mapstructure:"login_rate_limit"` // attempts per window
	LoginRateWindow time.Duration `mapstructure:"login_rate_window"`
}

// LogConfig configures zap. A non-empty File adds a rotating file sink.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// WorkflowConfig holds the business policies of the approval workflow.
type WorkflowConfig struct {
	QuarterlyTargetPolicy string            `mapstructure:"quarterly_target_policy"` // progressive | cumulative
	EnforceDetailBudget   bool              `mapstructure:"enforce_detail_budget"`
	WeightTolerance       float64           `mapstructure:"weight_tolerance"`
	FinalApprovers        map[string]string `mapstructure:"final_approvers"` // level -> terminal role
}

// FinalApproverRoles converts FinalApprovers to typed roles.
func (w *WorkflowConfig) FinalApproverRoles() map[model.Role]model.Role {
	out := make(map[model.Role]model.Role, len(w.FinalApprovers))
	for level, role := range w.FinalApprovers {
		out[model.Role(level)] = model.Role(role)
	}
	return out
}

// Load reads configuration.
// Precedence: environment > config file > .env > defaults.
func Load(path string) (*Config, error) {
	// .env only seeds variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "plan_report")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Africa/Addis_Ababa")
	v.SetDefault("db.sqlite_path", "plan_report.db")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("workflow.quarterly_target_policy", "progressive")
	v.SetDefault("workflow.enforce_detail_budget", true)
	v.SetDefault("workflow.weight_tolerance", 0.01)
	v.SetDefault("workflow.final_approvers", map[string]string{})

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("PLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// no config file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the application cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid config: db.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Workflow.QuarterlyTargetPolicy {
	case "progressive", "cumulative":
	default:
		return fmt.Errorf("invalid config: workflow.quarterly_target_policy must be progressive or cumulative, got %q",
			c.Workflow.QuarterlyTargetPolicy)
	}
	if c.Workflow.WeightTolerance < 0 {
		return fmt.Errorf("invalid config: workflow.weight_tolerance must not be negative")
	}
	for level, role := range c.Workflow.FinalApprovers {
		if !model.Role(level).Valid() {
			return fmt.Errorf("invalid config: workflow.final_approvers: unknown level %q", level)
		}
		if !model.Role(role).Valid() {
			return fmt.Errorf("invalid config: workflow.final_approvers.%s: unknown role %q", level, role)
		}
	}
	return nil
}
