package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Business  BusinessConfig  `yaml:"business"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BusinessConfig contains lending business limits. All amounts are in base
// currency units.
type BusinessConfig struct {
	MinPrincipal decimal.Decimal `yaml:"min_principal"`
	MaxPrincipal decimal.Decimal `yaml:"max_principal"`
	MinTerm      int             `yaml:"min_term"`
	MaxTerm      int             `yaml:"max_term"`
	MinRate      decimal.Decimal `yaml:"min_rate"`
	MaxRate      decimal.Decimal `yaml:"max_rate"`
	// Per-role approval ceilings. A role missing from the map (the
	// administrator) approves without limit.
	ApprovalCeilings   map[string]decimal.Decimal `yaml:"approval_ceilings"`
	MaxReschedules     int                        `yaml:"max_reschedules"`
	PenaltyMonthlyRate decimal.Decimal            `yaml:"penalty_monthly_rate"`
	CommissionRate     decimal.Decimal            `yaml:"commission_rate"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverdueInstallments string `yaml:"mark_overdue_installments"`
	SendPaymentReminders    string `yaml:"send_payment_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and applies business defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Business defaults
	if c.Business.MinPrincipal.IsZero() {
		c.Business.MinPrincipal = decimal.NewFromInt(100)
	}
	if c.Business.MaxPrincipal.IsZero() {
		c.Business.MaxPrincipal = decimal.NewFromInt(500000)
	}
	if c.Business.MinTerm == 0 {
		c.Business.MinTerm = 1
	}
	if c.Business.MaxTerm == 0 {
		c.Business.MaxTerm = 60
	}
	if c.Business.MaxRate.IsZero() {
		c.Business.MaxRate = decimal.NewFromInt(30)
	}
	if c.Business.ApprovalCeilings == nil {
		c.Business.ApprovalCeilings = map[string]decimal.Decimal{
			"MANAGER": decimal.NewFromInt(50000),
			"WORKER":  decimal.NewFromInt(10000),
		}
	}
	if c.Business.MaxReschedules == 0 {
		c.Business.MaxReschedules = 3
	}
	if c.Business.PenaltyMonthlyRate.IsZero() {
		c.Business.PenaltyMonthlyRate = decimal.NewFromFloat(0.05)
	}
	if c.Business.CommissionRate.IsZero() {
		c.Business.CommissionRate = decimal.NewFromFloat(0.02)
	}

	// Scheduler defaults
	if c.Scheduler.MarkOverdueInstallments == "" {
		c.Scheduler.MarkOverdueInstallments = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendPaymentReminders == "" {
		c.Scheduler.SendPaymentReminders = "0 0 3 * * *" // 3 AM UTC
	}

	return nil
}

// ApprovalCeiling returns the approval ceiling for a role name. The second
// result is false when the role approves without limit.
func (b *BusinessConfig) ApprovalCeiling(role string) (decimal.Decimal, bool) {
	ceiling, ok := b.ApprovalCeilings[role]
	return ceiling, ok
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
