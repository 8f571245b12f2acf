package connector

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/minorm/dialect"
)

// Config represents database connection configuration.
type Config struct {
	// Driver names the registered provider ("postgres", "pq", "mysql", "tidb", "sqlite").
	Driver string `json:"driver" yaml:"driver"`
	// DSN, when set, is passed to the driver as is and the address fields are ignored.
	DSN            string            `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
	// Dialect overrides the provider's dialect.
	Dialect *dialect.Descriptor `json:"dialect,omitempty" yaml:"dialect,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen         int           `json:"max_open" yaml:"max_open"`
	MaxIdle         int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime     time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime     time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
	HealthCheckFreq time.Duration `json:"health_check_freq" yaml:"health_check_freq"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// ParseConfig decodes a YAML document into a validated Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and validates a YAML config file. Environment variables
// in the file (${VAR}) are expanded before decoding.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig([]byte(os.ExpandEnv(string(data))))
}

// Validate checks the fields every provider relies on.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("driver is required")
	}
	if c.DSN == "" && c.Driver != "sqlite" && c.Driver != "sqlite3" {
		if c.Host == "" {
			return fmt.Errorf("host is required")
		}
		if c.Port < 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port: %d", c.Port)
		}
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		return fmt.Errorf("pool sizes must not be negative")
	}
	if c.Retry != nil && c.Retry.MaxRetries < 0 {
		return fmt.Errorf("invalid max_retries: %d", c.Retry.MaxRetries)
	}
	if c.Dialect != nil {
		if err := c.Dialect.Validate(); err != nil {
			return fmt.Errorf("invalid dialect override: %w", err)
		}
	}
	return nil
}

// WithPoolDefaults returns a copy with unset pool settings defaulted.
func (c Config) WithPoolDefaults() Config {
	if c.Pool.MaxOpen <= 0 {
		c.Pool.MaxOpen = 10
	}
	if c.Pool.MaxIdle <= 0 {
		c.Pool.MaxIdle = 5
	}
	if c.Pool.MaxLifetime == 0 {
		c.Pool.MaxLifetime = time.Hour
	}
	if c.Pool.MaxIdleTime == 0 {
		c.Pool.MaxIdleTime = 30 * time.Minute
	}
	return c
}
