package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port        string        `mapstructure:"port"`
	CorsOrigin  string        `mapstructure:"cors_origin"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type AuthConfig struct {
	ProjectID string `mapstructure:"project_id"`
	CertsURL  string `mapstructure:"certs_url"`
	DevSecret string `mapstructure:"dev_secret"`
}

type RateLimitConfig struct {
	WriteMax int           `mapstructure:"write_max"`
	Window   time.Duration `mapstructure:"window"`
}

type AdminConfig struct {
	KeyHash string `mapstructure:"key_hash"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const EnvPrefix = "WISEWALLET"

func defaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("auth.project_id", "")
	v.SetDefault("auth.certs_url", "")
	v.SetDefault("auth.dev_secret", "")
	v.SetDefault("ratelimit.write_max", 60)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("admin.key_hash", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads an optional YAML file and overlays environment variables such as
// WISEWALLET_DATABASE_URL. An empty path searches ./config.yaml and tolerates
// its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// hosting platforms set these without a prefix
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks what the API server needs to start.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Auth.ProjectID == "" && c.Auth.DevSecret == "" {
		errs = append(errs, errors.New("auth.project_id or auth.dev_secret is required"))
	}
	if c.RateLimit.WriteMax <= 0 {
		errs = append(errs, errors.New("ratelimit.write_max must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("ratelimit.window must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Server.Port, ":")
}
