package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Line     LineConfig     `mapstructure:"line"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type KafkaConfig struct {
	Broker string `mapstructure:"broker"`
}

type StorageConfig struct {
	Root string `mapstructure:"root"`
}

// LineConfig holds LINE Login + Messaging API credentials. Only used as a
// notification delivery channel; login state is signed with JWT.Secret.
type LineConfig struct {
	ChannelID     string        `mapstructure:"channel_id"`
	ChannelSecret string        `mapstructure:"channel_secret"`
	ChannelToken  string        `mapstructure:"channel_token"`
	RedirectURL   string        `mapstructure:"redirect_url"`
	APITimeout    time.Duration `mapstructure:"api_timeout"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// Load layers an optional config file under environment variables
// (WELFARE_DATABASE_HOST overrides database.host and so on).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("storage.root", "data/files")
	v.SetDefault("line.api_timeout", 10*time.Second)

	v.SetEnvPrefix("WELFARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys to Unmarshal; every
	// key has to be bound explicitly or it vanishes without a config file.
	for _, key := range []string{
		"server.port", "server.read_timeout", "server.write_timeout", "server.idle_timeout",
		"database.host", "database.port", "database.user", "database.password",
		"database.name", "database.sslmode",
		"redis.addr",
		"kafka.broker",
		"storage.root",
		"line.channel_id", "line.channel_secret", "line.channel_token",
		"line.redirect_url", "line.api_timeout",
		"jwt.secret",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Unprefixed JWT_SECRET from .env files still works as a fallback.
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	return &cfg, nil
}
