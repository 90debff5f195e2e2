package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Bloom    BloomConfig    `mapstructure:"bloom"`
	RocketMQ RocketMQConfig `mapstructure:"rocketmq"`
	Redirect RedirectConfig `mapstructure:"redirect"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig represents MySQL configuration
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BloomConfig represents the slug Bloom Filter configuration
type BloomConfig struct {
	Capacity  int64   `mapstructure:"capacity"`
	ErrorRate float64 `mapstructure:"error_rate"`
}

// RocketMQConfig represents RocketMQ configuration
type RocketMQConfig struct {
	NameServer string `mapstructure:"nameserver"`
	Topic      string `mapstructure:"topic"`
	Group      string `mapstructure:"group"`
}

// RedirectConfig carries the fallback timeout policy for the redirect
// sequencer. Values are milliseconds, countdown is seconds.
type RedirectConfig struct {
	InAppFallbackMS         int `mapstructure:"in_app_fallback_ms"`
	UniversalLinkFallbackMS int `mapstructure:"universal_link_fallback_ms"`
	CustomSchemeFallbackMS  int `mapstructure:"custom_scheme_fallback_ms"`
	AndroidFallbackMS       int `mapstructure:"android_fallback_ms"`
	CountdownSeconds        int `mapstructure:"countdown_seconds"`
}

// InAppFallback returns the in-app browser fallback timeout
func (rc *RedirectConfig) InAppFallback() time.Duration {
	return time.Duration(rc.InAppFallbackMS) * time.Millisecond
}

// UniversalLinkFallback returns the iOS Universal Link fallback timeout
func (rc *RedirectConfig) UniversalLinkFallback() time.Duration {
	return time.Duration(rc.UniversalLinkFallbackMS) * time.Millisecond
}

// CustomSchemeFallback returns the iOS custom-scheme fallback timeout
func (rc *RedirectConfig) CustomSchemeFallback() time.Duration {
	return time.Duration(rc.CustomSchemeFallbackMS) * time.Millisecond
}

// AndroidFallback returns the Android fallback timeout
func (rc *RedirectConfig) AndroidFallback() time.Duration {
	return time.Duration(rc.AndroidFallbackMS) * time.Millisecond
}

// Countdown returns the user-visible countdown duration
func (rc *RedirectConfig) Countdown() time.Duration {
	return time.Duration(rc.CountdownSeconds) * time.Second
}

// Global config instance
var cfg *Config

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables
	cfg.Database.Redis.Password = expandEnv(cfg.Database.Redis.Password)
	cfg.Database.MySQL.DSN = expandEnv(cfg.Database.MySQL.DSN)

	return cfg, nil
}

// Get returns the global config instance
func Get() *Config {
	return cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("bloom.capacity", 100000000)
	v.SetDefault("bloom.error_rate", 0.01)
	v.SetDefault("rocketmq.topic", "click_events")
	v.SetDefault("rocketmq.group", "applink_click_consumer_group")
	v.SetDefault("redirect.in_app_fallback_ms", 1000)
	v.SetDefault("redirect.universal_link_fallback_ms", 2500)
	v.SetDefault("redirect.custom_scheme_fallback_ms", 2000)
	v.SetDefault("redirect.android_fallback_ms", 1500)
	v.SetDefault("redirect.countdown_seconds", 3)
}

// expandEnv expands environment variables in the string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envKey := s[2 : len(s)-1]
		return viper.GetString(envKey)
	}
	return s
}
