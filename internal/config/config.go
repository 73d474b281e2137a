package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Feed      FeedConfig
	Spin      SpinConfig
	RateLimit RateLimitConfig
	Backup    BackupConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	BaseURL      string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis cache configuration. When Enabled is false the
// application uses the in-process TTL cache instead.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	MockMail bool
}

// FeedConfig holds wager spreadsheet feed configuration
type FeedConfig struct {
	URL          string
	PollSchedule string // cron spec
	CacheTTL     int    // seconds
	MockFeed     bool
}

// SpinConfig holds ticket and spin business-rule configuration
type SpinConfig struct {
	TicketUnit float64 // wager amount per ticket
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// BackupConfig holds collection backup configuration
type BackupConfig struct {
	Dir      string
	Schedule string // cron spec
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.BaseURL", "http://localhost:3000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "wagerspin")
	viper.SetDefault("Redis.Enabled", false)
	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("SMTP.Port", 587)
	viper.SetDefault("SMTP.MockMail", true)
	viper.SetDefault("Feed.PollSchedule", "*/10 * * * *") // every 10 minutes
	viper.SetDefault("Feed.CacheTTL", 300)
	viper.SetDefault("Feed.MockFeed", true)
	viper.SetDefault("Spin.TicketUnit", 1000.0)
	viper.SetDefault("RateLimit.RequestsPerSecond", 5)
	viper.SetDefault("RateLimit.Burst", 10)
	viper.SetDefault("Backup.Dir", "./backups")
	viper.SetDefault("Backup.Schedule", "0 3 * * *") // nightly
	viper.SetDefault("LogLevel", "info")
}
