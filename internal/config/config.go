package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DBUrl       string `mapstructure:"DB_URL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	// Redis
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	DedupeTTLSec int    `mapstructure:"DEDUPE_TTL_SEC"`

	// Kafka
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// MinIO
	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	// Seeder
	SeedCount int `mapstructure:"SEED_COUNT"`
}

var defaults = map[string]any{
	"PORT":             "8000",
	"DB_URL":           "",
	"CORS_ORIGINS":     "http://localhost,http://localhost:8080,http://localhost:3000,http://localhost:5173",
	"LOG_LEVEL":        "info",
	"MIGRATIONS_PATH":  "file://internal/db/migrations",
	"REDIS_ADDR":       "",
	"DEDUPE_TTL_SEC":   86400,
	"KAFKA_BROKERS":    "",
	"KAFKA_TOPIC":      "ads-created",
	"KAFKA_GROUP_ID":   "ads-archiver",
	"MINIO_ENDPOINT":   "",
	"MINIO_ACCESS_KEY": "",
	"MINIO_SECRET_KEY": "",
	"MINIO_BUCKET":     "ads-archive",
	"MINIO_USE_SSL":    false,
	"SEED_COUNT":       50,
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so register every one.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	// The API allows credentials, which the cors middleware refuses to pair with a wildcard.
	for _, origin := range splitList(c.CORSOrigins) {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must list explicit origins, \"*\" is not allowed")
		}
	}
	if c.DedupeTTLSec <= 0 {
		c.DedupeTTLSec = 86400
	}
	if c.SeedCount <= 0 {
		c.SeedCount = 50
	}
	if c.KafkaTopic == "" {
		c.KafkaTopic = "ads-created"
	}

	return nil
}

// RequireDatabase is checked by the binaries that talk to postgres.
func (c *Config) RequireDatabase() error {
	if c.DBUrl == "" {
		return fmt.Errorf("DB_URL is required")
	}
	return nil
}

// RequireArchive is checked by the archiver worker.
func (c *Config) RequireArchive() error {
	if c.KafkaBrokers == "" {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.KafkaGroupID == "" {
		return fmt.Errorf("KAFKA_GROUP_ID is required")
	}
	if c.MinIOEndpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required")
	}
	if c.MinIOBucket == "" {
		return fmt.Errorf("MINIO_BUCKET is required")
	}
	return nil
}

func (c *Config) KafkaEnabled() bool {
	return len(c.GetKafkaBrokers()) > 0
}

func (c *Config) GetKafkaBrokers() []string {
	return splitList(c.KafkaBrokers)
}

// GetCORSOrigins returns the origins in the comma separated form fiber's cors middleware expects.
func (c *Config) GetCORSOrigins() string {
	return strings.Join(splitList(c.CORSOrigins), ",")
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
