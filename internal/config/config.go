package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppEnv  string `env:"APP_ENV" envDefault:"production"`
	GitSHA  string `env:"GIT_SHA"`
	BuildAt string `env:"BUILD_TIME"`

	DBDriver               string `env:"DB_DRIVER" envDefault:"mysql"` // mysql or postgres
	DBUser                 string `env:"DB_USER,required"`
	DBPassword             string `env:"DB_PASSWORD,required"`
	DBHost                 string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME,required"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	DBSSLMode              string `env:"DB_SSLMODE" envDefault:"disable"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
	AutoMigrate            bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`

	Draft DraftConfig

	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaReplyTopic string   `env:"KAFKA_REPLY_TOPIC" envDefault:"inbox.replies"`

	RedisURL     string        `env:"REDIS_URL"`
	AnalyticsTTL time.Duration `env:"ANALYTICS_CACHE_TTL" envDefault:"60s"`

	ExportBucket          string `env:"EXPORT_BUCKET"`
	GoogleCredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS_FILE"`
}

// DraftConfig selects and tunes the reply draft generator.
type DraftConfig struct {
	Provider       string        `env:"DRAFT_PROVIDER" envDefault:"template"` // template or gemini
	Delay          time.Duration `env:"DRAFT_DELAY" envDefault:"1500ms"`
	GeminiModel    string        `env:"GEMINI_DRAFT_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	RatePerMinute  int           `env:"DRAFT_RATE_PER_MINUTE" envDefault:"30"`
	BreakerTimeout time.Duration `env:"DRAFT_BREAKER_TIMEOUT" envDefault:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
