package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported values of STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreMongoDB  = "mongodb"
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"8080"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
	StoreDriver  string `envconfig:"STORE_DRIVER" default:"postgres"`

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
		File  string `envconfig:"LOG_FILE"`
	}
	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	Mongo struct {
		URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database string `envconfig:"MONGO_DATABASE" default:"contactmanager"`
	}
	DynamoDB struct {
		Region             string `envconfig:"DDB_REGION"`
		Endpoint           string `envconfig:"DDB_ENDPOINT"`
		AccessKey          string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey          string `envconfig:"DDB_SECRET_KEY"`
		SessionToken       string `envconfig:"DDB_SESSION_TOKEN"`
		ContactsTable      string `envconfig:"DDB_CONTACTS_TABLE" default:"contacts"`
		UsersTable         string `envconfig:"DDB_USERS_TABLE" default:"users"`
		LoginAttemptsTable string `envconfig:"DDB_LOGIN_ATTEMPTS_TABLE" default:"login_attempts"`
	}
	RabbitMQ struct {
		URL      string `envconfig:"RABBITMQ_URL"`
		Exchange string `envconfig:"RABBITMQ_EXCHANGE" default:"contacts"`
	}
	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		TokenTTL  int    `envconfig:"AUTH_TOKEN_TTL" default:"3600"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.StoreDriver {
	case StorePostgres, StoreMongoDB, StoreDynamoDB, StoreMemory:
	default:
		return nil, fmt.Errorf("load config error: unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if c.Port == 0 {
		return ":8080"
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Origins splits ALLOW_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTL) * time.Second
}
