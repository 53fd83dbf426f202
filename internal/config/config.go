package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host           string `env:"DB_HOST,required"`
	Port           string `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER,required"`
	Password       string `env:"DB_PASSWORD,required"`
	DBName         string `env:"DB_NAME,required"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
}

type StorageConfig struct {
	KeyID      string `env:"B2_ACCESS_KEY_ID,required"`
	AppKey     string `env:"B2_SECRET_ACCESS_KEY,required"`
	BucketName string `env:"B2_BUCKET_NAME,required"`
	// AuthURL is overridable for tests; the default is the provider's
	// well-known authorize endpoint.
	AuthURL string `env:"B2_AUTH_URL" envDefault:"https://api.backblazeb2.com/b2api/v2/b2_authorize_account"`
}

type PaymentConfig struct {
	BaseURL      string `env:"SYNCPAY_BASE_URL" envDefault:"https://api.syncpayments.com.br"`
	ClientID     string `env:"SYNCPAY_CLIENT_ID,required"`
	ClientSecret string `env:"SYNCPAY_CLIENT_SECRET,required"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port string `env:"SMTP_PORT" envDefault:"587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASSWORD"`
	From string `env:"SMTP_FROM"`
}

type Config struct {
	App struct {
		Port string `env:"APP_PORT" envDefault:"8080"`
		// BaseURL is the public origin of the storefront, used to build
		// access links in confirmation emails and webhook callback URLs.
		BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	}
	Postgres PostgresConfig
	Storage  StorageConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
}

func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}
