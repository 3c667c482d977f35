package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/senyabanana/shipquote-service/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string `mapstructure:"POSTGRES_CONN"`
	PostgresUser  string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass  string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost  string `mapstructure:"POSTGRES_HOST"`
	PostgresPort  string `mapstructure:"POSTGRES_PORT"`
	PostgresDB    string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`

	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	AppEnv         string        `mapstructure:"APP_ENV"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	PDFFontDir     string        `mapstructure:"PDF_FONT_DIR"`

	HandlingFee       string `mapstructure:"HANDLING_FEE"`
	DocumentationFee  string `mapstructure:"DOCUMENTATION_FEE"`
	InsuranceRate     string `mapstructure:"INSURANCE_RATE"`
	QuoteValidityDays int    `mapstructure:"QUOTE_VALIDITY_DAYS"`
	Currency          string `mapstructure:"CURRENCY"`
}

var keys = map[string]interface{}{
	"SERVER_ADDRESS":      "0.0.0.0:8080",
	"POSTGRES_CONN":       "",
	"POSTGRES_USERNAME":   "",
	"POSTGRES_PASSWORD":   "",
	"POSTGRES_HOST":       "",
	"POSTGRES_PORT":       "5432",
	"POSTGRES_DATABASE":   "",
	"MIGRATION_URL":       "file://migrations",
	"REDIS_ADDR":          "",
	"LOG_LEVEL":           "info",
	"APP_ENV":             "production",
	"REQUEST_TIMEOUT":     "5s",
	"PDF_FONT_DIR":        "",
	"HANDLING_FEE":        "50.00",
	"DOCUMENTATION_FEE":   "25.00",
	"INSURANCE_RATE":      "0.01",
	"QUOTE_VALIDITY_DAYS": 7,
	"CURRENCY":            "USD",
}

// LoadConfig загружает конфигурацию из файла app.env и переменных окружения.
// Отсутствие файла не ошибка: значения берутся из окружения и значений по умолчанию.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, def := range keys {
		v.SetDefault(key, def)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}
	if err = v.Unmarshal(&cfg); err != nil {
		return
	}
	cfg.PostgresConn, err = cfg.databaseURL()
	return
}

// databaseURL возвращает POSTGRES_CONN или собирает строку подключения из отдельных параметров.
func (c Config) databaseURL() (string, error) {
	if c.PostgresConn != "" {
		return c.PostgresConn, nil
	}
	if c.PostgresUser == "" || c.PostgresPass == "" || c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDB == "" {
		return "", fmt.Errorf("one or more database connection environment variables are missing")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPass),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String(), nil
}

// FeeSchedule возвращает сборы из конфигурации.
func (c Config) FeeSchedule() (pricing.FeeSchedule, error) {
	fees := pricing.DefaultFeeSchedule()

	values := []struct {
		key string
		raw string
		dst *decimal.Decimal
	}{
		{"HANDLING_FEE", c.HandlingFee, &fees.HandlingFee},
		{"DOCUMENTATION_FEE", c.DocumentationFee, &fees.DocumentationFee},
		{"INSURANCE_RATE", c.InsuranceRate, &fees.InsuranceRate},
	}
	for _, v := range values {
		if v.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(v.raw)
		if err != nil {
			return pricing.FeeSchedule{}, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		if d.IsNegative() {
			return pricing.FeeSchedule{}, fmt.Errorf("invalid %s: must be non-negative", v.key)
		}
		*v.dst = d
	}

	if c.QuoteValidityDays > 0 {
		fees.ValidityDays = c.QuoteValidityDays
	}
	if c.Currency != "" {
		fees.Currency = c.Currency
	}
	return fees, nil
}
