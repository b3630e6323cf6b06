package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type QuoterConfig struct {
	DefaultMarginPercent   float64
	WholesaleMarginPercent float64
	WholesaleThreshold     int
	DepositFraction        float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Quoter      QuoterConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Quoter: QuoterConfig{
			DefaultMarginPercent:   v.GetFloat64("QUOTER_DEFAULT_MARGIN"),
			WholesaleMarginPercent: v.GetFloat64("QUOTER_WHOLESALE_MARGIN"),
			WholesaleThreshold:     v.GetInt("QUOTER_WHOLESALE_THRESHOLD"),
			DepositFraction:        v.GetFloat64("QUOTER_DEPOSIT_FRACTION"),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Quoter.DefaultMarginPercent == 0 {
		cfg.Quoter.DefaultMarginPercent = 40
	}
	if cfg.Quoter.WholesaleMarginPercent == 0 {
		cfg.Quoter.WholesaleMarginPercent = 25
	}
	if cfg.Quoter.WholesaleThreshold == 0 {
		cfg.Quoter.WholesaleThreshold = 10
	}
	if cfg.Quoter.DepositFraction <= 0 || cfg.Quoter.DepositFraction > 1 {
		cfg.Quoter.DepositFraction = 0.5
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}
