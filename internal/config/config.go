package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrEmptyDSN = errors.New(
		"error getting SF_POSTGRES_DSN: variable not specified or contains an empty string")
	ErrEmptySMTPHost = errors.New(
		"error getting SF_SMTP_HOST: variable not specified or contains an empty string")
)

type Config struct {
	Env      string // Env is the current environment: local, dev, prod.
	HTTPAddr string // HTTPAddr is the listen address of the HTTP server.
	Postgres Postgres
	SMTP     SMTP
}

type Postgres struct {
	DSN          string
	QueryTimeout time.Duration // QueryTimeout bounds a single store query.
}

type SMTP struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string        // From is the sender shown on alert emails.
	SendTimeout time.Duration // SendTimeout bounds one delivery attempt.
}

// MustLoad loads the configuration from environment variables and returns a
// Config struct. It panics when a required variable is missing.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("SF")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("HTTP_ADDR", ":3001")
	viper.SetDefault("QUERY_TIMEOUT", "5s")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_TIMEOUT", "15s")
	viper.SetDefault("SMTP_FROM", "SoloFarma <alertas@solofarma.cl>")

	if viper.GetString("POSTGRES_DSN") == "" {
		panic(ErrEmptyDSN)
	}
	if viper.GetString("SMTP_HOST") == "" {
		panic(ErrEmptySMTPHost)
	}

	return &Config{
		Env:      viper.GetString("ENV"),
		HTTPAddr: viper.GetString("HTTP_ADDR"),
		Postgres: Postgres{
			DSN:          viper.GetString("POSTGRES_DSN"),
			QueryTimeout: viper.GetDuration("QUERY_TIMEOUT"),
		},
		SMTP: SMTP{
			Host:        viper.GetString("SMTP_HOST"),
			Port:        viper.GetInt("SMTP_PORT"),
			Username:    viper.GetString("SMTP_USERNAME"),
			Password:    viper.GetString("SMTP_PASSWORD"),
			From:        viper.GetString("SMTP_FROM"),
			SendTimeout: viper.GetDuration("SMTP_TIMEOUT"),
		},
	}
}
