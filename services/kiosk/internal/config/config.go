package config

import (
	"os"
	"time"

	pkgcfg "github.com/Skotchmaster/kiosk/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	SessionSecret []byte
	SessionTTL    time.Duration
	AdminPassword string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string
	LockTimeout   time.Duration
}

func Load() (*Config, error) {
	if err := pkgcfg.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "kiosk"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    pkgcfg.EnvDefault("DB_DRIVER", "pgx"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    pkgcfg.EnvDurationDefault("SESSION_TTL", 0),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "products"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LockTimeout:   pkgcfg.EnvDurationDefault("LOCK_TIMEOUT", 5*time.Second),
	}

	if err := pkgcfg.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := pkgcfg.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET"); err != nil {
		return nil, err
	}

	return cfg, nil
}
