package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	DB     *DBConfig
	HTTP   HTTPConfig
	GRPC   GRPCConfig
	Redis  RedisConfig
	Logger LoggerConfig
}

type HTTPConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// GRPCConfig: адрес gRPC health-сервера для проб оркестратора.
type GRPCConfig struct {
	Addr string
}

// RedisConfig: пустой Addr означает блокировки внутри процесса.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string // json | console
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, fmt.Errorf("load db config: %w", err)
	}

	appEnv := getEnv("APP_ENV", "production")
	dev := appEnv == "development"

	defaultEncoding, defaultLevel := "json", "info"
	if dev {
		defaultEncoding, defaultLevel = "console", "debug"
	}

	requestTimeout := getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second)
	// ключ блокировки должен жить дольше самого длинного запроса
	lockTTL := getEnvDuration("REDIS_LOCK_TTL", requestTimeout+5*time.Second)
	if lockTTL < requestTimeout {
		return nil, fmt.Errorf("REDIS_LOCK_TTL %s is shorter than HTTP_REQUEST_TIMEOUT %s", lockTTL, requestTimeout)
	}

	return &Config{
		AppEnv: appEnv,
		DB:     dbCfg,
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		GRPC: GRPCConfig{
			Addr: getEnv("GRPC_ADDR", ":50051"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			LockTTL:  lockTTL,
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", defaultLevel),
			Encoding:          getEnv("LOGGER_ENCODING", defaultEncoding),
			Development:       dev,
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", !dev),
		},
	}, nil
}
