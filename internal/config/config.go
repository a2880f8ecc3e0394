package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/corray333/kitchenpos/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. KITCHENPOS_POSTGRES_HOST.
const EnvPrefix = "KITCHENPOS"

// MustInit loads .env (if present) and config.yaml, then installs the logger.
func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	SetDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/kitchenpos")
	viper.AddConfigPath(".")
	BindEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic("error while reading config file: " + err.Error())
		}
	}
	SetupLogger()
}

// BindEnv lets KITCHENPOS_SECTION_KEY override section.key.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func SetDefaults() {
	viper.SetDefault("app.name", "kitchenpos")
	viper.SetDefault("app.shutdown_timeout_seconds", 10)
	viper.SetDefault("storage.driver", StorageMemory)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", logger.FormatJSON)

	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Content-Type", "X-Request-Id"})

	viper.SetDefault("server.grpc.enabled", false)
	viper.SetDefault("server.grpc.port", "9090")

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.migrations_enabled", true)

	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "kitchenpos.events")
	viper.SetDefault("rabbitmq.audit_queue", "kitchenpos.order-audit")
	viper.SetDefault("rabbitmq.consumer.enabled", true)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.jaeger_endpoint", "http://localhost:14268/api/traces")
	viper.SetDefault("otel.service_name", "kitchenpos")
	viper.SetDefault("otel.sample_ratio", 1.0)
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

func SetupLogger() {
	handler := logger.NewHandler(&logger.Options{
		Level:   logger.ParseLevel(viper.GetString("log.level")),
		Format:  viper.GetString("log.format"),
		Service: viper.GetString("app.name"),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
