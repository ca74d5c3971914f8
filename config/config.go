package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Драйверы хранилища
const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Драйверы напоминаний
const (
	ReminderLog   = "log"
	ReminderKafka = "kafka"
)

// Config структура конфигурации приложения
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Reminder ReminderConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	// StaticDir каталог собранного клиента; пусто - отдаем JSON-заглушку на "/"
	StaticDir string
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	GinMode         string
}

// StorageConfig конфигурация хранилища участников
type StorageConfig struct {
	Driver          string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	PostgresDSN     string
}

// RedisConfig конфигурация кеша
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ReminderConfig конфигурация отправки напоминаний
type ReminderConfig struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
	EnsureTopics bool
}

// MetricsConfig конфигурация метрик
type MetricsConfig struct {
	RosterInterval time.Duration
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("GIN_MODE", "release")

	v.SetDefault("STORAGE_DRIVER", StorageMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "gym")
	v.SetDefault("MONGO_COLLECTION", "members")
	v.SetDefault("POSTGRES_DSN", "")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "15m")

	v.SetDefault("REMINDER_DRIVER", ReminderLog)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "member.fee.reminder")
	v.SetDefault("KAFKA_ENSURE_TOPICS", false)

	v.SetDefault("METRICS_ROSTER_INTERVAL", "1m")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load загружает конфигурацию: значения по умолчанию, затем config.yml из dir (если есть), затем окружение.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			GinMode:         v.GetString("GIN_MODE"),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
			MongoURI:        v.GetString("MONGO_URI"),
			MongoDatabase:   v.GetString("MONGO_DATABASE"),
			MongoCollection: v.GetString("MONGO_COLLECTION"),
			PostgresDSN:     v.GetString("POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		Reminder: ReminderConfig{
			Driver:       strings.ToLower(v.GetString("REMINDER_DRIVER")),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("KAFKA_TOPIC"),
			EnsureTopics: v.GetBool("KAFKA_ENSURE_TOPICS"),
		},
		Metrics: MetricsConfig{
			RosterInterval: v.GetDuration("METRICS_ROSTER_INTERVAL"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		StaticDir: v.GetString("STATIC_DIR"),
	}

	return cfg, nil
}

// splitList разбирает список через запятую
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.Server.GinMode)
	}

	switch c.Storage.Driver {
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return errors.New("MONGO_URI is required for mongo storage")
		}
		if c.Storage.MongoDatabase == "" || c.Storage.MongoCollection == "" {
			return errors.New("MONGO_DATABASE and MONGO_COLLECTION are required for mongo storage")
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required when REDIS_ENABLED is set")
	}

	switch c.Reminder.Driver {
	case ReminderLog:
	case ReminderKafka:
		if len(c.Reminder.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for kafka reminders")
		}
		if c.Reminder.KafkaTopic == "" {
			return errors.New("KAFKA_TOPIC is required for kafka reminders")
		}
	default:
		return fmt.Errorf("unknown REMINDER_DRIVER %q", c.Reminder.Driver)
	}

	if c.Metrics.RosterInterval < 0 {
		return errors.New("METRICS_ROSTER_INTERVAL must not be negative")
	}

	return nil
}
