package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config описывает настройки приложения. Значения читаются из
// webshop.yaml и переменных окружения с префиксом WEBSHOP_
// (например WEBSHOP_DB_DSN, WEBSHOP_KAFKA_BROKERS).
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	DB      DBConfig      `mapstructure:"db"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Outbox  OutboxConfig  `mapstructure:"outbox"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// DBConfig описывает подключение к PostgreSQL. Пустой DSN переключает
// приложение на in-memory хранилище.
type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// KafkaConfig описывает подключение к Kafka. Пустой список брокеров
// отключает публикацию событий.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
}

// BrokerList разбирает список брокеров вида "host1:9092,host2:9092".
func (c KafkaConfig) BrokerList() []string {
	if c.Brokers == "" {
		return nil
	}
	parts := strings.Split(c.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// Load читает конфигурацию из файла webshop.yaml (если есть) и окружения.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("webshop")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs/")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/webshop/")

	v.SetEnvPrefix("WEBSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("outbox.poll_interval", 2*time.Second)
	v.SetDefault("outbox.batch_size", 32)
	v.SetDefault("outbox.max_attempts", 5)
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr must not be empty")
	}
	if c.Metrics.Addr == "" {
		return errors.New("metrics.addr must not be empty")
	}
	if c.DB.MaxOpenConns < 0 || c.DB.MaxIdleConns < 0 {
		return errors.New("db connection limits must be non-negative")
	}
	if c.Outbox.PollInterval <= 0 {
		return errors.New("outbox.poll_interval must be positive")
	}
	if c.Outbox.BatchSize <= 0 {
		return errors.New("outbox.batch_size must be positive")
	}
	if c.Outbox.MaxAttempts <= 0 {
		return errors.New("outbox.max_attempts must be positive")
	}
	return nil
}
