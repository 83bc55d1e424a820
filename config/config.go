// Application configuration shared by the API and the thumbnail processor
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Editor   EditorConfig   `mapstructure:"editor"`
}

type ServerConfig struct {
	AppVersion     string        `mapstructure:"app_version"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	Timeout        time.Duration `mapstructure:"timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Env            string        `mapstructure:"environment"`
	Mode           string        `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Настройки пула соединений
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// BrokerConfig selects where thumbnail tasks go: "kafka", "rabbitmq",
// "redis" or "log".
type BrokerConfig struct {
	Kind        string        `mapstructure:"kind"`
	Brokers     string        `mapstructure:"brokers"`
	Topic       string        `mapstructure:"topic"`
	GroupID     string        `mapstructure:"group_id"`
	RabbitURL   string        `mapstructure:"rabbit_url"`
	Queue       string        `mapstructure:"queue"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`

	// Только для redis: повторы и очередь недоставленных задач
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	// Имя потребителя, у каждого процесса свой список задач в работе
	Consumer string `mapstructure:"consumer"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
	// 0 отключает очистку устаревших превью
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type EditorConfig struct {
	PreviewSize   int `mapstructure:"preview_size"`
	ThumbnailSize int `mapstructure:"thumbnail_size"`
	JPEGQuality   int `mapstructure:"jpeg_quality"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	// EDITOR_DATABASE_HOST overrides database.host and so on
	viperInstance.SetEnvPrefix("editor")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		logrus.WithError(err).Error("unable to decode config into struct")
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 15*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)

	v.SetDefault("broker.kind", "kafka")
	v.SetDefault("broker.topic", "asset-thumbnails")
	v.SetDefault("broker.group_id", "thumbnail-processor")
	v.SetDefault("broker.queue", "asset-thumbnails")
	v.SetDefault("broker.task_timeout", 2*time.Minute)
	v.SetDefault("broker.max_retries", 3)
	v.SetDefault("broker.retry_delay", 5*time.Second)
	if host, err := os.Hostname(); err == nil {
		v.SetDefault("broker.consumer", host)
	}

	v.SetDefault("storage.base_path", "./storage")
	v.SetDefault("storage.sweep_interval", time.Hour)

	v.SetDefault("editor.preview_size", 1440)
	v.SetDefault("editor.thumbnail_size", 250)
	v.SetDefault("editor.jpeg_quality", 90)
}

func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
