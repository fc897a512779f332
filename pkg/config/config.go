package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/babyname-machine/backend/pkg/apperr"
)

type Config struct {
	Server    ServerConfig
	Dataset   DatasetConfig
	Model     ModelConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	AllowedOrigins []string
	Development    bool
}

type DatasetConfig struct {
	Path string
}

type ModelConfig struct {
	ClassifierPath  string
	TransformerPath string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Password   string
	DB         int
	TTLSeconds int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/babyname-machine")

	v.SetEnvPrefix("BABYNAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate resolves the dataset and artifact paths to absolute form once and
// checks that the dataset exists. Artifacts are only resolved here; they are
// opened lazily on the first prediction.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return errors.New("dataset.path is required")
	}
	if c.Model.ClassifierPath == "" || c.Model.TransformerPath == "" {
		return errors.New("model.classifierPath and model.transformerPath are required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	var err error
	if c.Dataset.Path, err = filepath.Abs(c.Dataset.Path); err != nil {
		return fmt.Errorf("resolve dataset path: %w", err)
	}
	if c.Model.ClassifierPath, err = filepath.Abs(c.Model.ClassifierPath); err != nil {
		return fmt.Errorf("resolve classifier path: %w", err)
	}
	if c.Model.TransformerPath, err = filepath.Abs(c.Model.TransformerPath); err != nil {
		return fmt.Errorf("resolve transformer path: %w", err)
	}

	info, err := os.Stat(c.Dataset.Path)
	if err != nil {
		return fmt.Errorf("%w: dataset %s: %v", apperr.ErrFileAccess, c.Dataset.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: dataset %s is a directory", apperr.ErrFileAccess, c.Dataset.Path)
	}

	return nil
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.bodyLimit", 1048576)
	v.SetDefault("server.allowedOrigins", []string{"*"})
	v.SetDefault("server.development", false)

	v.SetDefault("dataset.path", "./data/data.csv")

	v.SetDefault("model.classifierPath", "./models/logistic_model.json")
	v.SetDefault("model.transformerPath", "./models/preprocessor.json")

	v.SetDefault("sqlite.path", "./data/history.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlSeconds", 3600)

	v.SetDefault("rateLimit.requestsPerMinute", 120)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}
