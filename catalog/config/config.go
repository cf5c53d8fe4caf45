package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/bookgrove/catalog-service/catalog/internal/server"
	"github.com/bookgrove/catalog-service/catalog/internal/blobstore"
	"github.com/bookgrove/catalog-service/pkg/kafka"
	"github.com/bookgrove/catalog-service/pkg/logger"
	"github.com/bookgrove/catalog-service/pkg/postgres"
)

type Config struct {
	Server   server.Config    `yaml:"server"`
	Database postgres.Config  `yaml:"database"`
	Minio    blobstore.Config `yaml:"minio"`
	Kafka    kafka.Config     `yaml:"kafka"`
	Log      logger.Log       `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
