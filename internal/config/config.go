package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/lairai/internal/constants"
	"github.com/Alturino/lairai/internal/log"
)

type Application struct {
	Env     string `mapstructure:"env" json:"env"`
	Host    string `mapstructure:"host" json:"host"`
	LogPath string `mapstructure:"log_path" json:"log_path"`
	Port    int    `mapstructure:"port" json:"port"`
}

type Backend struct {
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

type Cache struct {
	Driver   string        `mapstructure:"driver" json:"driver"`
	Host     string        `mapstructure:"host" json:"host"`
	Password string        `mapstructure:"password" json:"-"`
	TTL      time.Duration `mapstructure:"ttl" json:"ttl"`
	Database int           `mapstructure:"database" json:"database"`
	Port     uint16        `mapstructure:"port" json:"port"`
}

type Otel struct {
	Host    string `mapstructure:"host" json:"host"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Port    int    `mapstructure:"port" json:"port"`
}

type Locale struct {
	TimeZone string `mapstructure:"timezone" json:"timezone"`
}

type Restaurant struct {
	Name    string `mapstructure:"name" json:"name"`
	Address string `mapstructure:"address" json:"address"`
	Phone   string `mapstructure:"phone" json:"phone"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Backend     `mapstructure:"backend" json:"backend"`
	Cache       `mapstructure:"cache" json:"cache"`
	Otel        `mapstructure:"otel" json:"otel"`
	Locale      `mapstructure:"locale" json:"locale"`
	Restaurant  `mapstructure:"restaurant" json:"restaurant"`
}

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", constants.APP_DEFAULT_ENV)
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.log_path", constants.DEFAULT_LOG_PATH)
	v.SetDefault("backend.base_url", constants.DEFAULT_BASE_URL)
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("cache.driver", CacheDriverMemory)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
	v.SetDefault("locale.timezone", constants.DEFAULT_TIME_ZONE)
	v.SetDefault("restaurant.name", "LAI RAI QUÁN")
}

// Load reads ./env/<filename>.yaml on top of the defaults. Environment
// variables override both, with dots replaced by underscores
// (backend.base_url -> BACKEND_BASE_URL). A missing file is not an error.
func Load(c context.Context, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str("filename", filename).
		Logger()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
	logger.Info().Msg("reading config")
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed reading config with error=%w", err)
		}
		logger.Info().Msg("config file not found using defaults")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed unmarshaling config with error=%w", err)
	}
	logger.Info().Any(log.KeyConfig, cfg).Msg("unmarshaled config")

	return &cfg, nil
}

// Get loads the process config once and terminates the process when it
// cannot be read.
func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "config Get").
			Str(log.KeyProcess, "init config").
			Logger()

		cfg, err := Load(c, filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
	})
	return config
}
