package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	BodyLimitMB    int    `mapstructure:"body_limit_mb"`
	StaticDir      string `mapstructure:"static_dir"`
	RequestLog     bool   `mapstructure:"request_log"`
}

type MongoConf struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	Collection     string `mapstructure:"collection"`
	ConnectSeconds int    `mapstructure:"connect_timeout_seconds"`
}

type MediaConf struct {
	Provider        string `mapstructure:"provider"`
	Folder          string `mapstructure:"folder"`
	MaxPayloadBytes int    `mapstructure:"max_payload_bytes"`
}

type CloudinaryConf struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type S3Conf struct {
	PublicBaseURL string `mapstructure:"public_base_url"`
	Thumbnails    bool   `mapstructure:"thumbnails"`
}

type RedisConf struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	RateLimit     int    `mapstructure:"rate_limit"`
	RateWindowSec int    `mapstructure:"rate_window_seconds"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Config struct {
	App        AppConf        `mapstructure:"app"`
	Mongo      MongoConf      `mapstructure:"mongodb"`
	Media      MediaConf      `mapstructure:"media"`
	Cloudinary CloudinaryConf `mapstructure:"cloudinary"`
	AWS        AWSConf        `mapstructure:"aws"`
	S3         S3Conf         `mapstructure:"s3"`
	Redis      RedisConf      `mapstructure:"redis"`
	Kafka      KafkaConf      `mapstructure:"kafka"`
	Log        struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	ConnectTimeout  time.Duration
	RateWindow      time.Duration
}

var defaults = map[string]interface{}{
	"app.env":                         "production",
	"app.port":                        4000,
	"app.shutdown_seconds":            15,
	"app.body_limit_mb":               50,
	"app.static_dir":                  "./public",
	"app.request_log":                 true,
	"mongodb.uri":                     "",
	"mongodb.database":                "gallery",
	"mongodb.collection":              "images",
	"mongodb.connect_timeout_seconds": 10,
	"media.provider":                  ProviderCloudinary,
	"media.folder":                    "uploads",
	"media.max_payload_bytes":         50 * 1024 * 1024,
	"cloudinary.cloud_name":           "",
	"cloudinary.api_key":              "",
	"cloudinary.api_secret":           "",
	"aws.region":                      "us-east-1",
	"aws.bucket":                      "",
	"aws.endpoint":                    "",
	"s3.public_base_url":              "",
	"s3.thumbnails":                   false,
	"redis.addr":                      "",
	"redis.password":                  "",
	"redis.db":                        0,
	"redis.rate_limit":                120,
	"redis.rate_window_seconds":       60,
	"kafka.brokers":                   []string{},
	"kafka.topic":                     "image.events",
	"log.level":                       "info",
}

// Environment names kept from earlier deployments, checked after the
// SECTION_KEY form.
var aliases = map[string]string{
	"mongodb.uri":           "URL",
	"app.port":              "PORT",
	"cloudinary.cloud_name": "CLOUD_NAME",
	"cloudinary.api_key":    "API_KEY",
	"cloudinary.api_secret": "API_SECRET",
}

// Load reads path if it exists, then .env, then the environment. Env
// variables use the upper-cased key with dots replaced, e.g. MONGODB_URI.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range aliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.ConnectTimeout = time.Duration(cfg.Mongo.ConnectSeconds) * time.Second
	cfg.RateWindow = time.Duration(cfg.Redis.RateWindowSec) * time.Second
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongodb.uri is required"))
	}
	switch c.Media.Provider {
	case ProviderCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			errs = append(errs, errors.New("cloudinary.cloud_name, api_key and api_secret are required"))
		}
	case ProviderS3:
		if c.AWS.Bucket == "" {
			errs = append(errs, errors.New("aws.bucket is required for the s3 provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown media.provider %q", c.Media.Provider))
	}
	if c.App.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid app.port %d", c.App.Port))
	}
	return errors.Join(errs...)
}

func (c *Config) Development() bool { return c.App.Env == "development" }

func (c *Config) BodyLimit() int { return c.App.BodyLimitMB * 1024 * 1024 }
