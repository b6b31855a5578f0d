package config

import (
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	AppEnv         string        `envconfig:"APP_ENV" default:"development"`
	Timezone       string        `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	CorsOrigins    []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	Store  StoreConfig
	Auth   AuthConfig
	Logger LoggerConfig
	Cloud  CloudConfig
}

type StoreConfig struct {
	// Driver is one of memory, mysql, postgres, mongo.
	Driver        string `envconfig:"STORE_DRIVER" default:"memory"`
	DSN           string `envconfig:"STORE_DSN"`
	MongoURI      string `envconfig:"STORE_MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"STORE_MONGO_DATABASE" default:"pos"`
}

type AuthConfig struct {
	TokenSecret string        `envconfig:"AUTH_TOKEN_SECRET" required:"true"`
	TokenTTL    time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
}

type LoggerConfig struct {
	Mode       string `envconfig:"LOG_MODE" default:"development"`
	FileEnable bool   `envconfig:"LOG_FILE_ENABLE" default:"false"`
	Filename   string `envconfig:"LOG_FILENAME" default:"logs/pos-api.log"`
}

// CloudConfig holds the object-storage credentials used to sign uploads.
type CloudConfig struct {
	Name         string `envconfig:"CLOUD_NAME"`
	APIKey       string `envconfig:"CLOUD_API_KEY"`
	APISecret    string `envconfig:"CLOUD_API_SECRET"`
	UploadFolder string `envconfig:"CLOUD_UPLOAD_FOLDER" default:"products"`
}

// Load reads an optional .env file and decodes the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "load %s", f)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "mongo":
	case "mysql", "postgres":
		if c.Store.DSN == "" {
			return errors.Errorf("STORE_DSN is required for driver %q", c.Store.Driver)
		}
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(err, "TIMEZONE %q", c.Timezone)
	}
	return nil
}

// Location is the calendar used for day boundaries in reports and dues.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
