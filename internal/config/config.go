package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appDirName = "fleet-maintenance"

// Config holds all application settings. Values come from the per-user
// JSON config file, overridden by environment variables, with sane
// defaults for a local MongoDB.
type Config struct {
	MongoURI      string        `mapstructure:"mongodb_uri"`
	Database      string        `mapstructure:"database_name"`
	Port          string        `mapstructure:"app_port"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	Debug         bool          `mapstructure:"debug_mode"`
	Theme         string        `mapstructure:"theme"`
	Language      string        `mapstructure:"language"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	MQTTBroker    string        `mapstructure:"mqtt_broker_url"`
	MQTTTopic     string        `mapstructure:"mqtt_topic"`
}

// Dir returns the per-OS directory holding the application's config file.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads the JSON config file from the per-OS config directory and
// applies environment overrides. A missing config file is not an error;
// the defaults plus environment are used.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}

	setDefaults(v)

	v.AutomaticEnv()
	_ = v.BindEnv("mongodb_uri", "MONGODB_URI")
	_ = v.BindEnv("database_name", "DATABASE_NAME")
	_ = v.BindEnv("app_port", "APP_PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")
	_ = v.BindEnv("debug_mode", "DEBUG_MODE")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("jwt_expiration", "JWT_EXPIRATION")
	_ = v.BindEnv("mqtt_broker_url", "MQTT_BROKER_URL")
	_ = v.BindEnv("mqtt_topic", "MQTT_TOPIC")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mongodb_uri", "mongodb://localhost:27017")
	v.SetDefault("database_name", "fleet_maintenance")
	v.SetDefault("app_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("debug_mode", false)
	v.SetDefault("theme", "light")
	v.SetDefault("language", "en")
	v.SetDefault("jwt_secret", "change-me-in-production")
	v.SetDefault("jwt_expiration", "24h")
	v.SetDefault("mqtt_broker_url", "")
	v.SetDefault("mqtt_topic", "fleet/maintenance/events")
}
