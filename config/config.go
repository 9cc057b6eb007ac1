package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "WEATHER_HISTORY"

var ErrMissingAPIKey = errors.New("openweather api key is not set (weather.api_key or OPENWEATHER_API_KEY)")

type Config struct {
	Weather  WeatherConfig  `mapstructure:"weather"`
	Geonames GeonamesConfig `mapstructure:"geonames"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Log      LogConfig      `mapstructure:"log"`
}

type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	MaxDays int           `mapstructure:"max_days" validate:"min=1"`
	Units   string        `mapstructure:"units" validate:"omitempty,oneof=standard metric imperial"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type GeonamesConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Parser  string        `mapstructure:"parser" validate:"oneof=legacy strict"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type APIConfig struct {
	Port    int  `mapstructure:"port" validate:"min=1,max=65535"`
	Enabled bool `mapstructure:"enabled"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker" validate:"required_if=Enabled true"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// Load reads configPath (or ./config.yaml, /etc/weather-history/config.yaml),
// applies defaults and WEATHER_HISTORY_* environment overrides, and validates
// the result. A .env file in the working directory is loaded first;
// OPENWEATHER_API_KEY sets weather.api_key.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/weather-history")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("weather.api_key", envPrefix+"_WEATHER_API_KEY", "OPENWEATHER_API_KEY"); err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5/onecall/timemachine")
	v.SetDefault("weather.max_days", 5)
	v.SetDefault("weather.units", "")
	v.SetDefault("weather.timeout", "0s")
	v.SetDefault("geonames.base_url", "https://www.geonames.org/search.html")
	v.SetDefault("geonames.parser", "legacy")
	v.SetDefault("geonames.timeout", "0s")
	v.SetDefault("output.dir", ".")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.path", "./weather-history.db")
	v.SetDefault("api.port", 8045)
	v.SetDefault("api.enabled", true)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic_prefix", "weather-history")
	v.SetDefault("mqtt.client_id", "weather-history")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireAPIKey fails for commands that fetch history without a key.
func (c *Config) RequireAPIKey() error {
	if err := validate.Var(strings.TrimSpace(c.Weather.APIKey), "required"); err != nil {
		return ErrMissingAPIKey
	}
	return nil
}
