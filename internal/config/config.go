package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	WhatsApp     WhatsAppConfig     `mapstructure:"whatsapp"`
	SendGrid     SendGridConfig     `mapstructure:"sendgrid"`
	Learners     LearnersConfig     `mapstructure:"learners"`
	Courses      CoursesConfig      `mapstructure:"courses"`
	Registration RegistrationConfig `mapstructure:"registration"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"min=1,max=65535"`
	Database        string            `mapstructure:"database" validate:"required"`
	Username        string            `mapstructure:"username" validate:"required"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

// RedisConfig holds the session store connection. An empty address keeps sessions in memory.
type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type AuthConfig struct {
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	Issuer        string        `mapstructure:"issuer" validate:"required"`
	// External is the hosted auth service whose session tokens are accepted for admins.
	External ExternalAuthConfig `mapstructure:"external"`
}

type ExternalAuthConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
}

type WhatsAppConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	BaseURL          string `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	PhoneNumberID    string `mapstructure:"phone_number_id" validate:"required_if=Enabled true"`
	AccessToken      string `mapstructure:"access_token"`
	LanguageCode     string `mapstructure:"language_code"`
	AssignedTemplate string `mapstructure:"assigned_template"`
	SuspendTemplate  string `mapstructure:"suspended_template"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts"`
}

type SendGridConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email" validate:"omitempty,email"`
}

type LearnersConfig struct {
	DefaultCountryCode string `mapstructure:"default_country_code" validate:"countrycode"`
}

type CoursesConfig struct {
	DefinitionsDirectory string `mapstructure:"definitions_directory"`
	ExportDirectory      string `mapstructure:"export_directory"`
}

type RegistrationConfig struct {
	DashboardURL string `mapstructure:"dashboard_url" validate:"omitempty,url"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/microcourse")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "microcourse")
	v.SetDefault("database.username", "user")
	v.SetDefault("redis.key_prefix", "microcourse:session:")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.issuer", "microcourse")
	v.SetDefault("whatsapp.base_url", "https://graph.facebook.com/v21.0")
	v.SetDefault("whatsapp.language_code", "en")
	v.SetDefault("whatsapp.assigned_template", "course_assigned")
	v.SetDefault("whatsapp.suspended_template", "course_suspended")
	v.SetDefault("whatsapp.max_retry_attempts", 3)
	v.SetDefault("sendgrid.from_name", "Microcourse")
	v.SetDefault("learners.default_country_code", "+91")
	v.SetDefault("courses.definitions_directory", "courses")
	v.SetDefault("courses.export_directory", "outputs")

	// Secrets are bound to environment variables only (not from config file)
	secrets := map[string]string{
		"database.password":     "DB_PASSWORD",
		"redis.password":        "REDIS_PASSWORD",
		"auth.session_secret":   "SESSION_SECRET",
		"auth.external.api_key": "AUTH_SERVICE_KEY",
		"whatsapp.access_token": "WHATSAPP_ACCESS_TOKEN",
		"sendgrid.api_key":      "SENDGRID_API_KEY",
	}
	for key, envName := range secrets {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", envName, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
