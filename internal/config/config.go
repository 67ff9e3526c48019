package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Grading  *GradingConfig  `mapstructure:"grading"`
	Mail     *MailConfig     `mapstructure:"mail"`
	Storage  *StorageConfig  `mapstructure:"storage"`
	Rollbar  *RollbarConfig  `mapstructure:"rollbar"`
}

type APIConfig struct {
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	Environment        string        `mapstructure:"environment"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	DownloadTokenTTL   time.Duration `mapstructure:"download_token_ttl"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	MaintenanceMode    bool          `mapstructure:"maintenance_mode"`
	SecureCookies      bool          `mapstructure:"secure_cookies"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig with an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GradingConfig struct {
	ResultScheme     string `mapstructure:"result_scheme"`
	CumulativeScheme string `mapstructure:"cumulative_scheme"`
}

type MailConfig struct {
	Provider    string `mapstructure:"provider"`
	SendGridKey string `mapstructure:"sendgrid_key"`
	FromName    string `mapstructure:"from_name"`
	FromEmail   string `mapstructure:"from_email"`
	AdminEmail  string `mapstructure:"admin_email"`
}

type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	LocalDir      string `mapstructure:"local_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	B2KeyID       string `mapstructure:"b2_key_id"`
	B2AppKey      string `mapstructure:"b2_app_key"`
	B2Bucket      string `mapstructure:"b2_bucket"`
}

type RollbarConfig struct {
	Token string `mapstructure:"token"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.token_ttl", 12*time.Hour)
	v.SetDefault("api.download_token_ttl", 15*time.Minute)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("grading.result_scheme", "waec")
	v.SetDefault("grading.cumulative_scheme", "letter")
	v.SetDefault("mail.provider", "console")
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_dir", "./uploads")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	if conf.API == nil || conf.Gin == nil || conf.Postgres == nil {
		return nil, fmt.Errorf("config is missing one of the api, gin or postgres sections")
	}
	if conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key is required")
	}
	if conf.Redis == nil {
		conf.Redis = &RedisConfig{}
	}
	if conf.Grading == nil {
		conf.Grading = &GradingConfig{ResultScheme: "waec", CumulativeScheme: "letter"}
	}
	if conf.Mail == nil {
		conf.Mail = &MailConfig{Provider: "console"}
	}
	if conf.Storage == nil {
		conf.Storage = &StorageConfig{Provider: "local", LocalDir: "./uploads"}
	}
	if conf.Rollbar == nil {
		conf.Rollbar = &RollbarConfig{}
	}

	return conf, nil
}

func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// LoadAndWatch loads the config and calls onChange with the fresh config
// every time the file is rewritten. Invalid rewrites are reported through
// onError and otherwise ignored.
func LoadAndWatch(path string, onChange func(*AppConfig), onError func(error)) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		updated, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s -> %w", e.Name, err))
			}
			return
		}
		onChange(updated)
	})
	v.WatchConfig()

	return conf, nil
}
