// Package config defines the app configuration shared by the API server
// and the tracker client.
package config

import (
	"errors"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"5001"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
	Client struct {
		BaseURL string `yaml:"base_url" env:"BASEURL" env-default:"http://localhost:5001"`
		Timeout string `yaml:"timeout" env:"TIMEOUT" env-default:"30s"`
		Locale  string `yaml:"locale" env:"LOCALE" env-default:"en"`
	} `yaml:"client"`
	Notifications struct {
		Enabled bool `yaml:"enabled" env:"NENABLED" env-default:"true"`
	} `yaml:"notifications"`
}

// Load reads configuration from a yaml file with environment variable
// overrides. A missing file is not an error: the environment alone is
// read instead, so either binary can run from env vars only.
func Load(path string) (Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
