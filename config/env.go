package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const envPrefix = "bridge"

// envOverrides are read from BRIDGE_* variables and take precedence over the file.
type envOverrides struct {
	LogLevel         string `envconfig:"LOG_LEVEL"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	PresenterHost    string `envconfig:"PRESENTER_HOST"`
}

func applyEnvOverrides(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("can't process env overrides: %w", err)
	}
	if env.LogLevel != "" {
		lvl, err := logrus.ParseLevel(env.LogLevel)
		if err != nil {
			return fmt.Errorf("can't parse log level override: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if env.PostgresPassword != "" && cfg.DBConfig != nil {
		cfg.DBConfig.Password = env.PostgresPassword
	}
	if env.PresenterHost != "" {
		if cfg.Presenter == nil {
			cfg.Presenter = new(PresenterConfig)
		}
		cfg.Presenter.Host = env.PresenterHost
	}
	return nil
}
