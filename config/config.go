package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	RecipientKindRecorder = "recorder"
	RecipientKindJSONRPC  = "jsonrpc"

	LedgerMain = "main"
	LedgerSide = "side"

	defaultMetricsHost       = ":2112"
	defaultAlertInterval     = time.Minute
	defaultAlertMinAge       = 10 * time.Minute
	defaultRecipientTimeout  = 10 * time.Second
	defaultRedisChannel      = "bridge:logs"
	defaultJSONRPCMethodName = "bridge_accept"
)

var ErrInvalidConfig = errors.New("invalid config")

type LedgerConfig struct {
	Address     common.Address   `yaml:"address"`
	Threshold   uint             `yaml:"threshold"`
	Authorities []common.Address `yaml:"authorities"`
}

type RecipientConfig struct {
	Ledger  string         `yaml:"ledger"`
	Address common.Address `yaml:"address"`
	Kind    string         `yaml:"kind"`
	URL     string         `yaml:"url"`
	Method  string         `yaml:"method"`
	Timeout time.Duration  `yaml:"timeout"`
}

type DBConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       string `yaml:"database"`
}

type RedisConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Channel string `yaml:"channel"`
}

type PresenterConfig struct {
	Host string `yaml:"host"`
}

type AlertConfig struct {
	Interval time.Duration `yaml:"interval"`
	MinAge   time.Duration `yaml:"min_age"`
}

type Config struct {
	Main        *LedgerConfig           `yaml:"main"`
	Side        *LedgerConfig           `yaml:"side"`
	Storage     string                  `yaml:"storage"`
	DBConfig    *DBConfig               `yaml:"postgres"`
	Redis       *RedisConfig            `yaml:"redis"`
	Recipients  []*RecipientConfig      `yaml:"recipients"`
	Alerts      map[string]*AlertConfig `yaml:"alerts"`
	LogLevel    logrus.Level            `yaml:"log_level"`
	Presenter   *PresenterConfig        `yaml:"presenter"`
	MetricsHost string                  `yaml:"metrics_host"`
}

func (cfg *Config) LedgerConfig(ledger string) *LedgerConfig {
	switch ledger {
	case LedgerMain:
		return cfg.Main
	case LedgerSide:
		return cfg.Side
	default:
		return nil
	}
}

func (cfg *Config) init() error {
	if cfg.Main == nil || cfg.Side == nil {
		return fmt.Errorf("both main and side ledgers should be configured: %w", ErrInvalidConfig)
	}
	switch cfg.Storage {
	case "":
		cfg.Storage = StorageMemory
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBConfig == nil {
			return fmt.Errorf("postgres storage requires postgres section: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown storage %q: %w", cfg.Storage, ErrInvalidConfig)
	}
	if cfg.Redis != nil && cfg.Redis.Channel == "" {
		cfg.Redis.Channel = defaultRedisChannel
	}
	for i, r := range cfg.Recipients {
		if r.Ledger != LedgerMain && r.Ledger != LedgerSide {
			return fmt.Errorf("recipient #%d has unknown ledger %q: %w", i, r.Ledger, ErrInvalidConfig)
		}
		switch r.Kind {
		case RecipientKindRecorder:
		case RecipientKindJSONRPC:
			if r.URL == "" {
				return fmt.Errorf("jsonrpc recipient %s requires url: %w", r.Address, ErrInvalidConfig)
			}
			if r.Method == "" {
				r.Method = defaultJSONRPCMethodName
			}
		default:
			return fmt.Errorf("recipient %s has unknown kind %q: %w", r.Address, r.Kind, ErrInvalidConfig)
		}
		if r.Timeout == 0 {
			r.Timeout = defaultRecipientTimeout
		}
	}
	for name, alert := range cfg.Alerts {
		if alert == nil {
			alert = new(AlertConfig)
			cfg.Alerts[name] = alert
		}
		if alert.Interval == 0 {
			alert.Interval = defaultAlertInterval
		}
		if alert.MinAge == 0 {
			alert.MinAge = defaultAlertMinAge
		}
	}
	if cfg.MetricsHost == "" {
		cfg.MetricsHost = defaultMetricsHost
	}
	return nil
}

func ReadConfig(blob []byte) (*Config, error) {
	cfg := &Config{LogLevel: logrus.InfoLevel}
	if err := parseYaml(cfg, blob); err != nil {
		return nil, err
	}
	if err := cfg.init(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ReadConfigWithEnv(blob []byte) (*Config, error) {
	cfg, err := ReadConfig([]byte(os.ExpandEnv(string(blob))))
	if err != nil {
		return nil, err
	}
	if err = applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ReadConfigFromFile(path string) (*Config, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}
	return ReadConfigWithEnv(blob)
}
