package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/gomodule/redigo/redis"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omni/authority-bridge/alerts"
	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/config"
	"github.com/omni/authority-bridge/contract/bridgeabi"
	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/logging"
	"github.com/omni/authority-bridge/notify"
	"github.com/omni/authority-bridge/presenter"
	"github.com/omni/authority-bridge/recipient"
	"github.com/omni/authority-bridge/repository"
	"github.com/omni/authority-bridge/repository/memory"
)

func main() {
	logger := logging.New()

	cfg, err := config.ReadConfigFromFile("config.yml")
	if err != nil {
		logger.WithError(err).Fatal("can't read config")
	}
	logger.SetLevel(cfg.LogLevel)

	var store repository.Store
	switch cfg.Storage {
	case config.StoragePostgres:
		dbConn, err2 := db.ConnectToDBAndMigrate(cfg.DBConfig)
		if err2 != nil {
			logger.WithError(err2).Fatal("can't connect to database and apply migrations")
		}
		defer dbConn.Close()
		store = repository.NewPostgresStore(dbConn)
	default:
		logger.Warn("using in-memory storage, state will be lost on restart")
		store = memory.NewStore()
	}

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		err2 := http.ListenAndServe(cfg.MetricsHost, nil)
		if err2 != nil {
			logger.WithError(err2).Fatal("can't start listener for prometheus metrics")
		}
	}()

	registries := map[string]*bridge.RecipientRegistry{
		config.LedgerMain: bridge.NewRecipientRegistry(),
		config.LedgerSide: bridge.NewRecipientRegistry(),
	}
	for _, r := range cfg.Recipients {
		switch r.Kind {
		case config.RecipientKindRecorder:
			registries[r.Ledger].Register(r.Address, recipient.NewRecorder())
		case config.RecipientKindJSONRPC:
			registries[r.Ledger].Register(r.Address, recipient.NewJSONRPC(r.URL, r.Method, r.Timeout))
		}
		logger.WithField("ledger", r.Ledger).WithField("recipient", r.Address).WithField("kind", r.Kind).Info("registered recipient")
	}

	publishers := map[string]bridge.Publisher{}
	if cfg.Redis != nil {
		pool := notify.NewRedisPool(cfg.Redis)
		defer closePool(logger, pool)
		publishers[config.LedgerMain] = notify.NewRedisNotifier(pool, cfg.Redis.Channel, &bridgeabi.MainABI, logger.WithField("service", "notifier"))
		publishers[config.LedgerSide] = notify.NewRedisNotifier(pool, cfg.Redis.Channel, &bridgeabi.SideABI, logger.WithField("service", "notifier"))
	}

	mainLedger, err := bridge.NewMain(ledgerOptions(cfg, config.LedgerMain, store, registries, publishers, logger))
	if err != nil {
		logger.WithError(err).Fatal("can't initialize main ledger")
	}
	sideLedger, err := bridge.NewSide(ledgerOptions(cfg, config.LedgerSide, store, registries, publishers, logger))
	if err != nil {
		logger.WithError(err).Fatal("can't initialize side ledger")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.Alerts) > 0 {
		alertManager, err2 := alerts.NewAlertManager(logger.WithField("service", "alerts"), store.Repo(), cfg.Alerts)
		if err2 != nil {
			logger.WithError(err2).Fatal("can't initialize alert manager")
		}
		alertManager.Start(ctx)
	}

	if cfg.Presenter != nil {
		pr := presenter.NewPresenter(logger.WithField("service", "presenter"), mainLedger, sideLedger)
		go func() {
			err2 := pr.Serve(cfg.Presenter.Host)
			if err2 != nil {
				logger.WithError(err2).Fatal("can't serve presenter")
			}
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	for range c {
		cancel()
		logger.Warn("caught CTRL-C, gracefully terminating")
		return
	}
}

func ledgerOptions(cfg *config.Config, name string, store repository.Store, registries map[string]*bridge.RecipientRegistry, publishers map[string]bridge.Publisher, logger logging.Logger) bridge.Options {
	ledgerCfg := cfg.LedgerConfig(name)
	return bridge.Options{
		Address:     ledgerCfg.Address,
		Authorities: ledgerCfg.Authorities,
		Threshold:   ledgerCfg.Threshold,
		Store:       store,
		Recipients:  registries[name],
		Publisher:   publishers[name],
		Logger:      logger,
	}
}

func closePool(logger logging.Logger, pool *redis.Pool) {
	if err := pool.Close(); err != nil {
		logger.WithError(err).Error("can't close redis pool")
	}
}
