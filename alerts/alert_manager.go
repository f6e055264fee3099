package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/omni/authority-bridge/config"
	"github.com/omni/authority-bridge/logging"
	"github.com/omni/authority-bridge/repository"
)

const (
	StuckConfirmationAlert = "stuck_confirmation"
	StuckSignatureAlert    = "stuck_signature"
)

type AlertManager struct {
	logger logging.Logger
	jobs   map[string]*Job
}

func NewAlertManager(logger logging.Logger, repo *repository.Repo, cfg map[string]*config.AlertConfig) (*AlertManager, error) {
	provider := NewAlertsProvider(repo)
	jobs := make(map[string]*Job, len(cfg))

	for name, alertCfg := range cfg {
		switch name {
		case StuckConfirmationAlert:
			jobs[name] = &Job{
				Timeout: time.Second * 20,
				Func:    provider.FindStuckConfirmations,
				Metric:  AlertStuckConfirmation,
			}
		case StuckSignatureAlert:
			jobs[name] = &Job{
				Timeout: time.Second * 20,
				Func:    provider.FindStuckSignatures,
				Metric:  AlertStuckSignature,
			}
		default:
			return nil, fmt.Errorf("unknown alert type %q", name)
		}
		jobs[name].Interval = alertCfg.Interval
		jobs[name].Params = &AlertJobParams{MinAge: alertCfg.MinAge}
		jobs[name].logger = logger.WithField("alert_job", name)
	}

	return &AlertManager{
		logger: logger,
		jobs:   jobs,
	}, nil
}

func (m *AlertManager) Start(ctx context.Context) {
	m.logger.WithField("count", len(m.jobs)).Info("starting alert manager jobs")
	for _, job := range m.jobs {
		go job.Start(ctx)
	}
}
