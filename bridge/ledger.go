package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/omni/authority-bridge/contract/abi"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/logging"
	"github.com/omni/authority-bridge/repository"
)

const (
	LedgerMain = "main"
	LedgerSide = "side"
)

// Publisher forwards committed logs to external observers, such as relayers.
type Publisher interface {
	Publish(ctx context.Context, logs []*entity.Log) error
}

type Options struct {
	Address     common.Address
	Authorities []common.Address
	Threshold   uint
	Store       repository.Store
	Recipients  *RecipientRegistry
	Publisher   Publisher
	Logger      logging.Logger
}

type ledger struct {
	name        string
	address     common.Address
	authorities *AuthoritySet
	store       repository.Store
	recipients  *RecipientRegistry
	publisher   Publisher
	logger      logging.Logger
	contractABI *abi.ABI

	mu sync.Mutex
}

func newLedger(name string, contractABI *abi.ABI, opts Options) (*ledger, error) {
	authorities, err := NewAuthoritySet(opts.Authorities, opts.Threshold)
	if err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrConfiguration)
	}
	l := &ledger{
		name:        name,
		address:     opts.Address,
		authorities: authorities,
		store:       opts.Store,
		recipients:  opts.Recipients,
		publisher:   opts.Publisher,
		logger:      opts.Logger,
		contractABI: contractABI,
	}
	if l.recipients == nil {
		l.recipients = NewRecipientRegistry()
	}
	if l.logger == nil {
		l.logger = logrus.StandardLogger()
	}
	l.logger = l.logger.WithFields(logrus.Fields{
		"ledger":  name,
		"address": opts.Address,
	})
	return l, nil
}

func (l *ledger) Name() string {
	return l.name
}

func (l *ledger) Address() common.Address {
	return l.address
}

func (l *ledger) Threshold() uint {
	return l.authorities.Threshold()
}

func (l *ledger) Authority(i uint) (common.Address, error) {
	return l.authorities.Authority(i)
}

func (l *ledger) Authorities() []common.Address {
	return l.authorities.Authorities()
}

func (l *ledger) IsAuthority(a common.Address) bool {
	return l.authorities.IsAuthority(a)
}

func (l *ledger) Logs(ctx context.Context, fromID uint, limit uint64) ([]*entity.Log, error) {
	return l.store.Repo().Logs.FindByLedger(ctx, l.name, fromID, limit)
}

func (l *ledger) ParseLog(log *entity.Log) (string, map[string]interface{}, error) {
	return l.contractABI.ParseLog(log)
}

// txState collects the logs emitted by a single operation.
type txState struct {
	id     string
	ledger *ledger
	logs   []*entity.Log
}

func (tx *txState) emit(event string, args ...interface{}) error {
	topics, data, err := tx.ledger.contractABI.PackLog(event, args...)
	if err != nil {
		return err
	}
	log := &entity.Log{
		Ledger:        tx.ledger.name,
		Address:       tx.ledger.address,
		Data:          data,
		TransactionID: tx.id,
		LogIndex:      uint(len(tx.logs)),
	}
	log.SetTopics(topics)
	tx.logs = append(tx.logs, log)
	return nil
}

type operation func(ctx context.Context, repo *repository.Repo, tx *txState) (*Result, error)

// transact runs op as a single all-or-nothing transaction. Operations of one
// ledger never interleave. Emitted logs are stored with the rest of the
// state and published only after commit.
func (l *ledger) transact(ctx context.Context, name string, fields logrus.Fields, op operation) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	tx := &txState{id: uuid.NewString(), ledger: l}
	logger := l.logger.WithFields(fields).WithFields(logrus.Fields{
		"operation": name,
		"tx_id":     tx.id,
	})

	var res *Result
	err := l.store.Transact(ctx, func(ctx context.Context, repo *repository.Repo) error {
		tx.logs = nil
		r, err := op(ctx, repo, tx)
		if err != nil {
			return err
		}
		if len(tx.logs) > 0 {
			if err = repo.Logs.Ensure(ctx, tx.logs...); err != nil {
				return err
			}
		}
		r.TransactionID = tx.id
		r.Logs = tx.logs
		res = r
		return nil
	})
	OperationDuration.WithLabelValues(l.name, name).Observe(time.Since(start).Seconds())
	OperationsTotal.WithLabelValues(l.name, name, errorLabel(err)).Inc()
	if err != nil {
		logger.WithError(err).Warn("operation rejected")
		return nil, err
	}

	if res.Status == StatusThresholdReached {
		ThresholdsReached.WithLabelValues(l.name, name).Inc()
	}
	if res.ProxyCreated {
		ProxiesCreated.WithLabelValues(l.name).Inc()
	}
	logger.WithFields(logrus.Fields{
		"status":     res.Status,
		"message_id": res.MessageID,
	}).Info("operation applied")

	if l.publisher != nil && len(res.Logs) > 0 {
		if err = l.publisher.Publish(ctx, res.Logs); err != nil {
			logger.WithError(err).Error("can't publish logs")
		}
	}
	return res, nil
}
