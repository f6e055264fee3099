package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Log struct {
	ID            uint           `db:"id"`
	Ledger        string         `db:"ledger"`
	Address       common.Address `db:"address"`
	Topic0        *common.Hash   `db:"topic0"`
	Topic1        *common.Hash   `db:"topic1"`
	Topic2        *common.Hash   `db:"topic2"`
	Topic3        *common.Hash   `db:"topic3"`
	Data          []byte         `db:"data"`
	TransactionID string         `db:"transaction_id"`
	LogIndex      uint           `db:"log_index"`
	CreatedAt     *time.Time     `db:"created_at"`
	UpdatedAt     *time.Time     `db:"updated_at"`
}

func (l *Log) Topics() []common.Hash {
	topics := make([]common.Hash, 0, 4)
	for _, t := range []*common.Hash{l.Topic0, l.Topic1, l.Topic2, l.Topic3} {
		if t == nil {
			break
		}
		topics = append(topics, *t)
	}
	return topics
}

func (l *Log) SetTopics(topics []common.Hash) {
	l.Topic0, l.Topic1, l.Topic2, l.Topic3 = nil, nil, nil, nil
	for i := range topics {
		topic := topics[i]
		switch i {
		case 0:
			l.Topic0 = &topic
		case 1:
			l.Topic1 = &topic
		case 2:
			l.Topic2 = &topic
		case 3:
			l.Topic3 = &topic
		}
	}
}

type LogsRepo interface {
	Ensure(ctx context.Context, logs ...*Log) error
	GetByID(ctx context.Context, id uint) (*Log, error)
	FindByLedger(ctx context.Context, ledger string, fromID uint, limit uint64) ([]*Log, error)
	FindByTransactionID(ctx context.Context, txID string) ([]*Log, error)
}
