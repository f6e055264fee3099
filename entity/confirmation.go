package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Confirmation struct {
	MessageID     common.Hash    `db:"message_id"`
	Authority     common.Address `db:"authority"`
	TransactionID string         `db:"transaction_id"`
	CreatedAt     *time.Time     `db:"created_at"`
	UpdatedAt     *time.Time     `db:"updated_at"`
}

type ConfirmationsRepo interface {
	Ensure(ctx context.Context, c *Confirmation) error
	GetByAuthority(ctx context.Context, messageID common.Hash, authority common.Address) (*Confirmation, error)
	FindByMessageID(ctx context.Context, messageID common.Hash) ([]*Confirmation, error)
}
