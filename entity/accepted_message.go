package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type AcceptedMessage struct {
	MessageID     common.Hash    `db:"message_id"`
	Sender        common.Address `db:"sender"`
	Recipient     common.Address `db:"recipient"`
	NumSignatures uint           `db:"num_signatures"`
	TransactionID string         `db:"transaction_id"`
	CreatedAt     *time.Time     `db:"created_at"`
	UpdatedAt     *time.Time     `db:"updated_at"`
}

type AcceptedMessagesRepo interface {
	Ensure(ctx context.Context, msg *AcceptedMessage) error
	GetByMessageID(ctx context.Context, messageID common.Hash) (*AcceptedMessage, error)
}
