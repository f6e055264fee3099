package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ConfirmedMessage is the header of a confirmation record: the payload first
// supplied for a message id and its progress towards the threshold.
type ConfirmedMessage struct {
	MessageID        common.Hash     `db:"message_id"`
	OriginReference  common.Hash     `db:"origin_reference"`
	Sender           common.Address  `db:"sender"`
	Recipient        common.Address  `db:"recipient"`
	Payload          []byte          `db:"payload"`
	NumConfirmations uint            `db:"num_confirmations"`
	Executed         bool            `db:"executed"`
	Proxy            *common.Address `db:"proxy"`
	CreatedAt        *time.Time      `db:"created_at"`
	UpdatedAt        *time.Time      `db:"updated_at"`
}

type ConfirmedMessagesRepo interface {
	Ensure(ctx context.Context, msg *ConfirmedMessage) error
	GetByMessageID(ctx context.Context, messageID common.Hash) (*ConfirmedMessage, error)
	FindPending(ctx context.Context, createdBefore time.Time) ([]*ConfirmedMessage, error)
}
