package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type RelayedMessage struct {
	MessageID       common.Hash    `db:"message_id"`
	OriginReference common.Hash    `db:"origin_reference"`
	Sender          common.Address `db:"sender"`
	Recipient       common.Address `db:"recipient"`
	Payload         []byte         `db:"payload"`
	CreatedAt       *time.Time     `db:"created_at"`
	UpdatedAt       *time.Time     `db:"updated_at"`
}

type RelayedMessagesRepo interface {
	Ensure(ctx context.Context, msg *RelayedMessage) error
	GetByMessageID(ctx context.Context, messageID common.Hash) (*RelayedMessage, error)
}
