package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type SignedMessage struct {
	MsgHash           common.Hash     `db:"msg_hash"`
	Message           []byte          `db:"message"`
	NumSignatures     uint            `db:"num_signatures"`
	Finalized         bool            `db:"finalized"`
	RelayingAuthority *common.Address `db:"relaying_authority"`
	CreatedAt         *time.Time      `db:"created_at"`
	UpdatedAt         *time.Time      `db:"updated_at"`
}

type SignedMessagesRepo interface {
	Ensure(ctx context.Context, msg *SignedMessage) error
	GetByMsgHash(ctx context.Context, msgHash common.Hash) (*SignedMessage, error)
	FindPending(ctx context.Context, createdBefore time.Time) ([]*SignedMessage, error)
}
