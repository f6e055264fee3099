package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type MessageSignature struct {
	MsgHash       common.Hash    `db:"msg_hash"`
	Index         uint           `db:"idx"`
	Authority     common.Address `db:"authority"`
	Signature     []byte         `db:"signature"`
	TransactionID string         `db:"transaction_id"`
	CreatedAt     *time.Time     `db:"created_at"`
	UpdatedAt     *time.Time     `db:"updated_at"`
}

type MessageSignaturesRepo interface {
	Ensure(ctx context.Context, sig *MessageSignature) error
	GetByAuthority(ctx context.Context, msgHash common.Hash, authority common.Address) (*MessageSignature, error)
	GetByIndex(ctx context.Context, msgHash common.Hash, index uint) (*MessageSignature, error)
	FindByMsgHash(ctx context.Context, msgHash common.Hash) ([]*MessageSignature, error)
}
