package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type IdentityProxy struct {
	Owner      common.Address `db:"owner"`
	Index      uint           `db:"idx"`
	Address    common.Address `db:"address"`
	Controller common.Address `db:"controller"`
	CreatedAt  *time.Time     `db:"created_at"`
	UpdatedAt  *time.Time     `db:"updated_at"`
}

type IdentityProxiesRepo interface {
	Ensure(ctx context.Context, proxy *IdentityProxy) error
	GetByOwner(ctx context.Context, owner common.Address) (*IdentityProxy, error)
	Count(ctx context.Context) (uint, error)
}
