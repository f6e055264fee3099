package bridge

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/repository"
)

// ProxyRegistry hands out one identity proxy per message sender. Proxies are
// kept in an arena: the n-th proxy ever created has index n and an address
// derived from the controller the way a contract deployed by it would be.
type ProxyRegistry struct {
	controller common.Address
}

func NewProxyRegistry(controller common.Address) *ProxyRegistry {
	return &ProxyRegistry{controller: controller}
}

func (p *ProxyRegistry) ProxyAddress(index uint) common.Address {
	return crypto.CreateAddress(p.controller, uint64(index)+1)
}

// ResolveOrCreate returns the proxy of owner, creating it on first use.
// It must run inside a store transaction.
func (p *ProxyRegistry) ResolveOrCreate(ctx context.Context, repo *repository.Repo, owner common.Address) (*entity.IdentityProxy, bool, error) {
	proxy, err := repo.IdentityProxies.GetByOwner(ctx, owner)
	if err == nil {
		return proxy, false, nil
	}
	if !db.IsNotFound(err) {
		return nil, false, err
	}
	count, err := repo.IdentityProxies.Count(ctx)
	if err != nil {
		return nil, false, err
	}
	proxy = &entity.IdentityProxy{
		Owner:      owner,
		Index:      count,
		Address:    p.ProxyAddress(count),
		Controller: p.controller,
	}
	if err = repo.IdentityProxies.Ensure(ctx, proxy); err != nil {
		return nil, false, fmt.Errorf("can't create identity proxy: %w", err)
	}
	return proxy, true, nil
}

func (p *ProxyRegistry) Lookup(ctx context.Context, repo *repository.Repo, owner common.Address) (common.Address, error) {
	proxy, err := repo.IdentityProxies.GetByOwner(ctx, owner)
	if err != nil {
		return common.Address{}, err
	}
	return proxy.Address, nil
}
