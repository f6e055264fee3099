package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type identityProxiesRepo basePostgresRepo

func NewIdentityProxiesRepo(table string, db db.Querier) entity.IdentityProxiesRepo {
	return (*identityProxiesRepo)(newBasePostgresRepo(table, db))
}

func (r *identityProxiesRepo) Ensure(ctx context.Context, proxy *entity.IdentityProxy) error {
	q, args, err := sq.Insert(r.table).
		Columns("owner", "idx", "address", "controller").
		Values(proxy.Owner, proxy.Index, proxy.Address, proxy.Controller).
		Suffix("ON CONFLICT (owner) DO UPDATE SET updated_at = NOW()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert identity proxy: %w", err)
	}
	return nil
}

func (r *identityProxiesRepo) GetByOwner(ctx context.Context, owner common.Address) (*entity.IdentityProxy, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"owner": owner}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	proxy := new(entity.IdentityProxy)
	err = r.db.GetContext(ctx, proxy, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get identity proxy: %w", err)
	}
	return proxy, nil
}

func (r *identityProxiesRepo) Count(ctx context.Context) (uint, error) {
	q, args, err := sq.Select("COUNT(*)").
		From(r.table).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("can't build query: %w", err)
	}
	var count uint
	err = r.db.GetContext(ctx, &count, q, args...)
	if err != nil {
		return 0, fmt.Errorf("can't count identity proxies: %w", err)
	}
	return count, nil
}
