package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type confirmationsRepo basePostgresRepo

func NewConfirmationsRepo(table string, db db.Querier) entity.ConfirmationsRepo {
	return (*confirmationsRepo)(newBasePostgresRepo(table, db))
}

func (r *confirmationsRepo) Ensure(ctx context.Context, c *entity.Confirmation) error {
	q, args, err := sq.Insert(r.table).
		Columns("message_id", "authority", "transaction_id").
		Values(c.MessageID, c.Authority, c.TransactionID).
		Suffix("ON CONFLICT (message_id, authority) DO UPDATE SET updated_at = NOW()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert confirmation: %w", err)
	}
	return nil
}

func (r *confirmationsRepo) GetByAuthority(ctx context.Context, messageID common.Hash, authority common.Address) (*entity.Confirmation, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"message_id": messageID, "authority": authority}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	c := new(entity.Confirmation)
	err = r.db.GetContext(ctx, c, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get confirmation: %w", err)
	}
	return c, nil
}

func (r *confirmationsRepo) FindByMessageID(ctx context.Context, messageID common.Hash) ([]*entity.Confirmation, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"message_id": messageID}).
		OrderBy("created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	res := make([]*entity.Confirmation, 0, 4)
	err = r.db.SelectContext(ctx, &res, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get confirmations: %w", err)
	}
	return res, nil
}
