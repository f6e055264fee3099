package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type logsRepo basePostgresRepo

func NewLogsRepo(table string, db db.Querier) entity.LogsRepo {
	return (*logsRepo)(newBasePostgresRepo(table, db))
}

func (r *logsRepo) Ensure(ctx context.Context, logs ...*entity.Log) error {
	if len(logs) == 0 {
		return nil
	}
	builder := sq.Insert(r.table).
		Columns("ledger", "address", "topic0", "topic1", "topic2", "topic3", "data", "transaction_id", "log_index")
	for _, log := range logs {
		builder = builder.Values(log.Ledger, log.Address, log.Topic0, log.Topic1, log.Topic2, log.Topic3, bytea(log.Data), log.TransactionID, log.LogIndex)
	}
	q, args, err := builder.
		Suffix("ON CONFLICT (transaction_id, log_index) DO UPDATE SET updated_at = NOW()").
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	ids := make([]uint, 0, len(logs))
	err = r.db.SelectContext(ctx, &ids, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert logs: %w", err)
	}
	if len(ids) != len(logs) {
		return fmt.Errorf("returned different number of ids then inserted, expected %d, got %d", len(logs), len(ids))
	}
	for i, id := range ids {
		logs[i].ID = id
	}
	return nil
}

func (r *logsRepo) GetByID(ctx context.Context, id uint) (*entity.Log, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	log := new(entity.Log)
	err = r.db.GetContext(ctx, log, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get log by id: %w", err)
	}
	return log, nil
}

func (r *logsRepo) FindByLedger(ctx context.Context, ledger string, fromID uint, limit uint64) ([]*entity.Log, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"ledger": ledger}).
		Where(sq.GtOrEq{"id": fromID}).
		OrderBy("id").
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	logs := make([]*entity.Log, 0, limit)
	err = r.db.SelectContext(ctx, &logs, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get logs by ledger: %w", err)
	}
	return logs, nil
}

func (r *logsRepo) FindByTransactionID(ctx context.Context, txID string) ([]*entity.Log, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"transaction_id": txID}).
		OrderBy("log_index").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	logs := make([]*entity.Log, 0, 2)
	err = r.db.SelectContext(ctx, &logs, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get logs by transaction id: %w", err)
	}
	return logs, nil
}
