package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type confirmedMessagesRepo basePostgresRepo

func NewConfirmedMessagesRepo(table string, db db.Querier) entity.ConfirmedMessagesRepo {
	return (*confirmedMessagesRepo)(newBasePostgresRepo(table, db))
}

func (r *confirmedMessagesRepo) Ensure(ctx context.Context, msg *entity.ConfirmedMessage) error {
	q, args, err := sq.Insert(r.table).
		Columns("message_id", "origin_reference", "sender", "recipient", "payload", "num_confirmations", "executed", "proxy").
		Values(msg.MessageID, msg.OriginReference, msg.Sender, msg.Recipient, bytea(msg.Payload), msg.NumConfirmations, msg.Executed, msg.Proxy).
		Suffix("ON CONFLICT (message_id) DO UPDATE SET updated_at = NOW(), " +
			"num_confirmations = EXCLUDED.num_confirmations, executed = EXCLUDED.executed, proxy = EXCLUDED.proxy").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert confirmed message: %w", err)
	}
	return nil
}

func (r *confirmedMessagesRepo) GetByMessageID(ctx context.Context, messageID common.Hash) (*entity.ConfirmedMessage, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"message_id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	msg := new(entity.ConfirmedMessage)
	err = r.db.GetContext(ctx, msg, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get confirmed message: %w", err)
	}
	return msg, nil
}

func (r *confirmedMessagesRepo) FindPending(ctx context.Context, createdBefore time.Time) ([]*entity.ConfirmedMessage, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"executed": false}).
		Where(sq.Lt{"created_at": createdBefore}).
		OrderBy("created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	msgs := make([]*entity.ConfirmedMessage, 0, 10)
	err = r.db.SelectContext(ctx, &msgs, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get pending confirmed messages: %w", err)
	}
	return msgs, nil
}
