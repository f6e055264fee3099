package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type acceptedMessagesRepo basePostgresRepo

func NewAcceptedMessagesRepo(table string, db db.Querier) entity.AcceptedMessagesRepo {
	return (*acceptedMessagesRepo)(newBasePostgresRepo(table, db))
}

func (r *acceptedMessagesRepo) Ensure(ctx context.Context, msg *entity.AcceptedMessage) error {
	q, args, err := sq.Insert(r.table).
		Columns("message_id", "sender", "recipient", "num_signatures", "transaction_id").
		Values(msg.MessageID, msg.Sender, msg.Recipient, msg.NumSignatures, msg.TransactionID).
		Suffix("ON CONFLICT (message_id) DO UPDATE SET updated_at = NOW()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert accepted message: %w", err)
	}
	return nil
}

func (r *acceptedMessagesRepo) GetByMessageID(ctx context.Context, messageID common.Hash) (*entity.AcceptedMessage, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"message_id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	msg := new(entity.AcceptedMessage)
	err = r.db.GetContext(ctx, msg, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get accepted message: %w", err)
	}
	return msg, nil
}
