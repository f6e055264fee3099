package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type relayedMessagesRepo basePostgresRepo

func NewRelayedMessagesRepo(table string, db db.Querier) entity.RelayedMessagesRepo {
	return (*relayedMessagesRepo)(newBasePostgresRepo(table, db))
}

func (r *relayedMessagesRepo) Ensure(ctx context.Context, msg *entity.RelayedMessage) error {
	q, args, err := sq.Insert(r.table).
		Columns("message_id", "origin_reference", "sender", "recipient", "payload").
		Values(msg.MessageID, msg.OriginReference, msg.Sender, msg.Recipient, bytea(msg.Payload)).
		Suffix("ON CONFLICT (message_id) DO UPDATE SET updated_at = NOW()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert relayed message: %w", err)
	}
	return nil
}

func (r *relayedMessagesRepo) GetByMessageID(ctx context.Context, messageID common.Hash) (*entity.RelayedMessage, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"message_id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	msg := new(entity.RelayedMessage)
	err = r.db.GetContext(ctx, msg, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get relayed message: %w", err)
	}
	return msg, nil
}
