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

type signedMessagesRepo basePostgresRepo

func NewSignedMessagesRepo(table string, db db.Querier) entity.SignedMessagesRepo {
	return (*signedMessagesRepo)(newBasePostgresRepo(table, db))
}

func (r *signedMessagesRepo) Ensure(ctx context.Context, msg *entity.SignedMessage) error {
	q, args, err := sq.Insert(r.table).
		Columns("msg_hash", "message", "num_signatures", "finalized", "relaying_authority").
		Values(msg.MsgHash, bytea(msg.Message), msg.NumSignatures, msg.Finalized, msg.RelayingAuthority).
		Suffix("ON CONFLICT (msg_hash) DO UPDATE SET updated_at = NOW(), " +
			"num_signatures = EXCLUDED.num_signatures, finalized = EXCLUDED.finalized, relaying_authority = EXCLUDED.relaying_authority").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert signed message: %w", err)
	}
	return nil
}

func (r *signedMessagesRepo) GetByMsgHash(ctx context.Context, msgHash common.Hash) (*entity.SignedMessage, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"msg_hash": msgHash}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	msg := new(entity.SignedMessage)
	err = r.db.GetContext(ctx, msg, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get signed message: %w", err)
	}
	return msg, nil
}

func (r *signedMessagesRepo) FindPending(ctx context.Context, createdBefore time.Time) ([]*entity.SignedMessage, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"finalized": false}).
		Where(sq.Lt{"created_at": createdBefore}).
		OrderBy("created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	msgs := make([]*entity.SignedMessage, 0, 10)
	err = r.db.SelectContext(ctx, &msgs, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get pending signed messages: %w", err)
	}
	return msgs, nil
}
