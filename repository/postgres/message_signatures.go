package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type messageSignaturesRepo basePostgresRepo

func NewMessageSignaturesRepo(table string, db db.Querier) entity.MessageSignaturesRepo {
	return (*messageSignaturesRepo)(newBasePostgresRepo(table, db))
}

func (r *messageSignaturesRepo) Ensure(ctx context.Context, sig *entity.MessageSignature) error {
	q, args, err := sq.Insert(r.table).
		Columns("msg_hash", "idx", "authority", "signature", "transaction_id").
		Values(sig.MsgHash, sig.Index, sig.Authority, sig.Signature, sig.TransactionID).
		Suffix("ON CONFLICT (msg_hash, idx) DO UPDATE SET updated_at = NOW()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert message signature: %w", err)
	}
	return nil
}

func (r *messageSignaturesRepo) GetByAuthority(ctx context.Context, msgHash common.Hash, authority common.Address) (*entity.MessageSignature, error) {
	return r.get(ctx, sq.Eq{"msg_hash": msgHash, "authority": authority})
}

func (r *messageSignaturesRepo) GetByIndex(ctx context.Context, msgHash common.Hash, index uint) (*entity.MessageSignature, error) {
	return r.get(ctx, sq.Eq{"msg_hash": msgHash, "idx": index})
}

func (r *messageSignaturesRepo) get(ctx context.Context, where sq.Eq) (*entity.MessageSignature, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	sig := new(entity.MessageSignature)
	err = r.db.GetContext(ctx, sig, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get message signature: %w", err)
	}
	return sig, nil
}

func (r *messageSignaturesRepo) FindByMsgHash(ctx context.Context, msgHash common.Hash) ([]*entity.MessageSignature, error) {
	q, args, err := sq.Select("*").
		From(r.table).
		Where(sq.Eq{"msg_hash": msgHash}).
		OrderBy("idx").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	sigs := make([]*entity.MessageSignature, 0, 4)
	err = r.db.SelectContext(ctx, &sigs, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get message signatures: %w", err)
	}
	return sigs, nil
}
