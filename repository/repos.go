package repository

import (
	"context"
	"fmt"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/repository/postgres"
)

type Repo struct {
	RelayedMessages   entity.RelayedMessagesRepo
	AcceptedMessages  entity.AcceptedMessagesRepo
	ConfirmedMessages entity.ConfirmedMessagesRepo
	Confirmations     entity.ConfirmationsRepo
	SignedMessages    entity.SignedMessagesRepo
	MessageSignatures entity.MessageSignaturesRepo
	IdentityProxies   entity.IdentityProxiesRepo
	Logs              entity.LogsRepo
}

// Store gives access to the ledger state. Every mutation of a ledger runs
// inside Transact: either all writes made through repo become visible or none.
type Store interface {
	Repo() *Repo
	Transact(ctx context.Context, fn func(ctx context.Context, repo *Repo) error) error
}

func NewRepo(q db.Querier) *Repo {
	return &Repo{
		RelayedMessages:   postgres.NewRelayedMessagesRepo("relayed_messages", q),
		AcceptedMessages:  postgres.NewAcceptedMessagesRepo("accepted_messages", q),
		ConfirmedMessages: postgres.NewConfirmedMessagesRepo("confirmed_messages", q),
		Confirmations:     postgres.NewConfirmationsRepo("confirmations", q),
		SignedMessages:    postgres.NewSignedMessagesRepo("signed_messages", q),
		MessageSignatures: postgres.NewMessageSignaturesRepo("message_signatures", q),
		IdentityProxies:   postgres.NewIdentityProxiesRepo("identity_proxies", q),
		Logs:              postgres.NewLogsRepo("logs", q),
	}
}

type postgresStore struct {
	db   *db.DB
	repo *Repo
}

func NewPostgresStore(conn *db.DB) Store {
	return &postgresStore{
		db:   conn,
		repo: NewRepo(conn),
	}
}

func (s *postgresStore) Repo() *Repo {
	return s.repo
}

func (s *postgresStore) Transact(ctx context.Context, fn func(ctx context.Context, repo *Repo) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			panic(rec)
		}
	}()
	if err = fn(ctx, NewRepo(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
