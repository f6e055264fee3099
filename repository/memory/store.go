// Package memory keeps the whole ledger state in process memory. It is used
// by tests and by single-node deployments that do not need persistence.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/repository"
)

type confirmationKey struct {
	messageID common.Hash
	authority common.Address
}

type signatureKey struct {
	msgHash common.Hash
	index   uint
}

type signerKey struct {
	msgHash   common.Hash
	authority common.Address
}

type logKey struct {
	transactionID string
	logIndex      uint
}

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	relayed       map[common.Hash]entity.RelayedMessage
	accepted      map[common.Hash]entity.AcceptedMessage
	confirmed     map[common.Hash]entity.ConfirmedMessage
	confirmations map[confirmationKey]entity.Confirmation
	signed        map[common.Hash]entity.SignedMessage
	signatures    map[signatureKey]entity.MessageSignature
	signers       map[signerKey]uint
	proxies       map[common.Address]entity.IdentityProxy
	logs          []entity.Log
	logIDs        map[logKey]uint

	repo *repository.Repo
}

func NewStore() *Store {
	s := &Store{
		now:           time.Now,
		relayed:       make(map[common.Hash]entity.RelayedMessage),
		accepted:      make(map[common.Hash]entity.AcceptedMessage),
		confirmed:     make(map[common.Hash]entity.ConfirmedMessage),
		confirmations: make(map[confirmationKey]entity.Confirmation),
		signed:        make(map[common.Hash]entity.SignedMessage),
		signatures:    make(map[signatureKey]entity.MessageSignature),
		signers:       make(map[signerKey]uint),
		proxies:       make(map[common.Address]entity.IdentityProxy),
		logIDs:        make(map[logKey]uint),
	}
	s.repo = newRepo(&session{store: s})
	return s
}

func (s *Store) Repo() *repository.Repo {
	return s.repo
}

// Transact runs fn with exclusive access to the store. Writes made by fn are
// undone in reverse order if it returns an error or panics.
func (s *Store) Transact(ctx context.Context, fn func(ctx context.Context, repo *repository.Repo) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal := make([]func(), 0, 8)
	sess := &session{store: s, journal: &journal}
	committed := false
	defer func() {
		if !committed {
			for i := len(journal) - 1; i >= 0; i-- {
				journal[i]()
			}
		}
	}()

	if err = fn(ctx, newRepo(sess)); err != nil {
		return err
	}
	committed = true
	return nil
}

func newRepo(sess *session) *repository.Repo {
	return &repository.Repo{
		RelayedMessages:   (*relayedMessagesRepo)(sess),
		AcceptedMessages:  (*acceptedMessagesRepo)(sess),
		ConfirmedMessages: (*confirmedMessagesRepo)(sess),
		Confirmations:     (*confirmationsRepo)(sess),
		SignedMessages:    (*signedMessagesRepo)(sess),
		MessageSignatures: (*messageSignaturesRepo)(sess),
		IdentityProxies:   (*identityProxiesRepo)(sess),
		Logs:              (*logsRepo)(sess),
	}
}

// session is a view of the store. Outside of a transaction journal is nil
// and every call takes the store lock on its own.
type session struct {
	store   *Store
	journal *[]func()
}

func (s *session) lock() func() {
	if s.journal != nil {
		return func() {}
	}
	s.store.mu.Lock()
	return s.store.mu.Unlock
}

func (s *session) record(undo func()) {
	if s.journal != nil {
		*s.journal = append(*s.journal, undo)
	}
}

func (s *session) timestamps(created *time.Time) (*time.Time, *time.Time) {
	now := s.store.now()
	if created == nil {
		created = &now
	}
	return created, &now
}

func put[K comparable, V any](s *session, m map[K]V, key K, value V) {
	old, existed := m[key]
	m[key] = value
	s.record(func() {
		if existed {
			m[key] = old
		} else {
			delete(m, key)
		}
	})
}
