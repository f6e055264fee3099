package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
)

type relayedMessagesRepo session

func (r *relayedMessagesRepo) Ensure(_ context.Context, msg *entity.RelayedMessage) error {
	s := (*session)(r)
	defer s.lock()()
	value := *msg
	value.Payload = common.CopyBytes(msg.Payload)
	value.CreatedAt = nil
	if old, ok := s.store.relayed[msg.MessageID]; ok {
		value = old
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.relayed, msg.MessageID, value)
	return nil
}

func (r *relayedMessagesRepo) GetByMessageID(_ context.Context, messageID common.Hash) (*entity.RelayedMessage, error) {
	s := (*session)(r)
	defer s.lock()()
	msg, ok := s.store.relayed[messageID]
	if !ok {
		return nil, fmt.Errorf("can't get relayed message: %w", db.ErrNotFound)
	}
	msg.Payload = common.CopyBytes(msg.Payload)
	return &msg, nil
}

type acceptedMessagesRepo session

func (r *acceptedMessagesRepo) Ensure(_ context.Context, msg *entity.AcceptedMessage) error {
	s := (*session)(r)
	defer s.lock()()
	value := *msg
	value.CreatedAt = nil
	if old, ok := s.store.accepted[msg.MessageID]; ok {
		value = old
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.accepted, msg.MessageID, value)
	return nil
}

func (r *acceptedMessagesRepo) GetByMessageID(_ context.Context, messageID common.Hash) (*entity.AcceptedMessage, error) {
	s := (*session)(r)
	defer s.lock()()
	msg, ok := s.store.accepted[messageID]
	if !ok {
		return nil, fmt.Errorf("can't get accepted message: %w", db.ErrNotFound)
	}
	return &msg, nil
}

type confirmedMessagesRepo session

func (r *confirmedMessagesRepo) Ensure(_ context.Context, msg *entity.ConfirmedMessage) error {
	s := (*session)(r)
	defer s.lock()()
	value := *msg
	value.Payload = common.CopyBytes(msg.Payload)
	if old, ok := s.store.confirmed[msg.MessageID]; ok {
		value.OriginReference, value.Sender, value.Recipient, value.Payload = old.OriginReference, old.Sender, old.Recipient, old.Payload
		value.CreatedAt = old.CreatedAt
	} else {
		value.CreatedAt = nil
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.confirmed, msg.MessageID, value)
	return nil
}

func (r *confirmedMessagesRepo) GetByMessageID(_ context.Context, messageID common.Hash) (*entity.ConfirmedMessage, error) {
	s := (*session)(r)
	defer s.lock()()
	msg, ok := s.store.confirmed[messageID]
	if !ok {
		return nil, fmt.Errorf("can't get confirmed message: %w", db.ErrNotFound)
	}
	msg.Payload = common.CopyBytes(msg.Payload)
	return &msg, nil
}

func (r *confirmedMessagesRepo) FindPending(_ context.Context, createdBefore time.Time) ([]*entity.ConfirmedMessage, error) {
	s := (*session)(r)
	defer s.lock()()
	res := make([]*entity.ConfirmedMessage, 0, 10)
	for _, msg := range s.store.confirmed {
		if msg.Executed || !msg.CreatedAt.Before(createdBefore) {
			continue
		}
		msg := msg
		msg.Payload = common.CopyBytes(msg.Payload)
		res = append(res, &msg)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(*res[j].CreatedAt)
	})
	return res, nil
}

type confirmationsRepo session

func (r *confirmationsRepo) Ensure(_ context.Context, c *entity.Confirmation) error {
	s := (*session)(r)
	defer s.lock()()
	key := confirmationKey{messageID: c.MessageID, authority: c.Authority}
	value := *c
	value.CreatedAt = nil
	if old, ok := s.store.confirmations[key]; ok {
		value = old
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.confirmations, key, value)
	return nil
}

func (r *confirmationsRepo) GetByAuthority(_ context.Context, messageID common.Hash, authority common.Address) (*entity.Confirmation, error) {
	s := (*session)(r)
	defer s.lock()()
	c, ok := s.store.confirmations[confirmationKey{messageID: messageID, authority: authority}]
	if !ok {
		return nil, fmt.Errorf("can't get confirmation: %w", db.ErrNotFound)
	}
	return &c, nil
}

func (r *confirmationsRepo) FindByMessageID(_ context.Context, messageID common.Hash) ([]*entity.Confirmation, error) {
	s := (*session)(r)
	defer s.lock()()
	res := make([]*entity.Confirmation, 0, 4)
	for key, c := range s.store.confirmations {
		if key.messageID != messageID {
			continue
		}
		c := c
		res = append(res, &c)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(*res[j].CreatedAt)
	})
	return res, nil
}

type signedMessagesRepo session

func (r *signedMessagesRepo) Ensure(_ context.Context, msg *entity.SignedMessage) error {
	s := (*session)(r)
	defer s.lock()()
	value := *msg
	value.Message = common.CopyBytes(msg.Message)
	if old, ok := s.store.signed[msg.MsgHash]; ok {
		value.Message = old.Message
		value.CreatedAt = old.CreatedAt
	} else {
		value.CreatedAt = nil
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.signed, msg.MsgHash, value)
	return nil
}

func (r *signedMessagesRepo) GetByMsgHash(_ context.Context, msgHash common.Hash) (*entity.SignedMessage, error) {
	s := (*session)(r)
	defer s.lock()()
	msg, ok := s.store.signed[msgHash]
	if !ok {
		return nil, fmt.Errorf("can't get signed message: %w", db.ErrNotFound)
	}
	msg.Message = common.CopyBytes(msg.Message)
	return &msg, nil
}

func (r *signedMessagesRepo) FindPending(_ context.Context, createdBefore time.Time) ([]*entity.SignedMessage, error) {
	s := (*session)(r)
	defer s.lock()()
	res := make([]*entity.SignedMessage, 0, 10)
	for _, msg := range s.store.signed {
		if msg.Finalized || !msg.CreatedAt.Before(createdBefore) {
			continue
		}
		msg := msg
		msg.Message = common.CopyBytes(msg.Message)
		res = append(res, &msg)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(*res[j].CreatedAt)
	})
	return res, nil
}

type messageSignaturesRepo session

func (r *messageSignaturesRepo) Ensure(_ context.Context, sig *entity.MessageSignature) error {
	s := (*session)(r)
	defer s.lock()()
	key := signatureKey{msgHash: sig.MsgHash, index: sig.Index}
	value := *sig
	value.Signature = common.CopyBytes(sig.Signature)
	value.CreatedAt = nil
	if old, ok := s.store.signatures[key]; ok {
		value = old
	} else {
		put(s, s.store.signers, signerKey{msgHash: sig.MsgHash, authority: sig.Authority}, sig.Index)
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.signatures, key, value)
	return nil
}

func (r *messageSignaturesRepo) GetByAuthority(_ context.Context, msgHash common.Hash, authority common.Address) (*entity.MessageSignature, error) {
	s := (*session)(r)
	defer s.lock()()
	index, ok := s.store.signers[signerKey{msgHash: msgHash, authority: authority}]
	if !ok {
		return nil, fmt.Errorf("can't get message signature: %w", db.ErrNotFound)
	}
	sig := s.store.signatures[signatureKey{msgHash: msgHash, index: index}]
	sig.Signature = common.CopyBytes(sig.Signature)
	return &sig, nil
}

func (r *messageSignaturesRepo) GetByIndex(_ context.Context, msgHash common.Hash, index uint) (*entity.MessageSignature, error) {
	s := (*session)(r)
	defer s.lock()()
	sig, ok := s.store.signatures[signatureKey{msgHash: msgHash, index: index}]
	if !ok {
		return nil, fmt.Errorf("can't get message signature: %w", db.ErrNotFound)
	}
	sig.Signature = common.CopyBytes(sig.Signature)
	return &sig, nil
}

func (r *messageSignaturesRepo) FindByMsgHash(_ context.Context, msgHash common.Hash) ([]*entity.MessageSignature, error) {
	s := (*session)(r)
	defer s.lock()()
	res := make([]*entity.MessageSignature, 0, 4)
	for key, sig := range s.store.signatures {
		if key.msgHash != msgHash {
			continue
		}
		sig := sig
		sig.Signature = common.CopyBytes(sig.Signature)
		res = append(res, &sig)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Index < res[j].Index
	})
	return res, nil
}

type identityProxiesRepo session

func (r *identityProxiesRepo) Ensure(_ context.Context, proxy *entity.IdentityProxy) error {
	s := (*session)(r)
	defer s.lock()()
	value := *proxy
	value.CreatedAt = nil
	if old, ok := s.store.proxies[proxy.Owner]; ok {
		value = old
	}
	value.CreatedAt, value.UpdatedAt = s.timestamps(value.CreatedAt)
	put(s, s.store.proxies, proxy.Owner, value)
	return nil
}

func (r *identityProxiesRepo) GetByOwner(_ context.Context, owner common.Address) (*entity.IdentityProxy, error) {
	s := (*session)(r)
	defer s.lock()()
	proxy, ok := s.store.proxies[owner]
	if !ok {
		return nil, fmt.Errorf("can't get identity proxy: %w", db.ErrNotFound)
	}
	return &proxy, nil
}

func (r *identityProxiesRepo) Count(_ context.Context) (uint, error) {
	s := (*session)(r)
	defer s.lock()()
	return uint(len(s.store.proxies)), nil
}

type logsRepo session

func (r *logsRepo) Ensure(_ context.Context, logs ...*entity.Log) error {
	s := (*session)(r)
	defer s.lock()()
	for _, log := range logs {
		key := logKey{transactionID: log.TransactionID, logIndex: log.LogIndex}
		if id, ok := s.store.logIDs[key]; ok {
			log.ID = id
			continue
		}
		value := *log
		value.Data = common.CopyBytes(log.Data)
		value.ID = uint(len(s.store.logs)) + 1
		value.CreatedAt, value.UpdatedAt = s.timestamps(nil)
		s.store.logs = append(s.store.logs, value)
		put(s, s.store.logIDs, key, value.ID)
		n := len(s.store.logs) - 1
		s.record(func() {
			s.store.logs = s.store.logs[:n]
		})
		log.ID = value.ID
	}
	return nil
}

func (r *logsRepo) GetByID(_ context.Context, id uint) (*entity.Log, error) {
	s := (*session)(r)
	defer s.lock()()
	if id == 0 || id > uint(len(s.store.logs)) {
		return nil, fmt.Errorf("can't get log by id: %w", db.ErrNotFound)
	}
	log := s.store.logs[id-1]
	log.Data = common.CopyBytes(log.Data)
	return &log, nil
}

func (r *logsRepo) FindByLedger(_ context.Context, ledger string, fromID uint, limit uint64) ([]*entity.Log, error) {
	s := (*session)(r)
	defer s.lock()()
	res := make([]*entity.Log, 0, limit)
	for i := range s.store.logs {
		if uint64(len(res)) >= limit {
			break
		}
		log := s.store.logs[i]
		if log.Ledger != ledger || log.ID < fromID {
			continue
		}
		log.Data = common.CopyBytes(log.Data)
		res = append(res, &log)
	}
	return res, nil
}

func (r *logsRepo) FindByTransactionID(_ context.Context, txID string) ([]*entity.Log, error) {
	s := (*session)(r)
	defer s.lock()()
	res := make([]*entity.Log, 0, 2)
	for i := range s.store.logs {
		log := s.store.logs[i]
		if log.TransactionID != txID {
			continue
		}
		log.Data = common.CopyBytes(log.Data)
		res = append(res, &log)
	}
	return res, nil
}
