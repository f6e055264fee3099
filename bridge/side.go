package bridge

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/omni/authority-bridge/contract/bridgeabi"
	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/repository"
	"github.com/omni/authority-bridge/utils"
)

// Side is the destination side of the bridge. It hosts the confirmation
// ledger, the signature ledger and the identity proxies of message senders.
type Side struct {
	*ledger
	proxies *ProxyRegistry
}

func NewSide(opts Options) (*Side, error) {
	l, err := newLedger(LedgerSide, &bridgeabi.SideABI, opts)
	if err != nil {
		return nil, err
	}
	return &Side{
		ledger:  l,
		proxies: NewProxyRegistry(opts.Address),
	}, nil
}

// Confirm records that authority from observed the message. The confirmation
// that reaches the threshold executes the message through the sender's proxy
// and emits AcceptedMessage; later confirmations fail with ErrAlreadyExecuted.
func (s *Side) Confirm(ctx context.Context, from common.Address, originRef common.Hash, payload []byte, sender, recipient common.Address) (*Result, error) {
	messageID := ConfirmationMessageID(originRef, payload, sender, recipient)
	fields := logrus.Fields{
		"authority":  from,
		"message_id": messageID,
		"sender":     sender,
		"recipient":  recipient,
	}
	return s.transact(ctx, "confirm", fields, func(ctx context.Context, repo *repository.Repo, tx *txState) (*Result, error) {
		if !s.authorities.IsAuthority(from) {
			return nil, fmt.Errorf("confirm by %s: %w", from, ErrUnauthorized)
		}
		_, err := repo.Confirmations.GetByAuthority(ctx, messageID, from)
		if err == nil {
			return nil, fmt.Errorf("message %s by %s: %w", messageID, from, ErrDuplicateConfirmation)
		}
		if !db.IsNotFound(err) {
			return nil, err
		}

		msg, err := repo.ConfirmedMessages.GetByMessageID(ctx, messageID)
		if err != nil {
			if !db.IsNotFound(err) {
				return nil, err
			}
			msg = &entity.ConfirmedMessage{
				MessageID:       messageID,
				OriginReference: originRef,
				Sender:          sender,
				Recipient:       recipient,
				Payload:         payload,
			}
		}
		if msg.Executed {
			return nil, fmt.Errorf("message %s: %w", messageID, ErrAlreadyExecuted)
		}

		err = repo.Confirmations.Ensure(ctx, &entity.Confirmation{
			MessageID:     messageID,
			Authority:     from,
			TransactionID: tx.id,
		})
		if err != nil {
			return nil, err
		}
		msg.NumConfirmations++
		res := &Result{Status: StatusPending, MessageID: messageID}

		if msg.NumConfirmations >= s.authorities.Threshold() {
			proxy, created, err := s.execute(ctx, repo, msg)
			if err != nil {
				return nil, err
			}
			res.ProxyCreated = created
			msg.Executed = true
			msg.Proxy = &proxy
			if err = tx.emit(bridgeabi.AcceptedMessageEvent, messageID, msg.Sender, msg.Recipient); err != nil {
				return nil, err
			}
			res.Status = StatusThresholdReached
			res.Event = &Accepted{
				MessageID: messageID,
				Sender:    msg.Sender,
				Recipient: msg.Recipient,
				Caller:    proxy,
			}
		}
		if err = repo.ConfirmedMessages.Ensure(ctx, msg); err != nil {
			return nil, err
		}
		return res, nil
	})
}

func (s *Side) execute(ctx context.Context, repo *repository.Repo, msg *entity.ConfirmedMessage) (common.Address, bool, error) {
	proxy, created, err := s.proxies.ResolveOrCreate(ctx, repo, msg.Sender)
	if err != nil {
		return common.Address{}, false, err
	}
	err = s.recipients.execute(ctx, msg.Recipient, &Call{
		Ledger:    s.name,
		Caller:    proxy.Address,
		Sender:    msg.Sender,
		MessageID: msg.MessageID,
		Payload:   msg.Payload,
	})
	if err != nil {
		return common.Address{}, false, err
	}
	return proxy.Address, created, nil
}

// SubmitSignature stores the signature of authority from over message. The
// signature that reaches the threshold finalizes the message and emits
// SignedMessage naming from as the authority responsible for relaying it.
// The result carries the message hash in place of a message id.
func (s *Side) SubmitSignature(ctx context.Context, from common.Address, signature []byte, message []byte) (*Result, error) {
	msgHash := MessageHash(message)
	fields := logrus.Fields{
		"authority":  from,
		"message_id": msgHash,
	}
	return s.transact(ctx, "submit_signature", fields, func(ctx context.Context, repo *repository.Repo, tx *txState) (*Result, error) {
		if !s.authorities.IsAuthority(from) {
			return nil, fmt.Errorf("signature by %s: %w", from, ErrUnauthorized)
		}
		signer, err := utils.RestoreSignerAddress(message, signature)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
		if signer != from {
			return nil, fmt.Errorf("signed by %s, submitted by %s: %w", signer, from, ErrInvalidSignature)
		}
		_, err = repo.MessageSignatures.GetByAuthority(ctx, msgHash, from)
		if err == nil {
			return nil, fmt.Errorf("message %s by %s: %w", msgHash, from, ErrDuplicateSignature)
		}
		if !db.IsNotFound(err) {
			return nil, err
		}

		msg, err := repo.SignedMessages.GetByMsgHash(ctx, msgHash)
		if err != nil {
			if !db.IsNotFound(err) {
				return nil, err
			}
			msg = &entity.SignedMessage{
				MsgHash: msgHash,
				Message: message,
			}
		}
		if msg.Finalized {
			return nil, fmt.Errorf("message %s: %w", msgHash, ErrAlreadyFinalized)
		}

		err = repo.MessageSignatures.Ensure(ctx, &entity.MessageSignature{
			MsgHash:       msgHash,
			Index:         msg.NumSignatures,
			Authority:     from,
			Signature:     signature,
			TransactionID: tx.id,
		})
		if err != nil {
			return nil, err
		}
		msg.NumSignatures++
		res := &Result{Status: StatusPending, MessageID: msgHash}

		if msg.NumSignatures >= s.authorities.Threshold() {
			msg.Finalized = true
			relayer := from
			msg.RelayingAuthority = &relayer
			if err = tx.emit(bridgeabi.SignedMessageEvent, from, msgHash); err != nil {
				return nil, err
			}
			res.Status = StatusThresholdReached
			res.Event = &QuorumReached{
				MessageHash:       msgHash,
				RelayingAuthority: from,
				NumSignatures:     msg.NumSignatures,
			}
		}
		if err = repo.SignedMessages.Ensure(ctx, msg); err != nil {
			return nil, err
		}
		return res, nil
	})
}

func (s *Side) HasConfirmed(ctx context.Context, messageID common.Hash, authority common.Address) (bool, error) {
	_, err := s.store.Repo().Confirmations.GetByAuthority(ctx, messageID, authority)
	return found(err)
}

func (s *Side) HasAuthorityConfirmed(ctx context.Context, originRef common.Hash, payload []byte, sender, recipient, authority common.Address) (bool, error) {
	return s.HasConfirmed(ctx, ConfirmationMessageID(originRef, payload, sender, recipient), authority)
}

func (s *Side) ConfirmedMessage(ctx context.Context, messageID common.Hash) (*entity.ConfirmedMessage, error) {
	return s.store.Repo().ConfirmedMessages.GetByMessageID(ctx, messageID)
}

func (s *Side) Confirmations(ctx context.Context, messageID common.Hash) ([]*entity.Confirmation, error) {
	return s.store.Repo().Confirmations.FindByMessageID(ctx, messageID)
}

func (s *Side) HasSigned(ctx context.Context, message []byte, authority common.Address) (bool, error) {
	_, err := s.store.Repo().MessageSignatures.GetByAuthority(ctx, MessageHash(message), authority)
	return found(err)
}

func (s *Side) Signature(ctx context.Context, msgHash common.Hash, index uint) ([]byte, error) {
	sig, err := s.store.Repo().MessageSignatures.GetByIndex(ctx, msgHash, index)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("signature %d of %s: %w", index, msgHash, ErrIndexOutOfRange)
		}
		return nil, err
	}
	return sig.Signature, nil
}

func (s *Side) Signatures(ctx context.Context, msgHash common.Hash) ([][]byte, error) {
	sigs, err := s.store.Repo().MessageSignatures.FindByMsgHash(ctx, msgHash)
	if err != nil {
		return nil, err
	}
	res := make([][]byte, len(sigs))
	for i, sig := range sigs {
		res[i] = sig.Signature
	}
	return res, nil
}

func (s *Side) SignedMessage(ctx context.Context, msgHash common.Hash) (*entity.SignedMessage, error) {
	return s.store.Repo().SignedMessages.GetByMsgHash(ctx, msgHash)
}

func (s *Side) MessageFor(ctx context.Context, msgHash common.Hash) ([]byte, error) {
	msg, err := s.SignedMessage(ctx, msgHash)
	if err != nil {
		return nil, err
	}
	return msg.Message, nil
}

func (s *Side) ProxyFor(ctx context.Context, sender common.Address) (common.Address, error) {
	return s.proxies.Lookup(ctx, s.store.Repo(), sender)
}

func found(err error) (bool, error) {
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
