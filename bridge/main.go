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

// Main is the origin side of the bridge. Users announce messages here, and
// signature bundles collected on Side are accepted here.
type Main struct {
	*ledger
}

func NewMain(opts Options) (*Main, error) {
	l, err := newLedger(LedgerMain, &bridgeabi.MainABI, opts)
	if err != nil {
		return nil, err
	}
	return &Main{ledger: l}, nil
}

// Announce records payload under its relay-direction id and emits
// RelayMessage. Anyone may announce, and announcing the same inputs again
// emits the event again.
func (m *Main) Announce(ctx context.Context, from common.Address, originRef common.Hash, payload []byte, recipient common.Address) (*Result, error) {
	messageID := RelayMessageID(originRef, payload, from, recipient)
	fields := logrus.Fields{
		"from":       from,
		"message_id": messageID,
		"recipient":  recipient,
	}
	return m.transact(ctx, "announce", fields, func(ctx context.Context, repo *repository.Repo, tx *txState) (*Result, error) {
		err := repo.RelayedMessages.Ensure(ctx, &entity.RelayedMessage{
			MessageID:       messageID,
			OriginReference: originRef,
			Sender:          from,
			Recipient:       recipient,
			Payload:         payload,
		})
		if err != nil {
			return nil, err
		}
		if err = tx.emit(bridgeabi.RelayMessageEvent, messageID, from, recipient); err != nil {
			return nil, err
		}
		return &Result{
			Status:    StatusAnnounced,
			MessageID: messageID,
			Event: &RelayAnnounced{
				MessageID: messageID,
				Sender:    from,
				Recipient: recipient,
			},
		}, nil
	})
}

// AcceptSigned executes a message attested by at least threshold distinct
// authorities. Each signature covers RelayMessage of the given inputs.
// Any caller may submit a bundle.
func (m *Main) AcceptSigned(ctx context.Context, from common.Address, signatures [][]byte, originRef common.Hash, payload []byte, sender, recipient common.Address) (*Result, error) {
	message := RelayMessage(originRef, payload, sender, recipient)
	messageID := MessageHash(message)
	fields := logrus.Fields{
		"from":       from,
		"message_id": messageID,
		"sender":     sender,
		"recipient":  recipient,
	}
	return m.transact(ctx, "accept", fields, func(ctx context.Context, repo *repository.Repo, tx *txState) (*Result, error) {
		signers, err := m.recoverSigners(message, signatures)
		if err != nil {
			return nil, err
		}
		_, err = repo.AcceptedMessages.GetByMessageID(ctx, messageID)
		if err == nil {
			return nil, fmt.Errorf("message %s: %w", messageID, ErrAlreadyExecuted)
		}
		if !db.IsNotFound(err) {
			return nil, err
		}

		err = m.recipients.execute(ctx, recipient, &Call{
			Ledger:    m.name,
			Caller:    m.address,
			Sender:    sender,
			MessageID: messageID,
			Payload:   payload,
		})
		if err != nil {
			return nil, err
		}
		err = repo.AcceptedMessages.Ensure(ctx, &entity.AcceptedMessage{
			MessageID:     messageID,
			Sender:        sender,
			Recipient:     recipient,
			NumSignatures: uint(len(signers)),
			TransactionID: tx.id,
		})
		if err != nil {
			return nil, err
		}
		if err = tx.emit(bridgeabi.AcceptedMessageEvent, messageID, sender, recipient); err != nil {
			return nil, err
		}
		return &Result{
			Status:    StatusThresholdReached,
			MessageID: messageID,
			Event: &Accepted{
				MessageID: messageID,
				Sender:    sender,
				Recipient: recipient,
				Caller:    m.address,
			},
		}, nil
	})
}

func (m *Main) recoverSigners(message []byte, signatures [][]byte) ([]common.Address, error) {
	signers := make([]common.Address, 0, len(signatures))
	seen := make(map[common.Address]bool, len(signatures))
	for i, sig := range signatures {
		signer, err := utils.RestoreSignerAddress(message, sig)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w: %w", i, ErrInvalidSignature, err)
		}
		if !m.authorities.IsAuthority(signer) {
			return nil, fmt.Errorf("signature %d by %s: %w", i, signer, ErrUnauthorized)
		}
		if seen[signer] {
			return nil, fmt.Errorf("signature %d by %s: %w", i, signer, ErrDuplicateSignature)
		}
		seen[signer] = true
		signers = append(signers, signer)
	}
	if uint(len(signers)) < m.authorities.Threshold() {
		return nil, fmt.Errorf("got %d of %d: %w", len(signers), m.authorities.Threshold(), ErrInsufficientSignatures)
	}
	return signers, nil
}

func (m *Main) RelayedMessage(ctx context.Context, messageID common.Hash) (*entity.RelayedMessage, error) {
	return m.store.Repo().RelayedMessages.GetByMessageID(ctx, messageID)
}

func (m *Main) RelayedPayload(ctx context.Context, messageID common.Hash) ([]byte, error) {
	msg, err := m.RelayedMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return msg.Payload, nil
}

func (m *Main) IsAccepted(ctx context.Context, messageID common.Hash) (bool, error) {
	_, err := m.store.Repo().AcceptedMessages.GetByMessageID(ctx, messageID)
	return found(err)
}
