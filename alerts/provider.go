package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/repository"
)

type AlertsProvider struct {
	repo *repository.Repo
	now  func() time.Time
}

func NewAlertsProvider(repo *repository.Repo) *AlertsProvider {
	return &AlertsProvider{
		repo: repo,
		now:  time.Now,
	}
}

type StuckConfirmation struct {
	Age       int64          `json:"_value,string"`
	MessageID common.Hash    `json:"message_id"`
	Sender    common.Address `json:"sender"`
	Recipient common.Address `json:"recipient"`
	Count     uint           `json:"count,string"`
}

func (p *AlertsProvider) FindStuckConfirmations(ctx context.Context, params *AlertJobParams) (interface{}, error) {
	now := p.now()
	msgs, err := p.repo.ConfirmedMessages.FindPending(ctx, now.Add(-params.MinAge))
	if err != nil {
		return nil, fmt.Errorf("can't select alerts: %w", err)
	}
	res := make([]StuckConfirmation, 0, len(msgs))
	for _, msg := range msgs {
		res = append(res, StuckConfirmation{
			Age:       int64(now.Sub(*msg.CreatedAt).Seconds()),
			MessageID: msg.MessageID,
			Sender:    msg.Sender,
			Recipient: msg.Recipient,
			Count:     msg.NumConfirmations,
		})
	}
	return res, nil
}

type StuckSignature struct {
	Age     int64       `json:"_value,string"`
	MsgHash common.Hash `json:"msg_hash"`
	Count   uint        `json:"count,string"`
}

func (p *AlertsProvider) FindStuckSignatures(ctx context.Context, params *AlertJobParams) (interface{}, error) {
	now := p.now()
	msgs, err := p.repo.SignedMessages.FindPending(ctx, now.Add(-params.MinAge))
	if err != nil {
		return nil, fmt.Errorf("can't select alerts: %w", err)
	}
	res := make([]StuckSignature, 0, len(msgs))
	for _, msg := range msgs {
		res = append(res, StuckSignature{
			Age:     int64(now.Sub(*msg.CreatedAt).Seconds()),
			MsgHash: msg.MsgHash,
			Count:   msg.NumSignatures,
		})
	}
	return res, nil
}
