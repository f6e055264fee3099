package presenter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/authority-bridge/bridge"
)

type AnnounceRequest struct {
	OriginReference common.Hash   `json:"originReference"`
	Payload         hexutil.Bytes `json:"payload"`
	Recipient       string        `json:"recipient"`
}

type AcceptRequest struct {
	Signatures      []hexutil.Bytes `json:"signatures"`
	OriginReference common.Hash     `json:"originReference"`
	Payload         hexutil.Bytes   `json:"payload"`
	Sender          string          `json:"sender"`
	Recipient       string          `json:"recipient"`
}

type ConfirmRequest struct {
	OriginReference common.Hash   `json:"originReference"`
	Payload         hexutil.Bytes `json:"payload"`
	Sender          string        `json:"sender"`
	Recipient       string        `json:"recipient"`
}

type SignatureRequest struct {
	Signature hexutil.Bytes `json:"signature"`
	Message   hexutil.Bytes `json:"message"`
}

type OperationResult struct {
	*bridge.Result
	EventName string         `json:"eventName,omitempty"`
	Caller    common.Address `json:"caller"`
}

type ThresholdResult struct {
	Ledger    string `json:"ledger"`
	Threshold uint   `json:"threshold"`
}

type AuthorityResult struct {
	Ledger    string         `json:"ledger"`
	Index     uint           `json:"index"`
	Authority common.Address `json:"authority"`
}

type RelayedResult struct {
	MessageID       common.Hash    `json:"messageId"`
	OriginReference common.Hash    `json:"originReference"`
	Sender          common.Address `json:"sender"`
	Recipient       common.Address `json:"recipient"`
	Payload         hexutil.Bytes  `json:"payload"`
	Accepted        bool           `json:"accepted"`
}

type ConfirmationResult struct {
	MessageID common.Hash    `json:"messageId"`
	Authority common.Address `json:"authority"`
	Confirmed bool           `json:"confirmed"`
}

type SignedResult struct {
	MessageHash common.Hash    `json:"messageHash"`
	Authority   common.Address `json:"authority"`
	Signed      bool           `json:"signed"`
}

type SignatureResult struct {
	MessageHash common.Hash   `json:"messageHash"`
	Index       uint          `json:"index"`
	Signature   hexutil.Bytes `json:"signature"`
}

type MessageResult struct {
	MessageHash       common.Hash     `json:"messageHash"`
	Message           hexutil.Bytes   `json:"message"`
	NumSignatures     uint            `json:"numSignatures"`
	Finalized         bool            `json:"finalized"`
	RelayingAuthority *common.Address `json:"relayingAuthority,omitempty"`
}

type ProxyResult struct {
	Sender common.Address `json:"sender"`
	Proxy  common.Address `json:"proxy"`
}

type LogResult struct {
	LogID         uint                   `json:"logId"`
	Ledger        string                 `json:"ledger"`
	Address       common.Address         `json:"address"`
	Event         string                 `json:"event,omitempty"`
	Args          map[string]interface{} `json:"args,omitempty"`
	Topics        []common.Hash          `json:"topics"`
	Data          hexutil.Bytes          `json:"data"`
	TransactionID string                 `json:"transactionId"`
	LogIndex      uint                   `json:"logIndex"`
}

type LogsResult struct {
	Ledger string       `json:"ledger"`
	Logs   []*LogResult `json:"logs"`
	NextID uint         `json:"nextId"`
}
