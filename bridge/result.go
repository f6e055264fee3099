package bridge

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/entity"
)

type Status int

const (
	StatusPending Status = iota
	StatusAnnounced
	StatusThresholdReached
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAnnounced:
		return "announced"
	case StatusThresholdReached:
		return "threshold_reached"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event is the notification produced by a successful operation. Operations
// that stay below threshold produce none.
type Event interface {
	EventName() string
}

type RelayAnnounced struct {
	MessageID common.Hash    `json:"messageId"`
	Sender    common.Address `json:"sender"`
	Recipient common.Address `json:"recipient"`
}

func (*RelayAnnounced) EventName() string { return "RelayMessage" }

type Accepted struct {
	MessageID common.Hash    `json:"messageId"`
	Sender    common.Address `json:"sender"`
	Recipient common.Address `json:"recipient"`
	// Caller the recipient observed: the sender's proxy on Side, the ledger itself on Main.
	Caller common.Address `json:"caller"`
}

func (*Accepted) EventName() string { return "AcceptedMessage" }

type QuorumReached struct {
	MessageHash       common.Hash    `json:"messageHash"`
	RelayingAuthority common.Address `json:"relayingAuthority"`
	NumSignatures     uint           `json:"numSignatures"`
}

func (*QuorumReached) EventName() string { return "SignedMessage" }

type Result struct {
	Status        Status        `json:"status"`
	TransactionID string        `json:"transactionId"`
	MessageID     common.Hash   `json:"messageId"`
	Event         Event         `json:"event,omitempty"`
	Logs          []*entity.Log `json:"-"`
	// ProxyCreated is set when the operation deployed a new identity proxy.
	ProxyCreated  bool          `json:"-"`
}
