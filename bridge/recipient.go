package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Call is a forwarded call delivered to a recipient once a message is accepted.
type Call struct {
	Ledger    string         `json:"ledger"`
	Caller    common.Address `json:"caller"`
	Sender    common.Address `json:"sender"`
	MessageID common.Hash    `json:"messageId"`
	Payload   []byte         `json:"payload"`
}

// Recipient executes forwarded calls. A returned error aborts the whole
// operation that triggered the call.
type Recipient interface {
	Accept(ctx context.Context, call *Call) error
}

type RecipientFunc func(ctx context.Context, call *Call) error

func (f RecipientFunc) Accept(ctx context.Context, call *Call) error {
	return f(ctx, call)
}

type RecipientRegistry struct {
	mu         sync.RWMutex
	recipients map[common.Address]Recipient
}

func NewRecipientRegistry() *RecipientRegistry {
	return &RecipientRegistry{
		recipients: make(map[common.Address]Recipient),
	}
}

func (r *RecipientRegistry) Register(addr common.Address, recipient Recipient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipients[addr] = recipient
}

func (r *RecipientRegistry) Lookup(addr common.Address) (Recipient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipient, ok := r.recipients[addr]
	return recipient, ok
}

// execute delivers call to the recipient registered at addr. Addresses
// without a registered recipient accept any call without effect.
func (r *RecipientRegistry) execute(ctx context.Context, addr common.Address, call *Call) error {
	recipient, ok := r.Lookup(addr)
	if !ok {
		return nil
	}
	if err := recipient.Accept(ctx, call); err != nil {
		return fmt.Errorf("%w: recipient %s: %w", ErrExecutionFailed, addr, err)
	}
	return nil
}
