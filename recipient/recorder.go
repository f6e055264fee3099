// Package recipient provides forwarded call targets that can be registered
// at recipient addresses of the bridge ledgers.
package recipient

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/bridge"
)

// Recorder keeps the last call it accepted and the number of accepted calls.
type Recorder struct {
	mu    sync.RWMutex
	last  *bridge.Call
	count uint
}

func NewRecorder() *Recorder {
	return new(Recorder)
}

func (r *Recorder) Accept(_ context.Context, call *bridge.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	last := *call
	last.Payload = common.CopyBytes(call.Payload)
	r.last = &last
	r.count++
	return nil
}

func (r *Recorder) Last() (*bridge.Call, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return nil, false
	}
	last := *r.last
	return &last, true
}

func (r *Recorder) Count() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
