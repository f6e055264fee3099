package bridge_test

import (
	"context"
	"crypto/ecdsa"
	"io"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/repository/memory"
	"github.com/omni/authority-bridge/utils"
)

var (
	testLedgerAddress = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	testOriginRef     = common.HexToHash("0x20393f23b0b9b5f12d67e49d6541d4daf085c7b6a402f67e6e98dc81e0550963")
	testPayload       = []byte{0x12, 0x34}
	testSender        = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	testRecipient     = common.HexToAddress("0x00000000000000000000000000000000000000d1")
)

type authority struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func newAuthorities(t *testing.T, n int) []authority {
	t.Helper()

	res := make([]authority, n)
	for i := range res {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		res[i] = authority{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
	}
	return res
}

func addresses(authorities []authority) []common.Address {
	res := make([]common.Address, len(authorities))
	for i, a := range authorities {
		res[i] = a.address
	}
	return res
}

func (a authority) sign(t *testing.T, message []byte) []byte {
	t.Helper()

	sig, err := utils.SignText(a.key, message)
	require.NoError(t, err)
	return sig
}

// recorder remembers every forwarded call it receives.
type recorder struct {
	mu    sync.Mutex
	calls []*bridge.Call
	err   error
}

func (r *recorder) Accept(_ context.Context, call *bridge.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, call)
	return nil
}

func (r *recorder) Calls() []*bridge.Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*bridge.Call(nil), r.calls...)
}

type publisher struct {
	mu   sync.Mutex
	logs []*entity.Log
}

func (p *publisher) Publish(_ context.Context, logs []*entity.Log) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs = append(p.logs, logs...)
	return nil
}

type testEnv struct {
	store       *memory.Store
	recipients  *bridge.RecipientRegistry
	recorder    *recorder
	publisher   *publisher
	authorities []authority
}

func newTestEnv(t *testing.T, n int) *testEnv {
	t.Helper()

	env := &testEnv{
		store:       memory.NewStore(),
		recipients:  bridge.NewRecipientRegistry(),
		recorder:    new(recorder),
		publisher:   new(publisher),
		authorities: newAuthorities(t, n),
	}
	env.recipients.Register(testRecipient, env.recorder)
	return env
}

func (env *testEnv) options(threshold uint) bridge.Options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return bridge.Options{
		Address:     testLedgerAddress,
		Authorities: addresses(env.authorities),
		Threshold:   threshold,
		Store:       env.store,
		Recipients:  env.recipients,
		Publisher:   env.publisher,
		Logger:      logger,
	}
}

func (env *testEnv) newSide(t *testing.T, threshold uint) *bridge.Side {
	t.Helper()

	side, err := bridge.NewSide(env.options(threshold))
	require.NoError(t, err)
	return side
}

func (env *testEnv) newMain(t *testing.T, threshold uint) *bridge.Main {
	t.Helper()

	main, err := bridge.NewMain(env.options(threshold))
	require.NoError(t, err)
	return main
}
