package recipient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ybbus/jsonrpc"

	"github.com/omni/authority-bridge/bridge"
)

var ErrRemoteCall = errors.New("remote call failed")

type acceptParams struct {
	Ledger    string        `json:"ledger"`
	Caller    string        `json:"caller"`
	Sender    string        `json:"sender"`
	MessageID string        `json:"messageId"`
	Payload   hexutil.Bytes `json:"payload"`
}

// JSONRPC forwards accepted calls to an external JSON-RPC endpoint. The call
// counts as failed when the endpoint is unreachable or answers with an error.
type JSONRPC struct {
	method string
	client jsonrpc.RPCClient
}

func NewJSONRPC(url, method string, timeout time.Duration) *JSONRPC {
	return &JSONRPC{
		method: method,
		client: jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
			HTTPClient: &http.Client{Timeout: timeout},
		}),
	}
}

func (r *JSONRPC) Accept(ctx context.Context, call *bridge.Call) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := r.client.Call(r.method, &acceptParams{
		Ledger:    call.Ledger,
		Caller:    call.Caller.Hex(),
		Sender:    call.Sender.Hex(),
		MessageID: call.MessageID.Hex(),
		Payload:   call.Payload,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRemoteCall, r.method, err)
	}
	if res.Error != nil {
		return fmt.Errorf("%w: %s: %d %s", ErrRemoteCall, r.method, res.Error.Code, res.Error.Message)
	}
	return nil
}
