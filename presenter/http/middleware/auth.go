package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/authority-bridge/presenter/http/render"
	"github.com/omni/authority-bridge/utils"
)

const (
	SignatureHeader = "X-Bridge-Signature"

	requestDomain = "authority-bridge/http\n"
	maxBodySize   = 1 << 20
)

type ctxKey int

const (
	callerCtxKey ctxKey = iota
	bodyCtxKey
)

// RequestPreimage is the data a caller signs to authenticate a request. The
// domain prefix keeps ledger signatures over raw messages from passing as
// request signatures.
func RequestPreimage(method, path string, body []byte) []byte {
	preimage := make([]byte, 0, len(requestDomain)+len(method)+len(path)+len(body)+2)
	preimage = append(preimage, requestDomain...)
	preimage = append(preimage, method...)
	preimage = append(preimage, ' ')
	preimage = append(preimage, path...)
	preimage = append(preimage, '\n')
	return append(preimage, body...)
}

// SignedCaller recovers the request caller from the personal signature over
// RequestPreimage passed in the X-Bridge-Signature header.
func SignedCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(SignatureHeader)
		if header == "" {
			render.BadRequest(w, r, "missing %s header", SignatureHeader)
			return
		}
		sig, err := hexutil.Decode(header)
		if err != nil {
			render.BadRequest(w, r, "malformed %s header: %s", SignatureHeader, err)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			render.BadRequest(w, r, "can't read request body: %s", err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		caller, err := utils.RestoreSignerAddress(RequestPreimage(r.Method, r.URL.Path, body), sig)
		if err != nil {
			render.BadRequest(w, r, "can't recover caller: %s", err)
			return
		}

		ctx := context.WithValue(r.Context(), callerCtxKey, caller)
		ctx = context.WithValue(ctx, bodyCtxKey, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Caller(ctx context.Context) common.Address {
	if caller, ok := ctx.Value(callerCtxKey).(common.Address); ok {
		return caller
	}
	return common.Address{}
}

func Body(ctx context.Context) []byte {
	if body, ok := ctx.Value(bodyCtxKey).([]byte); ok {
		return body
	}
	return nil
}
