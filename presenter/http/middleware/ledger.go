package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/authority-bridge/entity"
	"github.com/omni/authority-bridge/presenter/http/render"
)

const (
	ledgerCtxKey ctxKey = iota + 100
	logsFilterCtxKey

	defaultLogsLimit = 100
	maxLogsLimit     = 1000
)

// Ledger is the read surface shared by both ledgers.
type Ledger interface {
	Name() string
	Address() common.Address
	Threshold() uint
	Authority(i uint) (common.Address, error)
	Authorities() []common.Address
	Logs(ctx context.Context, fromID uint, limit uint64) ([]*entity.Log, error)
	ParseLog(log *entity.Log) (string, map[string]interface{}, error)
}

type LogsFilter struct {
	FromID uint
	Limit  uint64
}

func WithLedger(ledger Ledger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ledgerCtxKey, ledger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LedgerFromContext(ctx context.Context) Ledger {
	if ledger, ok := ctx.Value(ledgerCtxKey).(Ledger); ok {
		return ledger
	}
	return nil
}

func GetLogsFilterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := &LogsFilter{Limit: defaultLogsLimit}

		if s := query.Get("fromId"); s != "" {
			fromID, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				render.BadRequest(w, r, "failed to parse fromId: %s", err)
				return
			}
			filter.FromID = uint(fromID)
		}
		if s := query.Get("limit"); s != "" {
			limit, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				render.BadRequest(w, r, "failed to parse limit: %s", err)
				return
			}
			if limit == 0 || limit > maxLogsLimit {
				render.BadRequest(w, r, "limit should be between 1 and %d", maxLogsLimit)
				return
			}
			filter.Limit = limit
		}

		ctx := context.WithValue(r.Context(), logsFilterCtxKey, filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetLogsFilter(ctx context.Context) *LogsFilter {
	if filter, ok := ctx.Value(logsFilterCtxKey).(*LogsFilter); ok {
		return filter
	}
	return &LogsFilter{Limit: defaultLogsLimit}
}
