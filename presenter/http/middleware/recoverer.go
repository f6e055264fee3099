package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omni/authority-bridge/presenter/http/render"
)

var ErrHandlerPanic = errors.New("http handler panicked")

// Recoverer turns a panic in a handler into a 500 JSON error. Store
// transactions are already rolled back by the time it runs.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if err, ok := rec.(error); ok {
					render.Error(w, r, fmt.Errorf("%w: %w", ErrHandlerPanic, err))
				} else {
					render.Error(w, r, fmt.Errorf("%w: %v", ErrHandlerPanic, rec))
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
