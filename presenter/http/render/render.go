package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/db"
	"github.com/omni/authority-bridge/logging"
)

var ErrBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, res interface{}) {
	enc := json.NewEncoder(w)

	if pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty")); pretty {
		enc.SetIndent("", "  ")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := enc.Encode(res); err != nil {
		logging.LoggerFromContext(r.Context()).WithError(err).Error("failed to marshal JSON result")
	}
}

func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	logger := logging.LoggerFromContext(r.Context()).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("request handling failed")
	} else {
		logger.Warn("request rejected")
	}
	JSON(w, r, status, errorResponse{Error: err.Error()})
}

func BadRequest(w http.ResponseWriter, r *http.Request, format string, args ...interface{}) {
	Error(w, r, fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...)))
}

func StatusCode(err error) int {
	switch {
	case errors.Is(err, bridge.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, bridge.ErrDuplicateConfirmation),
		errors.Is(err, bridge.ErrDuplicateSignature),
		errors.Is(err, bridge.ErrAlreadyExecuted),
		errors.Is(err, bridge.ErrAlreadyFinalized):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, bridge.ErrInvalidSignature),
		errors.Is(err, bridge.ErrInsufficientSignatures):
		return http.StatusBadRequest
	case errors.Is(err, bridge.ErrIndexOutOfRange), db.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
