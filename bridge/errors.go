package bridge

import "errors"

var (
	ErrConfiguration          = errors.New("invalid authority configuration")
	ErrUnauthorized           = errors.New("caller is not an authority")
	ErrDuplicateConfirmation  = errors.New("authority already confirmed this message")
	ErrDuplicateSignature     = errors.New("authority already signed this message")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrAlreadyExecuted        = errors.New("message already executed")
	ErrAlreadyFinalized       = errors.New("message already finalized")
	ErrInsufficientSignatures = errors.New("not enough authority signatures")
	ErrExecutionFailed        = errors.New("forwarded call failed")
	ErrIndexOutOfRange        = errors.New("index out of range")
)

func errorLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrDuplicateConfirmation), errors.Is(err, ErrDuplicateSignature):
		return "duplicate"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrAlreadyExecuted), errors.Is(err, ErrAlreadyFinalized):
		return "already_done"
	case errors.Is(err, ErrInsufficientSignatures):
		return "insufficient_signatures"
	case errors.Is(err, ErrExecutionFailed):
		return "execution_failed"
	default:
		return "error"
	}
}
