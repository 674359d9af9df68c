package types

// PayError is the structured error type used across the pipeline. Code is a
// stable machine-readable identifier; Message is shown to the user.
type PayError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *PayError) Error() string {
	return e.Message
}

// Common error codes.
const (
	ErrInvalidRequest     = "INVALID_REQUEST"
	ErrUnsupportedChain   = "UNSUPPORTED_CHAIN"
	ErrUnsupportedAsset   = "UNSUPPORTED_ASSET"
	ErrChainMismatch      = "CHAIN_MISMATCH"
	ErrSignerUnavailable  = "SIGNER_UNAVAILABLE"
	ErrSwitchRejected     = "SWITCH_REJECTED"
	ErrSubmissionRejected = "SUBMISSION_REJECTED"
	ErrSubmissionFailed   = "SUBMISSION_FAILED"
	ErrInvalidTransition  = "INVALID_TRANSITION"
	ErrAttemptInFlight    = "ATTEMPT_IN_FLIGHT"
	ErrConfigError        = "CONFIG_ERROR"
)

// NewPayError builds a PayError with the given code and message.
func NewPayError(code, message string) *PayError {
	return &PayError{Code: code, Message: message}
}

// ErrorCode extracts the PayError code from an error chain, or "" when the
// error is not a PayError.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := err.(*PayError); ok {
		return pe.Code
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return ErrorCode(u.Unwrap())
	}
	return ""
}
