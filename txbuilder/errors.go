package txbuilder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainpay/paylink/types"
)

// classifySubmissionError maps a provider error onto the submission error
// taxonomy, keeping the most specific human-readable message available. A
// revert carried in the provider's error data is preferred over the outer
// message, matching what wallets display.
func classifySubmissionError(err error) error {
	if err == nil {
		return nil
	}
	var pe *types.PayError
	if errors.As(err, &pe) {
		return pe
	}

	message := err.Error()
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok && data != "" {
			message = data
		}
	}

	if isRejection(message) {
		return &types.PayError{
			Code:    types.ErrSubmissionRejected,
			Message: message,
		}
	}

	return &types.PayError{
		Code:    types.ErrSubmissionFailed,
		Message: fmt.Sprintf("transaction submission failed: %s", message),
	}
}

// isRejection recognizes a user or provider declining the transaction, as
// opposed to a transport or node failure.
func isRejection(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range []string{"denied", "rejected", "declined", "revert"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
