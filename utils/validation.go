package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var hexPayloadRe = regexp.MustCompile("^[0-9a-fA-F]*$")

// ValidateAddress checks that a string is a well-formed EVM address.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid address: %s", address)
	}
	return nil
}

// ValidateHexPayload checks that a string is a well-formed hex call payload.
// An empty string is valid and means "no payload".
func ValidateHexPayload(data string) error {
	if data == "" {
		return nil
	}
	body := strings.TrimPrefix(data, "0x")
	if len(body)%2 != 0 || !hexPayloadRe.MatchString(body) {
		return fmt.Errorf("invalid hex payload: %s", data)
	}
	return nil
}

// ValidateTransactionHash checks a 0x-prefixed 32-byte EVM transaction hash.
func ValidateTransactionHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("transaction hash cannot be empty")
	}
	if !strings.HasPrefix(hash, "0x") {
		return fmt.Errorf("transaction hash must start with 0x")
	}
	if len(hash) != 66 {
		return fmt.Errorf("transaction hash must be 66 characters long")
	}
	if !hexPayloadRe.MatchString(hash[2:]) {
		return fmt.Errorf("transaction hash must be valid hex")
	}
	return nil
}
