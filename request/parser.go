// Package request parses and validates inbound payment request query strings.
// Parsing is all-or-nothing: a request missing required fields or naming an
// unknown chain yields an error, never a partially-filled request.
package request

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chainpay/paylink/registry"
	"github.com/chainpay/paylink/types"
	"github.com/chainpay/paylink/utils"
)

// DefaultChainID is substituted when the inbound query string carries no
// usable chainId value.
const DefaultChainID types.ChainID = 1

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := utils.ValidateAmount(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("ethaddr", func(fl validator.FieldLevel) bool {
		return utils.ValidateAddress(fl.Field().String()) == nil
	})
}

// Parse decodes a raw query string into a validated PaymentRequest, resolving
// the target chain against the registry. The leading "?" may be present or
// not. Every failure is reported as a *types.PayError.
func Parse(rawQuery string, reg *registry.Registry) (*types.PaymentRequest, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rawQuery), "?"))
	if trimmed == "" {
		return nil, types.NewPayError(types.ErrInvalidRequest, "empty payment request")
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, &types.PayError{
			Code:    types.ErrInvalidRequest,
			Message: fmt.Sprintf("malformed query string: %v", err),
		}
	}

	chainID := DefaultChainID
	if raw := values.Get("chainId"); raw != "" {
		if parsed, err := types.ParseChainID(raw); err == nil {
			chainID = parsed
		}
	}

	if _, ok := reg.ResolveChain(chainID); !ok {
		return nil, &types.PayError{
			Code:    types.ErrUnsupportedChain,
			Message: fmt.Sprintf("chain %d is not supported", chainID),
		}
	}

	req := &types.PaymentRequest{
		ChainID:     chainID,
		Currency:    values.Get("currency"),
		Amount:      values.Get("amount"),
		To:          values.Get("to"),
		CallbackURL: decodeCallbackURL(values.Get("callbackUrl")),
		Data:        values.Get("data"),
	}

	if err := validate.Struct(req); err != nil {
		return nil, &types.PayError{
			Code:    types.ErrInvalidRequest,
			Message: fmt.Sprintf("invalid payment request: %v", err),
		}
	}

	if err := utils.ValidateHexPayload(req.Data); err != nil {
		return nil, &types.PayError{
			Code:    types.ErrInvalidRequest,
			Message: fmt.Sprintf("invalid payment request: %v", err),
		}
	}

	return req, nil
}

// decodeCallbackURL unescapes a callback URL value. url.ParseQuery has
// already decoded one level; a second pass covers callers that double-encode
// the callback to survive intermediate redirects.
func decodeCallbackURL(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
