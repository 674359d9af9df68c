// Package txbuilder turns a validated payment request into exactly one
// submitted transaction: a native value transfer, or an ERC-20 transfer call
// against the token contract.
package txbuilder

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainpay/paylink/logger"
	"github.com/chainpay/paylink/registry"
	"github.com/chainpay/paylink/types"
	"github.com/chainpay/paylink/utils"
	"github.com/chainpay/paylink/wallet"
)

const erc20TransferABI = `
[
  {
    "name": "transfer",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      { "name": "to", "type": "address" },
      { "name": "value", "type": "uint256" }
    ],
    "outputs": [
      { "name": "", "type": "bool" }
    ]
  }
]
`

// Builder constructs and submits payment transactions.
type Builder struct {
	registry *registry.Registry
	log      logger.Logger
	tokenABI abi.ABI
}

// New builds a Builder over the given registry.
func New(reg *registry.Registry, log logger.Logger) (*Builder, error) {
	if log == nil {
		log = logger.NoopLogger{}
	}
	parsed, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	return &Builder{registry: reg, log: log, tokenABI: parsed}, nil
}

// Build resolves the request's asset, constructs the matching transfer and
// submits it through the signer. It returns the transaction hash on success.
// Exactly one submission is attempted; a retry is a fresh Build call.
func (b *Builder) Build(ctx context.Context, req *types.PaymentRequest, signer wallet.Signer) (string, error) {
	asset, ok := b.registry.ResolveAsset(req.ChainID, req.Currency)
	if !ok {
		return "", &types.PayError{
			Code:    types.ErrUnsupportedAsset,
			Message: fmt.Sprintf("asset request is not supported: %s", req.Currency),
		}
	}

	if signer == nil {
		return "", types.NewPayError(types.ErrSignerUnavailable, "wallet provider selected is unavailable")
	}

	tx, err := b.buildTx(req, asset)
	if err != nil {
		return "", err
	}

	b.log.Info("submitting payment", map[string]any{
		"chainId":  req.ChainID,
		"currency": asset.Symbol,
		"amount":   req.Amount,
		"to":       tx.To.Hex(),
		"token":    asset.IsToken(),
	})

	hash, err := signer.SendTransaction(ctx, tx)
	if err != nil {
		return "", classifySubmissionError(err)
	}
	return hash.Hex(), nil
}

// buildTx branches on asset kind. Token transfers target the token contract
// and carry transfer(to, value) calldata; native transfers target the
// recipient directly with the request's raw data payload, if any.
func (b *Builder) buildTx(req *types.PaymentRequest, asset *types.AssetDescriptor) (wallet.TxRequest, error) {
	decimals, err := asset.DecimalsInt()
	if err != nil {
		return wallet.TxRequest{}, &types.PayError{
			Code:    types.ErrUnsupportedAsset,
			Message: fmt.Sprintf("asset %s has malformed decimals %q", asset.Symbol, asset.Decimals),
		}
	}

	value, err := utils.ParseAmountWithDecimals(req.Amount, decimals)
	if err != nil {
		return wallet.TxRequest{}, &types.PayError{
			Code:    types.ErrInvalidRequest,
			Message: fmt.Sprintf("invalid amount %q: %v", req.Amount, err),
		}
	}

	if asset.IsToken() {
		calldata, err := b.tokenABI.Pack("transfer", common.HexToAddress(req.To), value)
		if err != nil {
			return wallet.TxRequest{}, fmt.Errorf("failed to encode token transfer: %w", err)
		}
		return wallet.TxRequest{
			To:    common.HexToAddress(asset.ContractAddress),
			Value: big.NewInt(0),
			Data:  calldata,
		}, nil
	}

	var payload []byte
	if req.Data != "" {
		raw := req.Data
		if !strings.HasPrefix(raw, "0x") {
			raw = "0x" + raw
		}
		payload, err = hexutil.Decode(raw)
		if err != nil {
			return wallet.TxRequest{}, &types.PayError{
				Code:    types.ErrInvalidRequest,
				Message: fmt.Sprintf("invalid data payload %q: %v", req.Data, err),
			}
		}
	}

	return wallet.TxRequest{
		To:    common.HexToAddress(req.To),
		Value: value,
		Data:  payload,
	}, nil
}
