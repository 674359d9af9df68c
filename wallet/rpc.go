package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/chainpay/paylink/logger"
	"github.com/chainpay/paylink/types"
)

var _ Provider = (*RPCProvider)(nil)

// Gas limits used when estimation fails: a plain value transfer and an
// ERC-20 transfer respectively.
const (
	gasLimitNative uint64 = 21000
	gasLimitToken  uint64 = 60000
)

// RPCProvider is a wallet backend over a JSON-RPC endpoint with a local
// ECDSA key. Chain switching re-dials the endpoint named in the add-chain
// request; chain and account changes are announced to subscribers.
type RPCProvider struct {
	log          logger.Logger
	pollInterval time.Duration

	mu      sync.Mutex
	rpcURL  string
	client  *ethclient.Client
	chainID types.ChainID
	key     *ecdsa.PrivateKey
	address common.Address
	subs    []*Subscription

	pollStop chan struct{}
	pollWG   sync.WaitGroup
	closed   bool
}

// RPCProviderConfig configures an RPCProvider.
type RPCProviderConfig struct {
	// RPCURL is the endpoint dialed on Connect.
	RPCURL string

	// PrivateKey is the hex-encoded signing key, with or without 0x prefix.
	PrivateKey string

	// PollInterval drives chain-change detection. Zero disables polling.
	PollInterval time.Duration
}

// NewRPCProvider builds an RPC-backed wallet provider. The endpoint is not
// dialed until Connect.
func NewRPCProvider(cfg RPCProviderConfig, log logger.Logger) (*RPCProvider, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &RPCProvider{
		log:          log,
		pollInterval: cfg.PollInterval,
		rpcURL:       cfg.RPCURL,
		key:          key,
		address:      crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Connect dials the configured endpoint and records the chain it serves.
func (p *RPCProvider) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return nil
	}

	client, err := ethclient.DialContext(ctx, p.rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to read chain id: %w", err)
	}

	p.client = client
	p.chainID = types.ChainID(chainID.Int64())
	p.log.Info("wallet connected", map[string]any{
		"address": p.address.Hex(),
		"chainId": p.chainID,
		"rpcUrl":  p.rpcURL,
	})

	if p.pollInterval > 0 {
		p.pollStop = make(chan struct{})
		p.pollWG.Add(1)
		go p.pollLoop()
	}
	return nil
}

// ChainID reports the chain of the current endpoint.
func (p *RPCProvider) ChainID(ctx context.Context) (types.ChainID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return 0, types.NewPayError(types.ErrSignerUnavailable, "wallet is not connected")
	}
	return p.chainID, nil
}

// Signer returns the local key signer, or nil before Connect.
func (p *RPCProvider) Signer() Signer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	return &keySigner{provider: p}
}

// SwitchChain re-dials against the first reachable RPC URL in the request
// and verifies the served chain id matches. Subscribers are notified of the
// change.
func (p *RPCProvider) SwitchChain(ctx context.Context, params AddChainParams) error {
	want, err := hexutil.DecodeUint64(params.ChainID)
	if err != nil {
		return &types.PayError{
			Code:    types.ErrSwitchRejected,
			Message: fmt.Sprintf("malformed chain id %q in switch request", params.ChainID),
		}
	}
	if len(params.RPCURLs) == 0 {
		return &types.PayError{
			Code:    types.ErrSwitchRejected,
			Message: fmt.Sprintf("no RPC endpoint known for chain %s", params.ChainName),
		}
	}

	var lastErr error
	for _, rpcURL := range params.RPCURLs {
		client, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			lastErr = err
			continue
		}
		served, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			lastErr = err
			continue
		}
		if served.Uint64() != want {
			client.Close()
			lastErr = fmt.Errorf("endpoint %s serves chain %s, want %d", rpcURL, served, want)
			continue
		}

		p.mu.Lock()
		if p.client != nil {
			p.client.Close()
		}
		p.client = client
		p.rpcURL = rpcURL
		p.chainID = types.ChainID(want)
		subs := append([]*Subscription(nil), p.subs...)
		p.mu.Unlock()

		p.log.Info("switched chain", map[string]any{"chainId": want, "rpcUrl": rpcURL})
		for _, s := range subs {
			s.send(Event{Kind: EventChainChanged, ChainID: types.ChainID(want)})
		}
		return nil
	}

	return &types.PayError{
		Code:    types.ErrSwitchRejected,
		Message: fmt.Sprintf("could not switch to %s: %v", params.ChainName, lastErr),
	}
}

// Subscribe registers a new event subscription.
func (p *RPCProvider) Subscribe() *Subscription {
	sub := NewSubscription()
	p.mu.Lock()
	p.subs = append(p.subs, sub)
	p.mu.Unlock()
	return sub
}

// Close tears the session down, stops polling and notifies subscribers.
func (p *RPCProvider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.pollStop != nil {
		close(p.pollStop)
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	p.pollWG.Wait()
	for _, s := range subs {
		s.send(Event{Kind: EventDisconnected})
		s.Close()
	}
	return nil
}

// pollLoop watches for the served chain id drifting away from the recorded
// one (an operator repointing the endpoint between polls).
func (p *RPCProvider) pollLoop() {
	defer p.pollWG.Done()
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.pollStop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		client := p.client
		recorded := p.chainID
		p.mu.Unlock()
		if client == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		served, err := client.ChainID(ctx)
		cancel()
		if err != nil {
			p.log.Warn("chain poll failed", map[string]any{"error": err.Error()})
			continue
		}

		current := types.ChainID(served.Int64())
		if current == recorded {
			continue
		}

		p.mu.Lock()
		p.chainID = current
		subs := append([]*Subscription(nil), p.subs...)
		p.mu.Unlock()

		p.log.Info("chain changed", map[string]any{"chainId": current})
		for _, s := range subs {
			s.send(Event{Kind: EventChainChanged, ChainID: current})
		}
	}
}

// keySigner signs and broadcasts transactions with the provider's local key.
type keySigner struct {
	provider *RPCProvider
}

var _ Signer = (*keySigner)(nil)

func (s *keySigner) Address() common.Address {
	return s.provider.address
}

func (s *keySigner) SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error) {
	p := s.provider

	p.mu.Lock()
	client := p.client
	chainID := p.chainID
	p.mu.Unlock()
	if client == nil {
		return common.Hash{}, types.NewPayError(types.ErrSignerUnavailable, "wallet is not connected")
	}

	nonce, err := client.PendingNonceAt(ctx, p.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:  p.address,
		To:    &tx.To,
		Value: tx.Value,
		Data:  tx.Data,
	})
	if err != nil {
		gasLimit = gasLimitNative
		if len(tx.Data) > 0 {
			gasLimit = gasLimitToken
		}
		p.log.Warn("gas estimation failed, using fallback", map[string]any{
			"error":    err.Error(),
			"gasLimit": gasLimit,
		})
	}

	unsigned := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &tx.To,
		Value:    tx.Value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     tx.Data,
	})
	signed, err := gethtypes.SignTx(unsigned, gethtypes.LatestSignerForChainID(big.NewInt(int64(chainID))), p.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}
