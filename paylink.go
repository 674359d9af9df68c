// Package paylink implements fulfilment of URL-encoded payment requests:
// parsing and validating the request, aligning the wallet with the target
// chain, constructing and submitting the transfer, tracking its status and
// redirecting to the caller's callback URL with proof of completion.
package paylink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chainpay/paylink/align"
	"github.com/chainpay/paylink/callback"
	"github.com/chainpay/paylink/chainmeta"
	"github.com/chainpay/paylink/logger"
	"github.com/chainpay/paylink/metrics"
	"github.com/chainpay/paylink/registry"
	"github.com/chainpay/paylink/request"
	"github.com/chainpay/paylink/status"
	"github.com/chainpay/paylink/txbuilder"
	"github.com/chainpay/paylink/types"
	"github.com/chainpay/paylink/wallet"
)

// Controller owns the wallet session and payment status for one browser-tab
// equivalent: at most one payment request and one in-flight submission at a
// time. All pipeline steps run strictly sequentially per attempt.
type Controller struct {
	registry      *registry.Registry
	aligner       *align.Manager
	builder       *txbuilder.Builder
	redirector    *callback.Redirector
	meta          *chainmeta.Client
	log           logger.Logger
	rec           metrics.Recorder
	redirectDelay time.Duration

	// set during option application, consumed by New
	navigator callback.Navigator
	infuraID  string

	mu            sync.Mutex
	req           *types.PaymentRequest
	machine       *status.Machine
	session       types.WalletSession
	provider      wallet.Provider
	sub           *wallet.Subscription
	redirectTimer *time.Timer
}

// New builds a Controller. Without options it uses the built-in registry, a
// no-op logger and recorder, no navigation capability and a 2 second
// redirect delay.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		registry:      registry.Default(),
		log:           logger.NoopLogger{},
		rec:           metrics.NoopRecorder{},
		redirectDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.aligner = align.NewManager(c.infuraID, c.log)
	c.redirector = callback.New(c.navigator, c.log)

	builder, err := txbuilder.New(c.registry, c.log)
	if err != nil {
		return nil, err
	}
	c.builder = builder
	return c, nil
}

// LoadRequest parses an inbound query string into the controller's payment
// request. Parse failures are swallowed into the absent state: the method
// returns false, a diagnostic is logged and no partial request is retained.
func (c *Controller) LoadRequest(rawQuery string) bool {
	req, err := request.Parse(rawQuery, c.registry)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Warn("payment request not supported or invalid", map[string]any{
			"error": err.Error(),
		})
		c.rec.IncCounter(metrics.EventRequestInvalid, nil)
		c.req = nil
		c.machine = nil
		return false
	}

	c.req = req
	c.machine = status.NewMachine()
	c.rec.IncCounter(metrics.EventRequestParsed, map[string]string{"chain": req.ChainID.String()})
	c.log.Info("payment request loaded", map[string]any{
		"chainId":  req.ChainID,
		"currency": req.Currency,
		"amount":   req.Amount,
		"to":       req.To,
	})
	return true
}

// Request returns a copy of the loaded payment request, or nil.
func (c *Controller) Request() *types.PaymentRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.req == nil {
		return nil
	}
	cp := *c.req
	return &cp
}

// Status returns the current payment status. With no request loaded the
// status is Idle.
func (c *Controller) Status() status.Snapshot {
	c.mu.Lock()
	machine := c.machine
	c.mu.Unlock()
	if machine == nil {
		return status.Snapshot{State: status.Idle}
	}
	return machine.Snapshot()
}

// Session returns a copy of the wallet session state.
func (c *Controller) Session() types.WalletSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Connect establishes the wallet session over the given provider and wires
// the controller to its event subscription.
func (c *Controller) Connect(ctx context.Context, provider wallet.Provider) error {
	if provider == nil {
		return types.NewPayError(types.ErrSignerUnavailable, "no wallet provider selected")
	}
	if err := provider.Connect(ctx); err != nil {
		return fmt.Errorf("wallet connection failed: %w", err)
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read wallet chain: %w", err)
	}

	address := ""
	if signer := provider.Signer(); signer != nil {
		address = signer.Address().Hex()
	}

	chain := c.lookupChain(ctx, chainID)

	sub := provider.Subscribe()

	c.mu.Lock()
	c.provider = provider
	c.sub = sub
	c.session = types.WalletSession{
		Connected: true,
		Address:   address,
		Chain:     chain,
		ChainID:   chainID,
	}
	c.mu.Unlock()

	go c.watchWallet(sub)

	c.log.Info("wallet session established", map[string]any{
		"address": address,
		"chainId": chainID,
	})
	return nil
}

// Pay runs one payment attempt end to end: alignment check (with a
// chain-switch request when misaligned), transaction construction and
// submission, status update and callback scheduling. Overlapping attempts
// are rejected while one is pending.
func (c *Controller) Pay(ctx context.Context) error {
	c.mu.Lock()
	req := c.req
	machine := c.machine
	provider := c.provider
	connected := c.session.Connected
	c.mu.Unlock()

	if req == nil || machine == nil {
		c.log.Warn("pay invoked with no payment request", nil)
		return types.NewPayError(types.ErrInvalidRequest, "payment request missing or invalid")
	}
	if !connected || provider == nil {
		return types.NewPayError(types.ErrSignerUnavailable, "wallet provider selected is unavailable")
	}

	if err := machine.Begin(); err != nil {
		return err
	}

	started := time.Now()
	chainLabel := map[string]string{"chain": req.ChainID.String()}
	defer func() {
		c.rec.ObserveLatency(metrics.OperationPay, time.Since(started), chainLabel)
	}()

	if err := c.ensureAligned(ctx, provider, req); err != nil {
		return c.fail(machine, chainLabel, err)
	}

	hash, err := c.builder.Build(ctx, req, provider.Signer())
	if err != nil {
		return c.fail(machine, chainLabel, err)
	}

	if err := machine.Succeed(hash); err != nil {
		return err
	}
	c.rec.IncCounter(metrics.EventPaymentSubmitted, chainLabel)
	c.log.Info("payment submitted", map[string]any{
		"txHash":  hash,
		"chainId": req.ChainID,
	})

	if req.CallbackURL != "" {
		c.scheduleRedirect(req.CallbackURL, hash, req.Currency, chainLabel)
	}
	return nil
}

// Reset tears down the wallet session: the subscription is closed, any
// scheduled redirect is cancelled and the provider is released. The loaded
// payment request survives so the user can reconnect and retry; an in-flight
// Pending attempt is abandoned, not cancelled on chain.
func (c *Controller) Reset() {
	c.mu.Lock()
	sub := c.sub
	provider := c.provider
	timer := c.redirectTimer
	c.sub = nil
	c.provider = nil
	c.redirectTimer = nil
	c.session.Reset()
	c.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if sub != nil {
		sub.Close()
	}
	if provider != nil {
		if err := provider.Close(); err != nil {
			c.log.Warn("provider close failed", map[string]any{"error": err.Error()})
		}
	}
	c.log.Info("wallet session reset", nil)
}

// ensureAligned verifies the wallet is on the request's chain, requesting a
// switch when it is not, and re-checks afterwards. The check-then-build pair
// is best effort; a wallet drifting between poll and submission is caught by
// the provider-level rejection.
func (c *Controller) ensureAligned(ctx context.Context, provider wallet.Provider, req *types.PaymentRequest) error {
	walletChain, err := provider.ChainID(ctx)
	if err != nil {
		return &types.PayError{
			Code:    types.ErrSignerUnavailable,
			Message: fmt.Sprintf("failed to read wallet chain: %v", err),
		}
	}
	if align.IsAligned(walletChain, req.ChainID) {
		return nil
	}

	chain, ok := c.registry.ResolveChain(req.ChainID)
	if !ok {
		return &types.PayError{
			Code:    types.ErrUnsupportedChain,
			Message: fmt.Sprintf("chain %d is not supported", req.ChainID),
		}
	}

	c.rec.IncCounter(metrics.EventChainSwitch, map[string]string{"chain": req.ChainID.String()})
	if err := c.aligner.RequestSwitch(ctx, provider, chain); err != nil {
		return &types.PayError{
			Code:    types.ErrChainMismatch,
			Message: fmt.Sprintf("please switch to %s: %v", chain.Name, err),
		}
	}

	walletChain, err = provider.ChainID(ctx)
	if err != nil || !align.IsAligned(walletChain, req.ChainID) {
		return &types.PayError{
			Code:    types.ErrChainMismatch,
			Message: fmt.Sprintf("wallet is connected to chain %d, expected %s (chain %d)", walletChain, chain.Name, chain.ChainID),
		}
	}
	return nil
}

// fail records a terminal attempt error on the status machine, keeping the
// provider-supplied message when present.
func (c *Controller) fail(machine *status.Machine, chainLabel map[string]string, err error) error {
	message := err.Error()
	if ferr := machine.Fail(message); ferr != nil {
		c.log.Error("failed to record payment failure", map[string]any{"error": ferr.Error()})
	}
	c.rec.IncCounter(metrics.EventPaymentFailed, chainLabel)
	c.log.Error("payment attempt failed", map[string]any{"error": message})
	return err
}

// scheduleRedirect opens the callback URL after the configured delay so the
// success state can render first. Exactly one timer is live at a time; Reset
// cancels it.
func (c *Controller) scheduleRedirect(callbackURL, txHash, currency string, chainLabel map[string]string) {
	timer := time.AfterFunc(c.redirectDelay, func() {
		c.redirector.Redirect(callbackURL, txHash, currency)
		c.rec.IncCounter(metrics.EventCallbackOpened, chainLabel)
	})

	c.mu.Lock()
	if c.redirectTimer != nil {
		c.redirectTimer.Stop()
	}
	c.redirectTimer = timer
	c.mu.Unlock()
}

// watchWallet consumes wallet session events until the subscription closes.
// Disconnect resets the session; account and chain changes update it, with
// alignment re-evaluated on chain changes.
func (c *Controller) watchWallet(sub *wallet.Subscription) {
	for ev := range sub.Events() {
		switch ev.Kind {
		case wallet.EventDisconnected:
			c.Reset()

		case wallet.EventAccountsChanged:
			c.mu.Lock()
			c.session.Address = ev.Address
			c.mu.Unlock()
			c.log.Info("wallet account changed", map[string]any{"address": ev.Address})

		case wallet.EventChainChanged:
			chain := c.lookupChain(context.Background(), ev.ChainID)

			c.mu.Lock()
			c.session.ChainID = ev.ChainID
			c.session.Chain = chain
			req := c.req
			c.mu.Unlock()

			aligned := req != nil && align.IsAligned(ev.ChainID, req.ChainID)
			c.log.Info("wallet chain changed", map[string]any{
				"chainId": ev.ChainID,
				"aligned": aligned,
			})
		}
	}
}

// lookupChain resolves a chain descriptor from the static registry, falling
// back to the remote metadata service for display enrichment. Enrichment
// failures never block the flow.
func (c *Controller) lookupChain(ctx context.Context, chainID types.ChainID) *types.ChainDescriptor {
	if chain, ok := c.registry.ResolveChain(chainID); ok {
		return chain
	}
	if c.meta == nil {
		return nil
	}

	metaCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	chain, err := c.meta.ResolveChainMetadata(metaCtx, chainID)
	if err != nil {
		c.log.Warn("chain metadata lookup failed", map[string]any{
			"chainId": chainID,
			"error":   err.Error(),
		})
		return nil
	}
	return chain
}
