// Command paylink fulfils one URL-encoded payment request from the command
// line: it connects an RPC-backed wallet, submits the transfer and reports
// the resulting transaction.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chainpay/paylink"
	"github.com/chainpay/paylink/chainmeta"
	"github.com/chainpay/paylink/config"
	"github.com/chainpay/paylink/logger"
	"github.com/chainpay/paylink/metrics"
	"github.com/chainpay/paylink/status"
	"github.com/chainpay/paylink/wallet"
)

// stdoutNavigator reports callback redirects on standard output instead of
// opening a browser.
type stdoutNavigator struct{}

func (stdoutNavigator) Open(target string) error {
	_, err := fmt.Printf("callback: %s\n", target)
	return err
}

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (optional)")
		paymentURL = flag.String("url", "", "payment request URL or query string")
		timeout    = flag.Duration("timeout", 2*time.Minute, "overall payment timeout")
	)
	flag.Parse()

	if *paymentURL == "" {
		fmt.Fprintln(os.Stderr, "usage: paylink -url '<payment url>' [-config paylink.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewZapLogger(cfg.Log.Level, cfg.Log.Pretty)

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		rec = metrics.NewPrometheusRecorder()
	}

	controller, err := paylink.New(
		paylink.WithLogger(log),
		paylink.WithMetrics(rec),
		paylink.WithNavigator(stdoutNavigator{}),
		paylink.WithRedirectDelay(cfg.Payment.RedirectDelay),
		paylink.WithChainMetadata(chainmeta.New()),
		paylink.WithInfuraProjectID(cfg.Payment.InfuraProjectID),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init error: %v\n", err)
		os.Exit(1)
	}

	if !controller.LoadRequest(extractQuery(*paymentURL)) {
		fmt.Fprintln(os.Stderr, "Payment request not supported or invalid")
		os.Exit(1)
	}

	provider, err := wallet.NewRPCProvider(wallet.RPCProviderConfig{
		RPCURL:       cfg.Wallet.RPCURL,
		PrivateKey:   cfg.Wallet.PrivateKey,
		PollInterval: cfg.Wallet.PollInterval,
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wallet error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := controller.Connect(ctx, provider); err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer controller.Reset()

	req := controller.Request()
	fmt.Printf("Paying %s %s to %s on chain %d\n", req.Amount, req.Currency, req.To, req.ChainID)

	if err := controller.Pay(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "payment failed: %v\n", err)
		os.Exit(1)
	}

	snap := controller.Status()
	if snap.State == status.Success {
		fmt.Printf("payment submitted: %s\n", snap.TxHash)
		// let a scheduled callback redirect fire before exiting
		time.Sleep(cfg.Payment.RedirectDelay + 500*time.Millisecond)
	}
}

// extractQuery accepts either a full payment URL or a bare query string.
func extractQuery(raw string) string {
	if parsed, err := url.Parse(raw); err == nil && parsed.RawQuery != "" {
		return parsed.RawQuery
	}
	return raw
}
