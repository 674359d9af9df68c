package paylink

import (
	"time"

	"github.com/chainpay/paylink/callback"
	"github.com/chainpay/paylink/chainmeta"
	"github.com/chainpay/paylink/logger"
	"github.com/chainpay/paylink/metrics"
	"github.com/chainpay/paylink/registry"
)

type Option func(*Controller)

func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Controller) {
		c.rec = r
	}
}

func WithRegistry(r *registry.Registry) Option {
	return func(c *Controller) {
		c.registry = r
	}
}

// WithNavigator supplies the capability used to open callback URLs.
func WithNavigator(n callback.Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

// WithRedirectDelay overrides the pause between payment success and the
// callback redirect.
func WithRedirectDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.redirectDelay = d
	}
}

// WithChainMetadata enables remote chain metadata enrichment for chains the
// static registry does not describe.
func WithChainMetadata(m *chainmeta.Client) Option {
	return func(c *Controller) {
		c.meta = m
	}
}

// WithInfuraProjectID feeds the derived RPC fallback used in chain-switch
// requests for chains without a registry RPC URL.
func WithInfuraProjectID(id string) Option {
	return func(c *Controller) {
		c.infuraID = id
	}
}
