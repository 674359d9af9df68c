// Package callback appends payment results to a caller-supplied callback URL
// and opens it through a navigation capability.
package callback

import (
	"net/url"

	"github.com/chainpay/paylink/logger"
)

// Navigator is the external capability that opens a URL (a browser window,
// an OS handler, a test recorder).
type Navigator interface {
	Open(url string) error
}

// absentSentinel is what a decode of a missing query field produces in loose
// front ends; it must never be treated as a real callback URL.
const absentSentinel = "undefined"

// Redirector opens callback URLs carrying proof of payment completion.
type Redirector struct {
	nav Navigator
	log logger.Logger
}

// New builds a Redirector. A nil navigator makes every redirect a logged
// no-op.
func New(nav Navigator, log logger.Logger) *Redirector {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Redirector{nav: nav, log: log}
}

// Redirect merges txhash and currency into the callback URL's query string,
// preserving existing parameters, and opens the result. Empty and sentinel
// callback values are a no-op. Navigation failures are logged, not surfaced.
func (r *Redirector) Redirect(callbackURL, txHash, currency string) {
	if callbackURL == "" || callbackURL == absentSentinel {
		return
	}

	target, err := AppendToQueryString(callbackURL, map[string]string{
		"txhash":   txHash,
		"currency": currency,
	})
	if err != nil {
		r.log.Error("malformed callback url", map[string]any{
			"callbackUrl": callbackURL,
			"error":       err.Error(),
		})
		return
	}

	if r.nav == nil {
		r.log.Warn("navigation capability unavailable", map[string]any{"url": target})
		return
	}
	if err := r.nav.Open(target); err != nil {
		r.log.Error("failed to open callback url", map[string]any{
			"url":   target,
			"error": err.Error(),
		})
	}
}

// AppendToQueryString merges parameters into a URL's existing query string.
func AppendToQueryString(rawURL string, params map[string]string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
