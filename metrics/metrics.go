// Package metrics defines the instrumentation capability the payment
// pipeline records events and latencies through.
package metrics

import "time"

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Event and operation names recorded by the pipeline.
const (
	EventRequestParsed    = "request_parsed"
	EventRequestInvalid   = "request_invalid"
	EventChainSwitch      = "chain_switch"
	EventPaymentSubmitted = "payment_submitted"
	EventPaymentFailed    = "payment_failed"
	EventCallbackOpened   = "callback_opened"

	OperationPay = "pay"
)
