// Package status tracks the lifecycle of a single payment attempt through a
// small forward-only state machine.
package status

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chainpay/paylink/types"
)

// State is the lifecycle state of a payment attempt.
type State string

const (
	Idle    State = "idle"
	Pending State = "pending"
	Success State = "success"
	Failure State = "failure"
)

// validTransitions lists every permitted state change. Failure -> Pending
// covers a user-initiated retry; everything else is forward-only.
var validTransitions = map[State][]State{
	Idle:    {Pending},
	Pending: {Success, Failure},
	Failure: {Pending},
}

// Snapshot is a point-in-time copy of the machine's state.
type Snapshot struct {
	State        State  `json:"status"`
	TxHash       string `json:"result,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	AttemptID    string `json:"attemptId,omitempty"`
}

// Machine holds the status of exactly one in-flight payment attempt. The
// controller drives it from a sequential task chain, but a wallet event
// subscription may read it concurrently, so access is guarded.
type Machine struct {
	mu        sync.Mutex
	state     State
	txHash    string
	errMsg    string
	attemptID string
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: Idle}
}

// Begin moves the machine into Pending, clearing any previous error and
// assigning a fresh attempt id. It fails when an attempt is already in
// flight or the machine has ended in Success.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Pending {
		return types.NewPayError(types.ErrAttemptInFlight, "a payment attempt is already pending")
	}
	if err := m.transition(Pending); err != nil {
		return err
	}
	m.txHash = ""
	m.errMsg = ""
	m.attemptID = uuid.NewString()
	return nil
}

// Succeed moves Pending -> Success, recording the transaction hash.
func (m *Machine) Succeed(txHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.transition(Success); err != nil {
		return err
	}
	m.txHash = txHash
	return nil
}

// Fail moves Pending -> Failure, recording a human-readable message.
func (m *Machine) Fail(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.transition(Failure); err != nil {
		return err
	}
	m.errMsg = message
	return nil
}

// Current returns the machine's current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a copy of the full machine state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:        m.state,
		TxHash:       m.txHash,
		ErrorMessage: m.errMsg,
		AttemptID:    m.attemptID,
	}
}

func (m *Machine) transition(to State) error {
	for _, allowed := range validTransitions[m.state] {
		if allowed == to {
			m.state = to
			return nil
		}
	}
	return &types.PayError{
		Code:    types.ErrInvalidTransition,
		Message: fmt.Sprintf("invalid status transition %s -> %s", m.state, to),
	}
}
