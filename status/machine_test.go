package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainpay/paylink/types"
)

func TestMachine_HappyPath(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, Idle, m.Current())

	require.NoError(t, m.Begin())
	assert.Equal(t, Pending, m.Current())

	require.NoError(t, m.Succeed("0xabc"))
	snap := m.Snapshot()
	assert.Equal(t, Success, snap.State)
	assert.Equal(t, "0xabc", snap.TxHash)
	assert.Empty(t, snap.ErrorMessage)
	assert.NotEmpty(t, snap.AttemptID)
}

func TestMachine_FailureAndRetry(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin())
	require.NoError(t, m.Fail("user rejected"))

	snap := m.Snapshot()
	assert.Equal(t, Failure, snap.State)
	assert.Equal(t, "user rejected", snap.ErrorMessage)
	first := snap.AttemptID

	// retry is a fresh Pending attempt with the error cleared
	require.NoError(t, m.Begin())
	snap = m.Snapshot()
	assert.Equal(t, Pending, snap.State)
	assert.Empty(t, snap.ErrorMessage)
	assert.NotEqual(t, first, snap.AttemptID)

	require.NoError(t, m.Succeed("0xdef"))
	assert.Equal(t, Success, m.Current())
}

func TestMachine_NeverSkipsPending(t *testing.T) {
	m := NewMachine()

	err := m.Succeed("0xabc")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidTransition, types.ErrorCode(err))

	err = m.Fail("boom")
	require.Error(t, err)
	assert.Equal(t, types.ErrInvalidTransition, types.ErrorCode(err))

	assert.Equal(t, Idle, m.Current())
}

func TestMachine_RejectsOverlappingAttempts(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin())

	err := m.Begin()
	require.Error(t, err)
	assert.Equal(t, types.ErrAttemptInFlight, types.ErrorCode(err))
	assert.Equal(t, Pending, m.Current())
}

func TestMachine_SuccessIsTerminal(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin())
	require.NoError(t, m.Succeed("0xabc"))

	assert.Error(t, m.Begin())
	assert.Error(t, m.Fail("late error"))
	assert.Equal(t, Success, m.Current())
}
