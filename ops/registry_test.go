package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterRow(NewFirstOp())
	reg.RegisterRow(NewBehaviors())
	reg.RegisterRow(NewDiscretization())
	reg.RegisterRow(NewLastOp())

	names := make([]string, 0, 4)
	for _, op := range reg.Rows() {
		names = append(names, op.Name())
	}
	assert.Equal(t, []string{
		NewFirstOp().Name(),
		NewBehaviors().Name(),
		NewDiscretization().Name(),
		NewLastOp().Name(),
	}, names)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterRow(NewFirstOp())
	reg.RegisterRow(NewFirstOp())

	assert.Len(t, reg.Rows(), 1)
}

func TestUnscheduleRefusesProtectedOperations(t *testing.T) {
	reg := NewRegistry()
	first := NewFirstOp()
	reg.RegisterRow(first)

	reg.Unschedule(first.Name())

	assert.Len(t, reg.Rows(), 1, "protected operation must not be removed")
}

func TestUnscheduleRemovesUnprotectedOperations(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterRow(NewDisplacement(0.01, 3))

	reg.Unschedule(NewDisplacement(0.01, 3).Name())

	assert.Len(t, reg.Rows(), 0)
}

func TestShouldRunGatesOnFrequency(t *testing.T) {
	assert.True(t, ShouldRun(1, 0))
	assert.True(t, ShouldRun(1, 7))
	assert.True(t, ShouldRun(3, 0))
	assert.False(t, ShouldRun(3, 1))
	assert.False(t, ShouldRun(3, 2))
	assert.True(t, ShouldRun(3, 3))

	// Frequencies below 1 are treated as 1 (run every step).
	assert.True(t, ShouldRun(0, 5))
}
