package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeHandle(t *testing.T) *WorkflowHandle {
	t.Helper()
	d := NewDispatcher(newTestRegistry(t, translator()))
	h, err := d.Dispatch(context.Background(), "translator", InvocationContext{})
	require.NoError(t, err)
	return h
}

func TestHandleComplete(t *testing.T) {
	h := activeHandle(t)

	require.NoError(t, h.Complete())
	assert.Equal(t, StateCompleted, h.State())

	// Terminal states admit no further transitions
	assert.Error(t, h.Complete())
	assert.Error(t, h.Abort())
}

func TestHandleAbort(t *testing.T) {
	h := activeHandle(t)

	require.NoError(t, h.Abort())
	assert.Equal(t, StateAborted, h.State())
	assert.Error(t, h.Complete())
}

func TestAuthorizeAfterClose(t *testing.T) {
	t.Run("after complete", func(t *testing.T) {
		h := activeHandle(t)
		require.NoError(t, h.Complete())

		err := h.Authorize("Read")
		var dispErr *DispatchError
		require.ErrorAs(t, err, &dispErr)
		assert.Equal(t, InvocationClosed, dispErr.Reason)
	})

	t.Run("after abort", func(t *testing.T) {
		h := activeHandle(t)
		require.NoError(t, h.Abort())

		err := h.Authorize("Read")
		var dispErr *DispatchError
		require.ErrorAs(t, err, &dispErr)
		assert.Equal(t, InvocationClosed, dispErr.Reason)
	})
}

func TestHandleNoSkippedStates(t *testing.T) {
	h := newHandle(translator())
	assert.Equal(t, StateCreated, h.State())

	// Active is not reachable from Created directly
	assert.Error(t, h.advance(StateActive))
	assert.Error(t, h.advance(StateCompleted))

	require.NoError(t, h.advance(StateConfigResolved))
	assert.Error(t, h.advance(StateCompleted), "Completed requires Active first")
	require.NoError(t, h.advance(StateActive))
	require.NoError(t, h.advance(StateCompleted))
}

func TestHandleAbortFromAnyNonTerminal(t *testing.T) {
	h := newHandle(translator())
	require.NoError(t, h.Abort())

	h = newHandle(translator())
	require.NoError(t, h.advance(StateConfigResolved))
	require.NoError(t, h.Abort())
}
