package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStateMachine_Cycle(t *testing.T) {
	ctx := context.Background()
	sm := NewStateMachine(zaptest.NewLogger(t))

	var changes []string
	sm.OnStateChange(func(from, to GameState, event string) {
		changes = append(changes, string(from)+"->"+string(to))
	})

	assert.Equal(t, StateIdle, sm.GetState())
	assert.Equal(t, []string{EventDeposit}, sm.GetValidEvents())

	require.NoError(t, sm.Trigger(ctx, EventDeposit))
	require.NoError(t, sm.Trigger(ctx, EventStartSpin))
	assert.Equal(t, []string{EventAbort, EventStopSpin}, sm.GetValidEvents())
	require.NoError(t, sm.Trigger(ctx, EventStopSpin))
	assert.Equal(t, []string{EventAbort, EventBust, EventContinue}, sm.GetValidEvents())
	require.NoError(t, sm.Trigger(ctx, EventContinue))
	require.NoError(t, sm.Trigger(ctx, EventStartSpin))
	require.NoError(t, sm.Trigger(ctx, EventAbort))
	require.NoError(t, sm.Trigger(ctx, EventStartSpin))
	require.NoError(t, sm.Trigger(ctx, EventStopSpin))
	require.NoError(t, sm.Trigger(ctx, EventBust))

	assert.Equal(t, StateIdle, sm.GetState())
	assert.Equal(t, []string{
		"idle->ready",
		"ready->spinning",
		"spinning->settlement",
		"settlement->ready",
		"ready->spinning",
		"spinning->ready",
		"ready->spinning",
		"spinning->settlement",
		"settlement->idle",
	}, changes)
}

func TestStateMachine_InvalidEvent(t *testing.T) {
	ctx := context.Background()
	sm := NewStateMachine(nil)

	assert.False(t, sm.CanTransition(EventStartSpin))
	assert.Error(t, sm.Trigger(ctx, EventStartSpin))
	assert.Equal(t, StateIdle, sm.GetState())

	require.NoError(t, sm.Trigger(ctx, EventDeposit))
	assert.Error(t, sm.Trigger(ctx, EventDeposit))
	assert.True(t, sm.CanTransition(EventStartSpin))

	sm.Reset()
	assert.Equal(t, StateIdle, sm.GetState())
}

func TestStateMachine_StopSpinCanceled(t *testing.T) {
	sm := NewStateMachine(nil)
	require.NoError(t, sm.Trigger(context.Background(), EventDeposit))
	require.NoError(t, sm.Trigger(context.Background(), EventStartSpin))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sm.Trigger(ctx, EventStopSpin)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateSpinning, sm.GetState())

	// 结算阶段也可以中止
	require.NoError(t, sm.Trigger(context.Background(), EventStopSpin))
	require.NoError(t, sm.Trigger(context.Background(), EventAbort))
	assert.Equal(t, StateReady, sm.GetState())
}
