package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture(t *testing.T) {
	t.Run("Go_ResolvesValue", func(t *testing.T) {
		f := Go(context.Background(), func(context.Context) (int, error) { return 42, nil })
		v, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("Go_RecoversPanic", func(t *testing.T) {
		f := Go(context.Background(), func(context.Context) (int, error) { panic("boom") })
		_, err := f.Await(context.Background())
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("Resolved", func(t *testing.T) {
		v, err := Resolved("x").Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "x", v)
	})

	t.Run("Failed", func(t *testing.T) {
		want := errors.New("nope")
		_, err := Failed[string](want).Await(context.Background())
		assert.ErrorIs(t, err, want)
	})

	t.Run("Await_ContextDone", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		f := Go(context.Background(), func(context.Context) (int, error) {
			<-block
			return 1, nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Await(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEnterResult(t *testing.T) {
	assert.True(t, NoOp().IsNoOp())
	assert.True(t, EnterResult{}.IsNoOp(), "zero value should be a no-op")

	q, ok := SetQuery("se ").Query()
	assert.True(t, ok)
	assert.Equal(t, "se ", q)

	_, ok = NoOp().Query()
	assert.False(t, ok)

	f, ok := Deferred(Resolved("x")).Future()
	require.True(t, ok)
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	assert.True(t, Deferred(nil).IsNoOp())
}

func TestTracker(t *testing.T) {
	tracker := NewTracker()
	first := tracker.Set("a")
	assert.True(t, tracker.Current(first))
	assert.Equal(t, first, tracker.Latest())

	second := tracker.Set("a")
	assert.False(t, tracker.Current(first), "a repeated query still advances the ticket")
	assert.True(t, tracker.Current(second))
	assert.Equal(t, "a", tracker.Query())
}
