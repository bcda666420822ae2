package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pynezz/cybermap/internal/feed"
)

func runDashboard(t *testing.T, d *Dashboard) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Error("dashboard loop did not stop")
		}
	})
	return ctx
}

func TestLiveFeedThreeTicks(t *testing.T) {
	clock := feed.NewManualClock(start)
	d := newTestDashboard(t, clock, Options{})
	ctx := runDashboard(t, d)

	loaded, err := d.Submit(ctx, NewReload())
	require.NoError(t, err)
	before := loaded.Frame.StoreSize

	out, err := d.Submit(ctx, NewToggleFeed())
	require.NoError(t, err)
	assert.Equal(t, feed.Running, out.Frame.FeedState)
	assert.Equal(t, StatusFeedStarted, out.Frame.Status)

	active := clock.Active()
	require.Len(t, active, 1)
	ticker := active[0]
	assert.Equal(t, feed.DefaultInterval, ticker.Period())

	for i := 0; i < 3; i++ {
		require.True(t, ticker.Fire(time.Second), "tick %d", i)
	}

	out, err = d.Submit(ctx, NewToggleFeed())
	require.NoError(t, err)
	assert.Equal(t, feed.Idle, out.Frame.FeedState)
	assert.Equal(t, StatusFeedStopped, out.Frame.Status)
	assert.Equal(t, before+3, out.Frame.StoreSize)
	for i := 0; i < 3; i++ {
		assert.Equal(t, fmt.Sprintf("id-%d", before+3-i), out.Frame.Feed[i].ID)
	}

	assert.True(t, ticker.Stopped())
	assert.Empty(t, clock.Active())
	assert.False(t, ticker.Fire(20*time.Millisecond))
	assert.Equal(t, before+3, d.Snapshot().StoreSize)
}

func TestSubmitRejectsTick(t *testing.T) {
	d := newTestDashboard(t, feed.NewManualClock(start), Options{})
	_, err := d.Submit(context.Background(), Command{Kind: Tick})
	assert.True(t, errors.Is(err, ErrInvalidCommand))
}

func TestSubmitAfterStop(t *testing.T) {
	clock := feed.NewManualClock(start)
	d := newTestDashboard(t, clock, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	_, err := d.Submit(ctx, NewToggleFeed())
	require.NoError(t, err)
	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, clock.Active(), "the feed stops with the loop")
	_, err = d.Submit(context.Background(), NewReload())
	assert.True(t, errors.Is(err, ErrStopped))
	assert.Error(t, d.Run(context.Background()))
}

func TestSubmitHonoursContext(t *testing.T) {
	d := newTestDashboard(t, feed.NewManualClock(start), Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.Submit(ctx, NewReload())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
