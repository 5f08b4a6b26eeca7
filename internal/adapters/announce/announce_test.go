package announce

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gymdesk/internal/domain/kiosk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(size int) *Feed {
	f := NewFeed(size)
	f.now = func() time.Time { return time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC) }
	return f
}

func TestFeed_AnnounceAndSince(t *testing.T) {
	f := newTestFeed(3)
	ctx := context.Background()

	_, ok := f.Latest()
	assert.False(t, ok, "empty feed has no latest")

	for i := 1; i <= 5; i++ {
		require.NoError(t, f.Announce(ctx, fmt.Sprintf("msg %d", i)))
	}

	all := f.Since(0)
	require.Len(t, all, 3, "feed keeps only the newest size entries")
	assert.Equal(t, "msg 3", all[0].Text)
	assert.Equal(t, uint64(5), all[2].Seq)

	newer := f.Since(4)
	require.Len(t, newer, 1)
	assert.Equal(t, "msg 5", newer[0].Text)

	latest, ok := f.Latest()
	require.True(t, ok)
	assert.Equal(t, "msg 5", latest.Text)
	assert.False(t, latest.At.IsZero())
}

func TestFeed_RejectsBlank(t *testing.T) {
	f := newTestFeed(2)
	err := f.Announce(context.Background(), "   ")
	assert.ErrorIs(t, err, kiosk.ErrEmptyText)
	assert.Empty(t, f.Since(0))
}

func TestFeed_DefaultSize(t *testing.T) {
	f := NewFeed(0)
	assert.Equal(t, DefaultFeedSize, f.size)
}

func TestFeed_Concurrent(t *testing.T) {
	f := newTestFeed(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = f.Announce(context.Background(), fmt.Sprintf("msg %d", i))
			_ = f.Since(0)
		}(i)
	}
	wg.Wait()
	assert.Len(t, f.Since(0), 50)
	latest, _ := f.Latest()
	assert.Equal(t, uint64(50), latest.Seq)
}

type failing struct{ err error }

func (f failing) Announce(context.Context, string) error { return f.err }

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("speaker offline")
	feed := newTestFeed(5)
	m := Multi{failing{err: boom}, Log{}, feed}

	err := m.Announce(context.Background(), "Welcome, Ana")
	assert.ErrorIs(t, err, boom)

	latest, ok := feed.Latest()
	require.True(t, ok, "later announcers still run after a failure")
	assert.Equal(t, "Welcome, Ana", latest.Text)
}
