package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunInvokesTickUntilCancelled(t *testing.T) {
	s := New(Options{Interval: 10 * time.Millisecond, RunOnStart: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	err := s.Run(ctx, func(ctx context.Context, at time.Time) error {
		if calls.Add(1) == 3 {
			cancel()
		}
		return errors.New("failures do not stop the loop")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRunStopsDuringStartupDelay(t *testing.T) {
	s := New(Options{Interval: time.Hour, StartupDelay: time.Hour, RunOnStart: true}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, func(context.Context, time.Time) error {
		t.Error("tick must not fire before the startup delay")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNextTickAlignment(t *testing.T) {
	now := time.Date(2025, time.January, 25, 10, 17, 0, 0, time.UTC)

	aligned := New(Options{Interval: time.Hour, Align: true}, zerolog.Nop())
	assert.Equal(t, time.Date(2025, time.January, 25, 11, 0, 0, 0, time.UTC), aligned.nextTick(now))
	assert.Equal(t, time.Date(2025, time.January, 25, 10, 0, 0, 0, time.UTC), aligned.tickStart(now))

	free := New(Options{Interval: time.Hour}, zerolog.Nop())
	assert.Equal(t, now.Add(time.Hour), free.nextTick(now))
	assert.Equal(t, now, free.tickStart(now))
}

func TestNewRejectsZeroInterval(t *testing.T) {
	assert.Panics(t, func() { New(Options{}, zerolog.Nop()) })
}

func TestRunAlignedTicksLandOnInterval(t *testing.T) {
	interval := 20 * time.Millisecond
	s := New(Options{Interval: interval, Align: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var got []time.Time
	err := s.Run(ctx, func(ctx context.Context, at time.Time) error {
		got = append(got, at)
		if len(got) == 2 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	if assert.Len(t, got, 2) {
		for _, at := range got {
			assert.True(t, at.Equal(at.Truncate(interval)), "tick %s not aligned", at)
		}
		gap := got[1].Sub(got[0])
		assert.True(t, gap > 0 && gap%interval == 0, "gap %s", gap)
	}
}
