package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_DefaultsWhenZero(t *testing.T) {
	clock := NewFixedClock(time.Time{})
	assert.Equal(t, DefaultTime, clock.Now())
}

func TestFixedClock_DoesNotMoveOnItsOwn(t *testing.T) {
	start := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)
	clock := NewFixedClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now())
}

func TestFixedClock_Advance(t *testing.T) {
	clock := NewFixedClock(DefaultTime)

	clock.Advance(48 * time.Hour)

	assert.Equal(t, "2026-10-21", clock.Now().Format(time.DateOnly))
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	clock := NewFixedClock(DefaultTime)
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, DefaultTime.Add(numGoroutines*time.Second), clock.Now())
}
