package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartSetsDeadline(t *testing.T) {
	m := NewManager()
	defer m.Cancel("room")

	before := time.Now()
	m.Start("room", 30*time.Second, nil, func() {})
	deadline := m.Deadline("room")

	assert.False(t, deadline.IsZero())
	assert.WithinDuration(t, before.Add(30*time.Second), deadline, time.Second)
}

func TestCancelPreventsExpiry(t *testing.T) {
	m := NewManager()

	var fired int32
	m.Start("room", 50*time.Millisecond, nil, func() {
		atomic.AddInt32(&fired, 1)
	})
	m.Cancel("room")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.True(t, m.Deadline("room").IsZero())
}

func TestExpiryFiresExactlyOnce(t *testing.T) {
	m := NewManager()

	var fired int32
	done := make(chan struct{})
	m.Start("room", 30*time.Millisecond, nil, func() {
		atomic.AddInt32(&fired, 1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}

	// A late cancel must not fire anything, nor panic
	m.Cancel("room")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestRestartReplacesCountdown(t *testing.T) {
	m := NewManager()

	var firstFired int32
	m.Start("room", 40*time.Millisecond, nil, func() {
		atomic.AddInt32(&firstFired, 1)
	})

	done := make(chan struct{})
	m.Start("room", 60*time.Millisecond, nil, func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement countdown never expired")
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&firstFired))
}
