package timer

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

/*
 * Per-room countdown drivers. Each room gets at most one running timer;
 * starting a new one replaces (and cancels) the previous. The expiry
 * callback fires exactly once, and never after Cancel has returned the
 * timer unusable: a host's manual force-end cancels the pending timeout
 * before resolving the round, so the round can never be advanced twice.
 */

type RoundTimer struct {
	roomID   string
	deadline time.Time
	onTick   func(remainingSeconds int)
	onExpire func()

	fired int32 // set once, by expiry or by Cancel
	stop  chan struct{}
	once  sync.Once
}

type Manager struct {
	mu     sync.Mutex
	timers map[string]*RoundTimer
}

func NewManager() *Manager {
	return &Manager{timers: make(map[string]*RoundTimer)}
}

// Start begins a countdown for the room, emitting a tick with the
// remaining whole seconds every second and invoking onExpire when the
// deadline passes. Any previous timer for the room is cancelled first.
func (m *Manager) Start(roomID string, duration time.Duration, onTick func(int), onExpire func()) time.Time {
	m.Cancel(roomID)

	t := &RoundTimer{
		roomID:   roomID,
		deadline: time.Now().Add(duration),
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}

	m.mu.Lock()
	m.timers[roomID] = t
	m.mu.Unlock()

	go t.run(m)

	log.Printf("[TIMER] Started %s countdown for room %s", duration, roomID)
	return t.deadline
}

// Cancel stops the room's pending timer, if any, guaranteeing its expiry
// callback will not fire afterwards.
func (m *Manager) Cancel(roomID string) {
	m.mu.Lock()
	t := m.timers[roomID]
	delete(m.timers, roomID)
	m.mu.Unlock()

	if t == nil {
		return
	}
	atomic.StoreInt32(&t.fired, 1)
	t.once.Do(func() { close(t.stop) })
	log.Printf("[TIMER] Cancelled countdown for room %s", roomID)
}

// Deadline returns the pending deadline for a room, or the zero time when
// no timer is running.
func (m *Manager) Deadline(roomID string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.timers[roomID]; t != nil {
		return t.deadline
	}
	return time.Time{}
}

func (t *RoundTimer) run(m *Manager) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			remaining := int(time.Until(t.deadline).Round(time.Second).Seconds())
			if remaining > 0 {
				if t.onTick != nil {
					t.onTick(remaining)
				}
				continue
			}

			// Deadline reached: deregister, then fire at most once.
			m.mu.Lock()
			if m.timers[t.roomID] == t {
				delete(m.timers, t.roomID)
			}
			m.mu.Unlock()

			if atomic.CompareAndSwapInt32(&t.fired, 0, 1) {
				t.onExpire()
			}
			return
		}
	}
}
