package game

import (
	"sort"
	"sync"
	"time"
)

// virtualClock fires callbacks synchronously from Advance, in due order.
type virtualClock struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers []*virtualTimer
}

type virtualTimer struct {
	c    *virtualClock
	id   int
	when time.Duration
	f    func()
}

func (c *virtualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &virtualTimer{c: c, id: c.nextID, when: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *virtualTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	for i, other := range t.c.timers {
		if other == t {
			t.c.timers = append(t.c.timers[:i], t.c.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves time forward by d, firing every timer that comes due,
// including timers armed by callbacks along the way.
func (c *virtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].when == c.timers[j].when {
				return c.timers[i].id < c.timers[j].id
			}
			return c.timers[i].when < c.timers[j].when
		})
		if len(c.timers) == 0 || c.timers[0].when > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		t := c.timers[0]
		c.timers = c.timers[1:]
		c.now = t.when
		c.mu.Unlock()

		t.f()
	}
}

// Pending returns how many timers are armed.
func (c *virtualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *virtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
