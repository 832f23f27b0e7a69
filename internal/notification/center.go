package notification

import (
	"log"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// Dispatcher forwards notifications to another channel, such as web push.
type Dispatcher interface {
	Dispatch(n Notification)
}

// Center keeps recent notifications until they expire.
type Center struct {
	store *cache.Cache
	ttl   time.Duration
	push  Dispatcher
	now   func() time.Time
	seq   atomic.Uint64
}

// NewCenter creates a Center whose notifications expire after ttl.
// push may be nil.
func NewCenter(ttl time.Duration, push Dispatcher) *Center {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Center{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		push:  push,
		now:   time.Now,
	}
}

// Notify records n and forwards it to the push dispatcher.
func (c *Center) Notify(n Notification) {
	n.seq = c.seq.Add(1)
	if n.ID == "" {
		n.ID = strconv.FormatUint(n.seq, 10)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}

	c.store.Set(n.ID, n, c.ttl)
	log.Printf("notification [%s] %s: %s", n.Level, n.Title, n.Description)

	if c.push != nil {
		c.push.Dispatch(n)
	}
}

// Active returns unexpired notifications, oldest first.
func (c *Center) Active() []Notification {
	items := c.store.Items()
	out := make([]Notification, 0, len(items))
	for _, item := range items {
		if n, ok := item.Object.(Notification); ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Latest returns the most recent unexpired notification.
func (c *Center) Latest() (Notification, bool) {
	active := c.Active()
	if len(active) == 0 {
		return Notification{}, false
	}
	return active[len(active)-1], true
}

// Dismiss removes a notification before it expires.
func (c *Center) Dismiss(id string) {
	c.store.Delete(id)
}

// Clear removes every notification.
func (c *Center) Clear() {
	c.store.Flush()
}
