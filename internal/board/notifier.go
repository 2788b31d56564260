package board

import (
	"slices"
	"time"

	"github.com/kallinyester/jato/internal/model"
)

type pending struct {
	note  model.Notification
	timer Timer
}

// notifier keeps the active notifications, newest first. It is not safe for
// concurrent use; the Controller guards it with its own mutex.
type notifier struct {
	items []pending
	ttl   time.Duration
	limit int
	sched Scheduler
}

// push adds note at the front and schedules expire after the TTL. Entries
// beyond the limit are dropped and their timers stopped.
func (n *notifier) push(note model.Notification, expire func()) {
	var t Timer
	if n.ttl > 0 {
		t = n.sched.AfterFunc(n.ttl, expire)
	}
	n.items = slices.Insert(n.items, 0, pending{note: note, timer: t})

	if n.limit > 0 && len(n.items) > n.limit {
		for _, p := range n.items[n.limit:] {
			if p.timer != nil {
				p.timer.Stop()
			}
		}
		n.items = n.items[:n.limit]
	}
}

// remove drops the notification with id. Unknown IDs are ignored.
func (n *notifier) remove(id string) bool {
	i := slices.IndexFunc(n.items, func(p pending) bool { return p.note.ID == id })
	if i < 0 {
		return false
	}
	if t := n.items[i].timer; t != nil {
		t.Stop()
	}
	n.items = slices.Delete(n.items, i, i+1)
	return true
}

func (n *notifier) active(cat model.Category) bool {
	return slices.ContainsFunc(n.items, func(p pending) bool { return p.note.Category == cat })
}

func (n *notifier) list() []model.Notification {
	out := make([]model.Notification, len(n.items))
	for i, p := range n.items {
		out[i] = p.note
	}
	return out
}

func (n *notifier) stopAll() {
	for _, p := range n.items {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	n.items = nil
}
