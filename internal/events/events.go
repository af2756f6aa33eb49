package events

import (
	"context"
	"strconv"
	"sync"
	"time"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
	UserLoggedIn   = "user_logged_in"
	UserLoggedOut  = "user_logged_out"
)

type Event struct {
	Type      string    `json:"type"`
	ProductID uint      `json:"product_id,omitempty"`
	UserID    uint      `json:"user_id,omitempty"`
	At        time.Time `json:"at"`
}

// Key partitions product events by product and session events by user.
func (e Event) Key() string {
	if e.ProductID != 0 {
		return "product:" + strconv.FormatUint(uint64(e.ProductID), 10)
	}
	return "user:" + strconv.FormatUint(uint64(e.UserID), 10)
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	evs := r.Events()
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}
