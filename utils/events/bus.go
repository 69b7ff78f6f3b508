package events

import (
	"context"
	"log/slog"
	"sync"

	"ticket-bot/model"
	"ticket-bot/utils/logger"
)

// Handler reacts to an event. Handlers run synchronously on the publishing
// goroutine; slow work should be moved to a goroutine by the handler.
type Handler func(ctx context.Context, ev model.Event)

// Bus fans events out to in-process subscribers and, optionally, to a
// mirror such as a Redis stream.
type Bus struct {
	mu     sync.RWMutex
	byKind map[model.EventKind][]Handler
	all    []Handler
	mirror Mirror
	log    *slog.Logger
}

// Mirror forwards events outside the process.
type Mirror interface {
	Mirror(ctx context.Context, ev model.Event) error
}

func NewBus() *Bus {
	return &Bus{
		byKind: make(map[model.EventKind][]Handler),
		log:    logger.For("events"),
	}
}

// SetMirror installs m. A nil m disables mirroring.
func (b *Bus) SetMirror(m Mirror) {
	b.mu.Lock()
	b.mirror = m
	b.mu.Unlock()
}

func (b *Bus) Subscribe(kind model.EventKind, h Handler) {
	b.mu.Lock()
	b.byKind[kind] = append(b.byKind[kind], h)
	b.mu.Unlock()
}

func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	b.all = append(b.all, h)
	b.mu.Unlock()
}

// Publish delivers ev to its subscribers in registration order. A panicking
// handler is logged and does not stop the others.
func (b *Bus) Publish(ctx context.Context, ev model.Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.byKind[ev.Kind])+len(b.all))
	handlers = append(handlers, b.byKind[ev.Kind]...)
	handlers = append(handlers, b.all...)
	mirror := b.mirror
	b.mu.RUnlock()

	for _, h := range handlers {
		b.call(ctx, h, ev)
	}

	if mirror != nil {
		if err := mirror.Mirror(ctx, ev); err != nil {
			b.log.Warn("failed to mirror event", "kind", ev.Kind, "error", err)
		}
	}
}

func (b *Bus) call(ctx context.Context, h Handler, ev model.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked", "kind", ev.Kind, "panic", r)
		}
	}()
	h(ctx, ev)
}
