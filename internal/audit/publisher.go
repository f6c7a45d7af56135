package audit

import (
	"context"
	"sync"
)

// Store is where published events land.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher emits audit events either synchronously or through a buffered
// channel drained by a single worker. Close drains the buffer before
// returning so no event is lost on shutdown.
type Publisher struct {
	store  Store
	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
		}
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.events != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.events {
		// The emitting request's context is gone by the time the worker runs.
		_ = p.store.Append(context.Background(), event)
	}
}

// Emit records an event. In async mode a full buffer drops the event rather
// than blocking the dispatch path.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p.events == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.events <- event:
	default:
	}
	return nil
}

// Close stops the worker after draining buffered events. Safe to call twice.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.events != nil {
			close(p.events)
			p.wg.Wait()
		}
	})
}
