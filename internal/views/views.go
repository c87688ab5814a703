// Package views names the cached pages a mutation can make stale and
// publishes their keys to whoever renders them.
package views

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// View keys. They are the dashboard paths the rendering layer caches.
const (
	Dashboard     = "/dashboard"
	Invoices      = "/dashboard/invoices"
	InvoiceCreate = "/dashboard/invoices/create"
	Customers     = "/dashboard/customers"
	Products      = "/dashboard/products"
	Costs         = "/dashboard/costs"
)

// Publisher announces that the given views must be recomputed.
type Publisher interface {
	Publish(ctx context.Context, keys ...string) error
	Close() error
}

// Bus is an in-process publisher. Subscribers run synchronously on Publish.
type Bus struct {
	mu     sync.RWMutex
	next   int
	subs   map[int]func(key string)
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: map[int]func(string){}}
}

// Subscribe registers fn and returns a function removing it. fn must not
// call back into the bus.
func (b *Bus) Subscribe(fn func(key string)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Bus) Publish(_ context.Context, keys ...string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for _, k := range keys {
		for _, fn := range b.subs {
			fn(k)
		}
	}
	return nil
}

func (b *Bus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.subs = map[int]func(string){}
	b.mu.Unlock()
	return nil
}

var ErrClosed = errors.New("publisher closed")

// LogPublisher only logs the keys.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, keys ...string) error {
	p.log.Debug("views invalidated", zap.Strings("views", keys))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Multi fans a publish out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, keys ...string) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, keys...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
