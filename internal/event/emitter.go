// Package event provides a minimal observer used to publish change
// notifications between the registry service, the plugin host and views.
package event

import (
	"sync"
)

// Unsubscribe releases a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// Emitter fans a payload out to every registered listener. Listeners run
// synchronously on the firing goroutine, in registration order.
type Emitter[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]func(T)
	order     []uint64
}

func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{
		listeners: make(map[uint64]func(T)),
	}
}

// Subscribe registers fn and returns the handle that removes it.
func (e *Emitter[T]) Subscribe(fn func(T)) Unsubscribe {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.order = append(e.order, id)
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.listeners, id)
			for i, v := range e.order {
				if v == id {
					e.order = append(e.order[:i], e.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Fire calls every listener with payload. It fires even when nothing
// changed since the last call.
func (e *Emitter[T]) Fire(payload T) {
	e.mu.Lock()
	fns := make([]func(T), 0, len(e.order))
	for _, id := range e.order {
		fns = append(fns, e.listeners[id])
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}

// Len returns the number of active listeners.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Signal is an emitter without payload.
type Signal struct {
	emitter *Emitter[struct{}]
}

func NewSignal() *Signal {
	return &Signal{emitter: NewEmitter[struct{}]()}
}

func (s *Signal) Subscribe(fn func()) Unsubscribe {
	return s.emitter.Subscribe(func(struct{}) { fn() })
}

func (s *Signal) Fire() {
	s.emitter.Fire(struct{}{})
}

func (s *Signal) Len() int {
	return s.emitter.Len()
}

// Disposables collects unsubscribe handles released together.
type Disposables struct {
	mu    sync.Mutex
	items []Unsubscribe
}

func (d *Disposables) Push(u Unsubscribe) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, u)
}

// Dispose releases every handle in reverse order of registration.
func (d *Disposables) Dispose() {
	d.mu.Lock()
	items := d.items
	d.items = nil
	d.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		items[i]()
	}
}
