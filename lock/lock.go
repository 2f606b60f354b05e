// Package lock serializes the read-modify-write cycles on stock and coupon
// counters. The default Noop locker keeps the store's plain last-writer-wins
// behaviour; Local and Redis make concurrent checkouts of the same key queue up.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAcquired is returned when the context ends before the lock is obtained
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive access to a key. The returned unlock func is
// safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Noop never blocks
type Noop struct{}

func (Noop) Lock(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

// Local is an in-process per-key mutex. Entries are reference counted and
// removed once nobody holds or waits for them.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *Local) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Held reports how many keys currently have holders or waiters
func (l *Local) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
