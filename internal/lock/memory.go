package lock

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLocker: блокировки внутри одного процесса.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

func (l *MemoryLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
	keys = normalizeKeys(keys)
	held := make([]string, 0, len(keys))

	for _, k := range keys {
		s := l.acquireSlot(k)
		select {
		case s.ch <- struct{}{}:
			held = append(held, k)
		case <-ctx.Done():
			l.releaseSlot(k, false)
			l.unlock(held)
			return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, k, ctx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlock(held) })
	}, nil
}

func (l *MemoryLocker) unlock(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.releaseSlot(keys[i], true)
	}
}

func (l *MemoryLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *MemoryLocker) releaseSlot(key string, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.slots[key]
	if held {
		<-s.ch
	}
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
