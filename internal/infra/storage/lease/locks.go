package lease

import (
	"context"
	"sort"
	"sync"
	"time"
)

// cellKey ячейка сетки календаря провайдера на дату
type cellKey struct {
	providerID string
	date       string
	cell       int
}

type cellLock struct {
	sem  chan struct{}
	refs int
}

// cellLocks набор блокировок по ячейкам.
// Блокировка живет в карте, пока на нее есть ссылки.
type cellLocks struct {
	mu    sync.Mutex
	locks map[cellKey]*cellLock
}

func newCellLocks() *cellLocks {
	return &cellLocks{locks: make(map[cellKey]*cellLock)}
}

func (c *cellLocks) ref(k cellKey) *cellLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[k]
	if !ok {
		l = &cellLock{sem: make(chan struct{}, 1)}
		c.locks[k] = l
	}
	l.refs++
	return l
}

func (c *cellLocks) unref(k cellKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[k]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(c.locks, k)
	}
}

// size количество живых блокировок (для тестов)
func (c *cellLocks) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.locks)
}

// lock захватывает ячейки по возрастанию, ожидая не дольше wait.
// Возвращает функцию освобождения.
func (c *cellLocks) lock(ctx context.Context, keys []cellKey, wait time.Duration) (func(), error) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].cell < keys[j].cell })

	timer := time.NewTimer(wait)
	defer timer.Stop()

	held := make([]*cellLock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].sem
			c.unref(keys[i])
		}
	}

	for _, k := range keys {
		l := c.ref(k)
		select {
		case l.sem <- struct{}{}:
			held = append(held, l)
		case <-timer.C:
			c.unref(k)
			release()
			return nil, ErrLockContentionTimeout
		case <-ctx.Done():
			c.unref(k)
			release()
			return nil, ctx.Err()
		}
	}

	return release, nil
}
