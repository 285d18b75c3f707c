// Package lock сериализует писателей одного ресурса (календарь, план рассрочки)
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrLockTimeout = errors.New("lock acquisition timed out")

// Ключи ресурсов
const CalendarKey = "calendar"

// PlanKey ключ блокировки плана рассрочки
func PlanKey(planID string) string {
	return "plan:" + planID
}

// Locker выдаёт эксклюзивную блокировку по ключу.
// Release нужно вызвать ровно один раз.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Local блокировки внутри одного процесса
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{slots: map[string]chan struct{}{}}
}

func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire %s: %w: %w", key, ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}
