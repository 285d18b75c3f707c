package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/lock"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemplateInactive = errors.New("package template is not active")
	ErrNoSessionsLeft   = errors.New("no sessions left in package")
)

// lockTimeout сколько ждём блокировку ресурса
const lockTimeout = 5 * time.Second

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func acquire(ctx context.Context, locker lock.Locker, key string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	release, err := locker.Acquire(lockCtx, key)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return release, nil
}
