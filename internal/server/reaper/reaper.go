// Package reaper periodically purges expired bearer tokens.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TokenDeleter is the part of the storage the reaper needs
type TokenDeleter interface {
	DeleteStaleAuthTokens(ctx context.Context) (int, error)
}

// Ticker абстрагирует time.Ticker для детерминированных тестов
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Reaper удаляет истекшие токены раз в interval
type Reaper struct {
	store      TokenDeleter
	logger     *slog.Logger
	newTicker  func(time.Duration) Ticker
	interval   time.Duration
	runOnStart bool
}

// Option настраивает Reaper
type Option func(*Reaper)

// WithTicker подменяет фабрику тикеров
func WithTicker(f func(time.Duration) Ticker) Option {
	return func(r *Reaper) {
		r.newTicker = f
	}
}

// WithRunOnStart makes Run sweep once before waiting for the first tick
func WithRunOnStart(v bool) Option {
	return func(r *Reaper) {
		r.runOnStart = v
	}
}

// New creates a reaper. interval must be positive
func New(store TokenDeleter, interval time.Duration, logger *slog.Logger, opts ...Option) (*Reaper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("reaper interval must be positive, got %s", interval)
	}

	r := &Reaper{
		store:     store,
		logger:    logger,
		newTicker: newRealTicker,
		interval:  interval,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run blocks until ctx is cancelled, sweeping on every tick.
// Ошибки очистки логируются, следующая попытка будет на следующем тике.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := r.newTicker(r.interval)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "Token reaper started", slog.Duration("interval", r.interval))

	if r.runOnStart {
		_, _ = r.RunOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Token reaper stopped")
			return ctx.Err()
		case <-ticker.C():
			_, _ = r.RunOnce(ctx)
		}
	}
}

// Start запускает Run в отдельной горутине на дочернем контексте.
// Возвращаемая stop отменяет его и ждет выхода Run, после нее reaper
// больше не обращается к хранилищу. stop можно вызывать повторно.
func (r *Reaper) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("Token reaper stopped with error", slog.Any("error", err))
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// RunOnce performs a single sweep and returns the number of deleted tokens
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	deleted, err := r.store.DeleteStaleAuthTokens(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		r.logger.ErrorContext(ctx, "Failed to delete stale auth tokens", slog.Any("error", err))
		return 0, fmt.Errorf("failed to delete stale auth tokens: %w", err)
	}

	if deleted > 0 {
		r.logger.InfoContext(ctx, "Deleted stale auth tokens", slog.Int("count", deleted))
	}

	return deleted, nil
}
