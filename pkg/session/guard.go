package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/ruslano69/tdtp-datagrid/pkg/resilience"
)

// GuardedStore сразу отвечает resilience.ErrOpen, пока обернутое хранилище
// продолжает отказывать. ErrNotFound — нормальный ответ, не отказ.
type GuardedStore struct {
	store   Store
	breaker *resilience.Breaker
}

// NewGuardedStore оборачивает store в circuit breaker с настройками cfg
func NewGuardedStore(store Store, cfg resilience.Config) (*GuardedStore, error) {
	cfg.Ignore = func(err error) bool { return errors.Is(err, ErrNotFound) }
	b, err := resilience.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &GuardedStore{store: store, breaker: b}, nil
}

func (g *GuardedStore) Create(ctx context.Context, email string) (*Session, error) {
	var s *Session
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		s, err = g.store.Create(ctx, email)
		return err
	})
	return s, err
}

func (g *GuardedStore) Get(ctx context.Context, id string) (*Session, error) {
	var s *Session
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		s, err = g.store.Get(ctx, id)
		return err
	})
	return s, err
}

func (g *GuardedStore) Delete(ctx context.Context, id string) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.store.Delete(ctx, id)
	})
}

// Ping идет через breaker: открытый breaker означает "не готов"
func (g *GuardedStore) Ping(ctx context.Context) error {
	return g.breaker.Execute(ctx, g.store.Ping)
}

func (g *GuardedStore) Close() error {
	return g.store.Close()
}

// State возвращает состояние breaker
func (g *GuardedStore) State() resilience.State {
	return g.breaker.State()
}
