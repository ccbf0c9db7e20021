// Package session — флаг "вход выполнен" для дашборда.
//
// Флаг — явное значение Session, которое ищется по id (значение cookie)
// в памяти процесса или в Redis под ключом "tdtpgrid:session:{id}" с TTL.
// Учетные данные не проверяются и не хранятся.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ruslano69/tdtp-datagrid/pkg/resilience"
)

// ErrNotFound — сессии нет или она истекла
var ErrNotFound = errors.New("session not found or expired")

// Session — состояние входа одного браузера
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	LoggedIn  bool      `json:"logged_in"`
	CreatedAt time.Time `json:"created_at"`
}

// Store — хранилище сессий
type Store interface {
	Create(ctx context.Context, email string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Бэкенды хранилища
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultTTL используется, если Config.TTL равен нулю
const DefaultTTL = 12 * time.Hour

// RedisConfig — параметры подключения бэкенда redis
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config выбирает и настраивает бэкенд
type Config struct {
	Backend string        `yaml:"backend"` // memory | redis
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`

	// Breaker защищает бэкенд redis; для memory не используется
	Breaker resilience.Config `yaml:"breaker"`
}

// New создает Store по cfg.Backend (memory, если пусто)
func New(cfg Config) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(ttl), nil
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("session: redis backend requires redis.addr")
		}
		store := NewRedisStoreFromConfig(cfg.Redis, ttl)
		if !cfg.Breaker.Enabled {
			return store, nil
		}
		guarded, err := NewGuardedStore(store, cfg.Breaker)
		if err != nil {
			store.Close()
			return nil, err
		}
		return guarded, nil
	default:
		return nil, fmt.Errorf("session: unknown backend %q", cfg.Backend)
	}
}

// newSession создает сессию со случайным 128-битным id
func newSession(email string, now time.Time) (*Session, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("session: generate id: %w", err)
	}
	return &Session{
		ID:        hex.EncodeToString(buf),
		Email:     email,
		LoggedIn:  true,
		CreatedAt: now.UTC(),
	}, nil
}

type ctxKey struct{}

// WithSession возвращает копию ctx с сессией s
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext возвращает сессию, сохраненную WithSession
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
