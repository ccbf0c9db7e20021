package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ruslano69/tdtp-datagrid/pkg/resilience"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(rdb, ttl), mr
}

// exerciseStore проверяет общий контракт для любого бэкенда
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Create(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(s.ID) != 32 || !s.LoggedIn || s.Email != "user@example.com" {
		t.Errorf("Create() = %+v", s)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != s.ID || got.Email != s.Email || !got.LoggedIn {
		t.Errorf("Get() = %+v, want %+v", got, s)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Minute))
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Minute)
	exerciseStore(t, store)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s, err := store.Create(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, err := store.Get(context.Background(), s.ID); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	now = now.Add(time.Second)
	if _, err := store.Get(context.Background(), s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_SweepsExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		if _, err := store.Create(ctx, "a@b.c"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if len(store.entries) != 1000 {
		t.Fatalf("entries = %d, want 1000", len(store.entries))
	}

	// живые сессии не трогаются
	now = now.Add(30 * time.Second)
	live, err := store.Create(ctx, "live@b.c")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now = now.Add(45 * time.Second)
	if _, err := store.Create(ctx, "next@b.c"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(store.entries) != 2 {
		t.Errorf("entries after sweep = %d, want 2", len(store.entries))
	}
	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("Get(live) error = %v", err)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)

	s, err := store.Create(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ttl := mr.TTL(keyPrefix + s.ID); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(context.Background(), s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after TTL error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	mr.Set(keyPrefix+"bad", "{not json")

	_, err := store.Get(context.Background(), "bad")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get(corrupt) error = %v, want decode error", err)
	}
}

func TestRedisStore_PingDown(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	mr.Close()

	if err := store.Ping(context.Background()); err == nil {
		t.Error("Ping() on closed server must fail")
	}
}

func TestNew(t *testing.T) {
	if s, err := New(Config{}); err != nil {
		t.Errorf("New(default) error = %v", err)
	} else if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("New(default) = %T, want *MemoryStore", s)
	}

	mr := miniredis.RunT(t)
	s, err := New(Config{Backend: BackendRedis, Redis: RedisConfig{Addr: mr.Addr()}})
	if err != nil {
		t.Fatalf("New(redis) error = %v", err)
	}
	defer s.Close()
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if _, err := New(Config{Backend: BackendRedis}); err == nil {
		t.Error("New(redis) without addr must fail")
	}
	if _, err := New(Config{Backend: "etcd"}); err == nil {
		t.Error("New(unknown) must fail")
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context must not carry a session")
	}

	s := &Session{ID: "abc", LoggedIn: true}
	got, ok := FromContext(WithSession(context.Background(), s))
	if !ok || got.ID != "abc" {
		t.Errorf("FromContext() = %+v, %v", got, ok)
	}
}

func TestNew_RedisGuarded(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := New(Config{
		Backend: BackendRedis,
		Redis:   RedisConfig{Addr: mr.Addr()},
		Breaker: resilience.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("New(redis+breaker) error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*GuardedStore); !ok {
		t.Fatalf("New(redis+breaker) = %T, want *GuardedStore", s)
	}
	exerciseStore(t, s)

	bad := resilience.Config{Enabled: true}
	if _, err := New(Config{Backend: BackendRedis, Redis: RedisConfig{Addr: mr.Addr()}, Breaker: bad}); err == nil {
		t.Error("invalid breaker config must fail")
	}
}

func TestGuardedStore_FailsFast(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	cfg := resilience.DefaultConfig()
	cfg.MaxFailures = 2
	cfg.Timeout = time.Hour

	g, err := NewGuardedStore(store, cfg)
	if err != nil {
		t.Fatalf("NewGuardedStore() error = %v", err)
	}
	ctx := context.Background()

	// отсутствие сессии — ответ исправного хранилища
	for i := 0; i < 3; i++ {
		if _, err := g.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(missing) error = %v", err)
		}
	}
	if g.State() != resilience.StateClosed {
		t.Fatalf("ErrNotFound must not trip the breaker, state %v", g.State())
	}

	mr.Close()
	g.Ping(ctx)
	g.Ping(ctx)
	if g.State() != resilience.StateOpen {
		t.Fatalf("expected open breaker after backend failures, got %v", g.State())
	}
	if _, err := g.Get(ctx, "any"); !errors.Is(err, resilience.ErrOpen) {
		t.Errorf("Get() with open breaker error = %v, want ErrOpen", err)
	}
}
