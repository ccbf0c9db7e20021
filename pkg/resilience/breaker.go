// Package resilience — circuit breaker для вызовов внешних хранилищ.
//
// После MaxFailures последовательных ошибок breaker открывается и сразу
// отклоняет вызовы с ErrOpen; через Timeout пропускает пробные вызовы
// (half-open) и закрывается после SuccessThreshold успешных подряд.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrOpen — breaker открыт, вызов не выполнялся
	ErrOpen = errors.New("circuit breaker is open")

	// ErrTooManyCalls — в Half-Open уже выполняется HalfOpenMaxCalls пробных вызовов
	ErrTooManyCalls = errors.New("too many concurrent calls")
)

// State — состояние breaker
type State int

const (
	StateClosed   State = iota // вызовы проходят
	StateHalfOpen              // пробные вызовы
	StateOpen                  // вызовы отклоняются
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Config — настройки breaker
type Config struct {
	Enabled          bool          `yaml:"enabled"`
	MaxFailures      uint32        `yaml:"max_failures"`        // ошибок подряд до открытия
	Timeout          time.Duration `yaml:"timeout"`             // время в Open до Half-Open
	SuccessThreshold uint32        `yaml:"success_threshold"`   // успехов в Half-Open до закрытия
	HalfOpenMaxCalls uint32        `yaml:"half_open_max_calls"` // одновременных пробных вызовов; 0 — SuccessThreshold

	// OnStateChange вызывается после смены состояния (вне блокировки)
	OnStateChange func(from, to State) `yaml:"-"`

	// Ignore отмечает ошибки, которые не считаются отказом
	// (например, "не найдено" от исправного хранилища)
	Ignore func(err error) bool `yaml:"-"`
}

// DefaultConfig — 5 ошибок подряд, 30s в Open, 1 пробный вызов и 1 успех для закрытия
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 1,
		HalfOpenMaxCalls: 1,
	}
}

// Validate проверяет конфигурацию включенного breaker
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MaxFailures == 0 {
		return fmt.Errorf("max_failures must be greater than 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	if c.SuccessThreshold == 0 {
		c.SuccessThreshold = 1
	}
	if c.HalfOpenMaxCalls == 0 {
		c.HalfOpenMaxCalls = c.SuccessThreshold
	}
	return nil
}

// Breaker — circuit breaker. Безопасен для конкурентного использования.
type Breaker struct {
	mu          sync.Mutex
	cfg         Config
	state       State
	generation  uint64 // меняется при каждой смене состояния
	failures    uint32 // подряд
	successes   uint32 // подряд, в Half-Open
	trials      uint32 // выполняющиеся пробные вызовы в Half-Open
	openedUntil time.Time
	now         func() time.Time
}

// New создает breaker
func New(cfg Config) (*Breaker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid circuit breaker config: %w", err)
	}
	return &Breaker{cfg: cfg, now: time.Now}, nil
}

// Execute выполняет fn, если breaker не открыт.
// Отмена ctx вызывающим не считается отказом.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.cfg.Enabled {
		return fn(ctx)
	}

	gen, err := b.before()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.after(gen, false)
			panic(r)
		}
	}()

	err = fn(ctx)
	b.after(gen, b.succeeded(ctx, err))
	return err
}

func (b *Breaker) succeeded(ctx context.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return true
	case b.cfg.Ignore != nil && b.cfg.Ignore(err):
		return true
	}
	return false
}

// State возвращает текущее состояние
func (b *Breaker) State() State {
	b.mu.Lock()
	from, to := b.expire()
	state := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return state
}

// Reset закрывает breaker и сбрасывает счетчики
func (b *Breaker) Reset() {
	b.mu.Lock()
	from, to := b.transition(StateClosed)
	b.failures, b.successes = 0, 0
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *Breaker) before() (uint64, error) {
	b.mu.Lock()
	from, to := b.expire()
	gen := b.generation
	var err error
	switch {
	case b.state == StateOpen:
		err = ErrOpen
	case b.state == StateHalfOpen && b.trials >= b.cfg.HalfOpenMaxCalls:
		err = ErrTooManyCalls
	case b.state == StateHalfOpen:
		b.trials++
	}
	b.mu.Unlock()
	b.notify(from, to)

	return gen, err
}

func (b *Breaker) after(gen uint64, success bool) {
	b.mu.Lock()
	// результат вызова, начатого в прошлом состоянии, не учитывается
	if gen != b.generation {
		b.mu.Unlock()
		return
	}
	if b.state == StateHalfOpen {
		b.trials--
	}

	from, to := b.state, b.state
	if success {
		b.failures = 0
		if b.state == StateHalfOpen {
			b.successes++
			if b.successes >= b.cfg.SuccessThreshold {
				from, to = b.transition(StateClosed)
			}
		}
	} else {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.cfg.MaxFailures {
			from, to = b.transition(StateOpen)
		}
	}
	b.mu.Unlock()
	b.notify(from, to)
}

// expire переводит Open в Half-Open по истечении Timeout. Вызывается под mu.
func (b *Breaker) expire() (State, State) {
	if b.state == StateOpen && !b.now().Before(b.openedUntil) {
		return b.transition(StateHalfOpen)
	}
	return b.state, b.state
}

// transition меняет состояние. Вызывается под mu.
func (b *Breaker) transition(to State) (State, State) {
	from := b.state
	if from == to {
		return from, to
	}
	b.state = to
	b.generation++
	b.failures = 0
	b.successes = 0
	b.trials = 0
	if to == StateOpen {
		b.openedUntil = b.now().Add(b.cfg.Timeout)
	}
	return from, to
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
