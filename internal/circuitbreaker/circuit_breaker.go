// Package circuitbreaker stops calling a failing dependency for a cooldown period.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/fraud-desk/internal/logging"
)

// State represents the circuit breaker state
type State string

const (
	// StateClosed means the circuit is closed and calls are allowed
	StateClosed State = "closed"
	// StateOpen means the circuit is open and calls are rejected
	StateOpen State = "open"
	// StateHalfOpen means a single probe call is allowed to test recovery
	StateHalfOpen State = "half_open"
)

// ErrCircuitOpen is returned instead of calling the dependency while the circuit is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config configures a circuit breaker
type Config struct {
	Name        string
	MaxFailures int           // Consecutive failures before opening
	Cooldown    time.Duration // Time to wait before allowing a probe
}

// Breaker counts consecutive failures of one dependency. It is safe for concurrent use.
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu               sync.Mutex
	state            State
	generation       uint64 // bumped on every state change
	consecutiveFails int
	openedAt         time.Time
	probing          bool
}

// Ticket identifies one admitted call. Outcomes are matched to the state
// the call was admitted under.
type Ticket struct {
	generation uint64
	probe      bool
}

// NewBreaker creates a closed breaker
func NewBreaker(cfg Config) *Breaker {
	return &Breaker{
		name:        cfg.Name,
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
		now:         time.Now,
		state:       StateClosed,
	}
}

// Allow reports whether a call may proceed. Every admitted call must be
// followed by exactly one Record or Release with the returned ticket.
func (b *Breaker) Allow() (Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return Ticket{}, ErrCircuitOpen
		}
		b.setState(StateHalfOpen)
		return b.admitProbe(), nil

	case StateHalfOpen:
		// Only one probe at a time
		if b.probing {
			return Ticket{}, ErrCircuitOpen
		}
		return b.admitProbe(), nil

	default:
		return Ticket{generation: b.generation}, nil
	}
}

func (b *Breaker) admitProbe() Ticket {
	b.probing = true
	return Ticket{generation: b.generation, probe: true}
}

// Record stores the outcome of an admitted call. Outcomes of calls admitted
// before the last state change are ignored.
func (b *Breaker) Record(t Ticket, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.generation != b.generation {
		return
	}
	if t.probe {
		b.probing = false
	}

	if err == nil {
		b.consecutiveFails = 0
		if b.state != StateClosed {
			b.setState(StateClosed)
		}
		return
	}

	b.consecutiveFails++
	switch {
	case b.state == StateHalfOpen:
		b.open()
	case b.state == StateClosed && b.consecutiveFails >= b.maxFailures:
		b.open()
	}
}

// Release ends an admitted call without counting its outcome
func (b *Breaker) Release(t Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.probe && t.generation == b.generation {
		b.probing = false
	}
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.setState(StateOpen)
}

// setState must be called with the lock held
func (b *Breaker) setState(state State) {
	logger := logging.WithFields(map[string]interface{}{
		"circuitBreaker":   b.name,
		"from":             string(b.state),
		"to":               string(state),
		"consecutiveFails": b.consecutiveFails,
	})
	if state == StateOpen {
		logger.Warn("circuit breaker opened")
	} else {
		logger.Info("circuit breaker state changed")
	}
	b.state = state
	b.generation++
}
