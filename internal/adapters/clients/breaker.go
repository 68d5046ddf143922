package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/user-sync-service/internal/platform/config"
)

// State is a circuit breaker position.
type State int

// Breaker positions. Closed passes every call, Open rejects every call until
// the cool-down elapses, HalfOpen lets probe calls through to test recovery.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{"closed", "open", "half-open"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Breaker stops calling a remote that keeps failing.
//
// MaxFailures consecutive failures open it. After Timeout it turns half-open,
// admitting at most HalfOpenLimit concurrent probes; that many successes
// close it again and any failure reopens it.
type Breaker struct {
	cfg config.CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	probes   int
	passed   int
	openedAt time.Time
	onChange func(from, to State)
}

// NewBreaker returns a closed breaker. Non-positive limits fall back to 1.
func NewBreaker(cfg config.CircuitBreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 1
	}
	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = 1
	}

	return &Breaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run, under the breaker lock, on every transition.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Allow reports whether a call may proceed. A true result in half-open
// reserves a probe slot that Success or Failure releases.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.Timeout {
			return false
		}

		b.move(StateHalfOpen)
	}

	if b.state == StateHalfOpen {
		if b.probes >= b.cfg.HalfOpenLimit {
			return false
		}

		b.probes++
	}

	return true
}

// Success records a completed call.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.passed++

		if b.passed >= b.cfg.HalfOpenLimit {
			b.move(StateClosed)
		}
	case StateOpen:
	}
}

// Failure records a failed call.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++

		if b.failures >= b.cfg.MaxFailures {
			b.open()
		}
	case StateHalfOpen:
		b.open()
	case StateOpen:
	}
}

// State returns the current position without advancing an expired open state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.move(StateOpen)
}

// move switches state and clears the counters of the state being left.
func (b *Breaker) move(to State) {
	from := b.state
	b.state = to
	b.failures, b.probes, b.passed = 0, 0, 0

	if b.onChange != nil && from != to {
		b.onChange(from, to)
	}
}
