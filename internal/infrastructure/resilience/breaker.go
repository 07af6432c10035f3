package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrOpen is returned without calling the guarded function
	ErrOpen = errors.New("endpoint unavailable: circuit open")
	// ErrTrialLimit is returned when every half-open trial slot is taken
	ErrTrialLimit = errors.New("endpoint recovering: trial limit reached")
)

// State is the position of a Breaker
type State uint8

const (
	Closed State = iota
	HalfOpen
	Open
)

var stateNames = [...]string{Closed: "closed", HalfOpen: "half-open", Open: "open"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Policy decides when a Breaker opens and how it recovers. Zero fields take
// defaults in New.
type Policy struct {
	// Trials is both the number of calls let through while half-open and the
	// success streak that closes the breaker again. Default 1.
	Trials uint32
	// Window resets the tally of a closed breaker; zero never resets it
	Window time.Duration
	// Cooldown is the time spent open before trial calls. Default 30s.
	Cooldown time.Duration
	// Trip reports whether a closed breaker should open. Default: five
	// failures in a row.
	Trip func(Tally) bool
	// OnTransition observes every state change
	OnTransition func(name string, from, to State)
	// Clock replaces time.Now in tests
	Clock func() time.Time
}

// Tally counts outcomes since the breaker last changed state or its
// window rolled over
type Tally struct {
	Attempts      uint32
	Successes     uint32
	Failures      uint32
	SuccessStreak uint32
	FailureStreak uint32
}

func (t *Tally) add(ok bool) {
	if ok {
		t.Successes++
		t.SuccessStreak++
		t.FailureStreak = 0
		return
	}
	t.Failures++
	t.FailureStreak++
	t.SuccessStreak = 0
}

// Breaker fails calls fast while an endpoint keeps failing
type Breaker struct {
	name   string
	policy Policy

	mu       sync.Mutex
	state    State
	epoch    uint64
	tally    Tally
	deadline time.Time
}

// New creates a closed breaker
func New(name string, policy Policy) *Breaker {
	if policy.Trials == 0 {
		policy.Trials = 1
	}
	if policy.Cooldown <= 0 {
		policy.Cooldown = 30 * time.Second
	}
	if policy.Trip == nil {
		policy.Trip = func(t Tally) bool { return t.FailureStreak >= 5 }
	}
	if policy.Clock == nil {
		policy.Clock = time.Now
	}

	b := &Breaker{name: name, policy: policy}
	b.beginEpoch(policy.Clock())
	return b
}

func (b *Breaker) Name() string { return b.name }

// State reports the current state, applying any elapsed cooldown or window
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh(b.policy.Clock())
	return b.state
}

// Tally returns a snapshot of the current counts
func (b *Breaker) Tally() Tally {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tally
}

// Do calls fn unless the breaker rejects it. A panic in fn counts as a
// failure and is re-raised.
func (b *Breaker) Do(fn func() error) error {
	epoch, err := b.enter()
	if err != nil {
		return err
	}

	ok := false
	defer func() { b.settle(epoch, ok) }()

	err = fn()
	ok = err == nil
	return err
}

// Call runs fn through b and passes its value back
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var out T
	err := b.Do(func() (err error) {
		out, err = fn()
		return err
	})
	return out, err
}

func (b *Breaker) enter() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh(b.policy.Clock())
	if b.state == Open {
		return 0, ErrOpen
	}
	if b.state == HalfOpen && b.tally.Attempts >= b.policy.Trials {
		return 0, ErrTrialLimit
	}
	b.tally.Attempts++
	return b.epoch, nil
}

// settle records an outcome. Outcomes from an earlier epoch are dropped so a
// slow call cannot trip a breaker that has since moved on.
func (b *Breaker) settle(epoch uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.policy.Clock()
	b.refresh(now)
	if epoch != b.epoch {
		return
	}
	b.tally.add(ok)

	switch {
	case b.state == HalfOpen && !ok:
		b.moveTo(Open, now)
	case b.state == HalfOpen && b.tally.SuccessStreak >= b.policy.Trials:
		b.moveTo(Closed, now)
	case b.state == Closed && !ok && b.policy.Trip(b.tally):
		b.moveTo(Open, now)
	}
}

func (b *Breaker) refresh(now time.Time) {
	if b.deadline.IsZero() || now.Before(b.deadline) {
		return
	}
	if b.state == Open {
		b.moveTo(HalfOpen, now)
		return
	}
	b.beginEpoch(now)
}

func (b *Breaker) moveTo(next State, now time.Time) {
	if next == b.state {
		return
	}
	prev := b.state
	b.state = next
	b.beginEpoch(now)
	if b.policy.OnTransition != nil {
		b.policy.OnTransition(b.name, prev, next)
	}
}

// beginEpoch clears the tally and sets when the current state lapses
func (b *Breaker) beginEpoch(now time.Time) {
	b.epoch++
	b.tally = Tally{}
	b.deadline = time.Time{}

	switch {
	case b.state == Open:
		b.deadline = now.Add(b.policy.Cooldown)
	case b.state == Closed && b.policy.Window > 0:
		b.deadline = now.Add(b.policy.Window)
	}
}
