package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeNow drives the limiter's clock from a mutable instant.
type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time          { return f.t }
func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter() (*Limiter, *fakeNow) {
	clock := &fakeNow{t: time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)}
	l := NewLimiter()
	l.now = clock.now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	policy := Policy{MaxRequests: 3, Window: time.Minute}

	t.Run("allows up to the limit then denies", func(t *testing.T) {
		l, _ := newTestLimiter()

		for i := 0; i < policy.MaxRequests; i++ {
			assert.True(t, l.Allow("user:1", policy), "request %d", i+1)
		}
		assert.False(t, l.Allow("user:1", policy), "request over the limit")
	})

	t.Run("denied attempt is not recorded", func(t *testing.T) {
		l, clock := newTestLimiter()

		for i := 0; i < policy.MaxRequests; i++ {
			l.Allow("user:1", policy)
		}
		// Hammering while denied must not extend the block.
		for i := 0; i < 10; i++ {
			clock.advance(time.Second)
			assert.False(t, l.Allow("user:1", policy))
		}
		clock.advance(time.Minute)
		assert.True(t, l.Allow("user:1", policy))
	})

	t.Run("window elapsing resets the quota", func(t *testing.T) {
		l, clock := newTestLimiter()

		for i := 0; i < policy.MaxRequests; i++ {
			l.Allow("user:1", policy)
		}
		clock.advance(policy.Window + time.Second)

		assert.True(t, l.Allow("user:1", policy))
		assert.Equal(t, policy.MaxRequests-1, l.Remaining("user:1", policy))
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newTestLimiter()

		for i := 0; i < policy.MaxRequests; i++ {
			l.Allow("user:1", policy)
		}
		assert.False(t, l.Allow("user:1", policy))
		assert.True(t, l.Allow("user:2", policy))
	})
}

func TestLimiter_Remaining(t *testing.T) {
	policy := Policy{MaxRequests: 5, Window: time.Minute}
	l, _ := newTestLimiter()

	assert.Equal(t, 5, l.Remaining("user:1", policy))

	l.Allow("user:1", policy)
	l.Allow("user:1", policy)
	assert.Equal(t, 3, l.Remaining("user:1", policy))

	// Remaining itself must not consume quota.
	assert.Equal(t, 3, l.Remaining("user:1", policy))
}

func TestLimiter_ResetAt(t *testing.T) {
	policy := Policy{MaxRequests: 2, Window: time.Minute}
	l, clock := newTestLimiter()

	t.Run("zero time without history", func(t *testing.T) {
		assert.True(t, l.ResetAt("user:1", policy).IsZero())
	})

	t.Run("oldest retained plus window", func(t *testing.T) {
		first := clock.t
		l.Allow("user:1", policy)
		clock.advance(10 * time.Second)
		l.Allow("user:1", policy)

		assert.Equal(t, first.Add(policy.Window), l.ResetAt("user:1", policy))
	})
}

func TestLimiter_Reset(t *testing.T) {
	policy := Policy{MaxRequests: 1, Window: time.Minute}
	l, _ := newTestLimiter()

	l.Allow("user:1", policy)
	assert.False(t, l.Allow("user:1", policy))

	l.Reset("user:1")
	assert.True(t, l.Allow("user:1", policy))
}

func TestPredefinedPolicies(t *testing.T) {
	assert.Equal(t, Policy{100, time.Minute}, PolicyAPI)
	assert.Equal(t, Policy{5, 5 * time.Minute}, PolicyAuth)
	assert.Equal(t, Policy{3, 10 * time.Minute}, PolicyPayment)
	assert.Equal(t, Policy{10, time.Minute}, PolicyForms)
}
