package subscription

import (
	"errors"
	"time"

	"luminashare/fhe"
)

var (
	// ErrNotFound is returned when no subscription record exists for the
	// (content, subscriber) pair.
	ErrNotFound = errors.New("subscription engine: subscription not found")
	// ErrInvalidDuration is returned when durationMonths is below one.
	ErrInvalidDuration = errors.New("subscription engine: duration must be at least one month")

	errNilState = errors.New("subscription engine: state not configured")
)

type engineState interface {
	SubscriptionGet(contentID uint64, subscriber [20]byte) (*Subscription, bool, error)
	SubscriptionPut(sub *Subscription) error
	UserSubscriptionIndex(subscriber [20]byte) ([]uint64, error)
	UserSubscriptionAppend(subscriber [20]byte, contentID uint64) error
}

// Engine runs the per-(content, subscriber) subscription state machine. It
// reads and writes fee handles but never inspects them; billing terms stay
// encrypted.
type Engine struct {
	state engineState
	nowFn func() int64
}

// NewEngine constructs a subscription engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Subscribe writes (or overwrites) the subscription record for the pair with
// expiry now + durationMonths billing periods.
func (e *Engine) Subscribe(contentID uint64, subscriber [20]byte, fee fhe.Handle, durationMonths uint32, autoRenew bool) (*Subscription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if durationMonths < 1 {
		return nil, ErrInvalidDuration
	}
	existing, ok, err := e.state.SubscriptionGet(contentID, subscriber)
	if err != nil {
		return nil, err
	}
	record := &Subscription{
		ContentID:  contentID,
		Subscriber: subscriber,
		MonthlyFee: fee,
		ExpiresAt:  e.now() + int64(durationMonths)*MonthDuration,
		AutoRenew:  autoRenew,
		Active:     true,
	}
	if err := e.state.SubscriptionPut(record); err != nil {
		return nil, err
	}
	if !ok || existing == nil {
		if err := e.state.UserSubscriptionAppend(subscriber, contentID); err != nil {
			return nil, err
		}
	}
	return record.Clone(), nil
}

// Renew extends the subscription by one billing period from whichever is
// later: now or the current expiry. A lapsed or cancelled record is
// reactivated.
func (e *Engine) Renew(contentID uint64, subscriber [20]byte, fee fhe.Handle) (*Subscription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.SubscriptionGet(contentID, subscriber)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	base := e.now()
	if record.ExpiresAt > base {
		base = record.ExpiresAt
	}
	record.ExpiresAt = base + MonthDuration
	record.MonthlyFee = fee
	record.Active = true
	if err := e.state.SubscriptionPut(record); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Cancel deactivates the subscription and switches off auto-renewal. Paid
// periods are not refunded: encrypted amounts cannot be partially reversed.
func (e *Engine) Cancel(contentID uint64, subscriber [20]byte) (*Subscription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.SubscriptionGet(contentID, subscriber)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	record.Active = false
	record.AutoRenew = false
	if err := e.state.SubscriptionPut(record); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Get returns the subscription record for the pair.
func (e *Engine) Get(contentID uint64, subscriber [20]byte) (*Subscription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.SubscriptionGet(contentID, subscriber)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// HasAccessAt reports whether the subscriber holds a live subscription for the
// content at the given time.
func (e *Engine) HasAccessAt(contentID uint64, subscriber [20]byte, now int64) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	record, ok, err := e.state.SubscriptionGet(contentID, subscriber)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return record.ActiveAt(now), nil
}

// ListByUser returns every content id the user ever subscribed to, in first
// subscription order.
func (e *Engine) ListByUser(subscriber [20]byte) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	ids, err := e.state.UserSubscriptionIndex(subscriber)
	if err != nil {
		return nil, err
	}
	return append([]uint64(nil), ids...), nil
}
