package subscription_test

import (
	"errors"
	"testing"

	"luminashare/core/state"
	"luminashare/fhe"
	"luminashare/native/subscription"
	"luminashare/storage"
)

const testNow int64 = 1_700_000_000

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func newEngine(t *testing.T) (*subscription.Engine, *int64) {
	t.Helper()
	now := testNow
	engine := subscription.NewEngine()
	engine.SetState(state.NewManager(storage.NewMemDB()))
	engine.SetNowFunc(func() int64 { return now })
	return engine, &now
}

func feeHandle() fhe.Handle {
	var h fhe.Handle
	h[0] = 0xFE
	return h
}

func TestSubscribeSetsExpiryPerMonth(t *testing.T) {
	engine, _ := newEngine(t)
	sub, err := engine.Subscribe(1, addr(0x01), feeHandle(), 3, true)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if want := testNow + 3*subscription.MonthDuration; sub.ExpiresAt != want {
		t.Fatalf("expected expiry %d, got %d", want, sub.ExpiresAt)
	}
	if !sub.Active || !sub.AutoRenew {
		t.Fatalf("unexpected flags %+v", sub)
	}
}

func TestSubscribeRejectsZeroMonths(t *testing.T) {
	engine, _ := newEngine(t)
	if _, err := engine.Subscribe(1, addr(0x01), feeHandle(), 0, false); !errors.Is(err, subscription.ErrInvalidDuration) {
		t.Fatalf("expected duration rejection, got %v", err)
	}
}

func TestRenewExtendsFromLaterOfNowAndExpiry(t *testing.T) {
	engine, now := newEngine(t)
	subscriber := addr(0x01)
	sub, err := engine.Subscribe(1, subscriber, feeHandle(), 1, false)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Early renewal stacks on the unexpired period.
	renewed, err := engine.Renew(1, subscriber, feeHandle())
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if want := sub.ExpiresAt + subscription.MonthDuration; renewed.ExpiresAt != want {
		t.Fatalf("expected stacked expiry %d, got %d", want, renewed.ExpiresAt)
	}

	// Late renewal restarts the clock from now.
	*now = renewed.ExpiresAt + subscription.MonthDuration
	renewed, err = engine.Renew(1, subscriber, feeHandle())
	if err != nil {
		t.Fatalf("late renew: %v", err)
	}
	if want := *now + subscription.MonthDuration; renewed.ExpiresAt != want {
		t.Fatalf("expected restarted expiry %d, got %d", want, renewed.ExpiresAt)
	}
}

func TestRenewReactivatesCancelledSubscription(t *testing.T) {
	engine, _ := newEngine(t)
	subscriber := addr(0x01)
	if _, err := engine.Subscribe(1, subscriber, feeHandle(), 1, true); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancelled, err := engine.Cancel(1, subscriber)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Active || cancelled.AutoRenew {
		t.Fatalf("cancel must clear both flags, got %+v", cancelled)
	}

	renewed, err := engine.Renew(1, subscriber, feeHandle())
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if !renewed.Active {
		t.Fatalf("renew must reactivate a cancelled record")
	}
	if renewed.AutoRenew {
		t.Fatalf("renew must not silently re-enable auto-renewal")
	}
}

func TestRenewUnknownSubscription(t *testing.T) {
	engine, _ := newEngine(t)
	if _, err := engine.Renew(1, addr(0x01), feeHandle()); !errors.Is(err, subscription.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := engine.Cancel(1, addr(0x01)); !errors.Is(err, subscription.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHasAccessAtBoundaries(t *testing.T) {
	engine, _ := newEngine(t)
	subscriber := addr(0x01)
	sub, err := engine.Subscribe(1, subscriber, feeHandle(), 1, false)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ok, err := engine.HasAccessAt(1, subscriber, sub.ExpiresAt-1)
	if err != nil || !ok {
		t.Fatalf("expected access before expiry, got %v %v", ok, err)
	}
	// Expiry instant is exclusive.
	ok, err = engine.HasAccessAt(1, subscriber, sub.ExpiresAt)
	if err != nil || ok {
		t.Fatalf("expected no access at expiry instant, got %v %v", ok, err)
	}
	ok, err = engine.HasAccessAt(1, addr(0x02), testNow)
	if err != nil || ok {
		t.Fatalf("expected no access for stranger, got %v %v", ok, err)
	}

	if _, err := engine.Cancel(1, subscriber); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	ok, err = engine.HasAccessAt(1, subscriber, testNow)
	if err != nil || ok {
		t.Fatalf("cancellation must cut access immediately, got %v %v", ok, err)
	}
}

func TestListByUserRecordsFirstSubscriptionOnly(t *testing.T) {
	engine, _ := newEngine(t)
	subscriber := addr(0x01)
	if _, err := engine.Subscribe(4, subscriber, feeHandle(), 1, false); err != nil {
		t.Fatalf("subscribe 4: %v", err)
	}
	if _, err := engine.Subscribe(2, subscriber, feeHandle(), 1, false); err != nil {
		t.Fatalf("subscribe 2: %v", err)
	}
	// Re-subscribing must not duplicate the index entry.
	if _, err := engine.Subscribe(4, subscriber, feeHandle(), 2, true); err != nil {
		t.Fatalf("re-subscribe 4: %v", err)
	}

	ids, err := engine.ListByUser(subscriber)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
}
