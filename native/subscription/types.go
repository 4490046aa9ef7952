package subscription

import "luminashare/fhe"

// MonthDuration is the billing period applied by Subscribe and Renew.
const MonthDuration int64 = 30 * 24 * 60 * 60

// Subscription is the single live record per (content, subscriber) pair. It is
// overwritten in place on subscribe, renew and cancel — never appended.
type Subscription struct {
	ContentID  uint64     `json:"contentId"`
	Subscriber [20]byte   `json:"subscriber"`
	MonthlyFee fhe.Handle `json:"monthlyFee"`
	ExpiresAt  int64      `json:"expiresAt"`
	AutoRenew  bool       `json:"autoRenew"`
	Active     bool       `json:"active"`
}

// Clone returns a copy the caller can mutate without affecting the stored
// record.
func (s *Subscription) Clone() *Subscription {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// ActiveAt reports whether the subscription grants access at the given time.
// Cancellation wins over a future expiry.
func (s *Subscription) ActiveAt(now int64) bool {
	if s == nil {
		return false
	}
	return s.Active && now < s.ExpiresAt
}
