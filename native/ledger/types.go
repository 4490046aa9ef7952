package ledger

import "luminashare/fhe"

// Category splits creator revenue by origin.
type Category uint8

const (
	CategoryPayment Category = iota
	CategoryTip
	CategorySubscription
)

// Valid reports whether the value is within the supported range.
func (c Category) Valid() bool {
	return c <= CategorySubscription
}

func (c Category) String() string {
	switch c {
	case CategoryPayment:
		return "payment"
	case CategoryTip:
		return "tip"
	case CategorySubscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// TipType describes the tipping mode chosen by the tipper. It is plaintext
// metadata; the amount next to it stays encrypted.
type TipType uint8

const (
	TipOneTime TipType = iota
	TipTimeBased
	TipViewBased
)

// Valid reports whether the value is within the supported range.
func (t TipType) Valid() bool {
	return t <= TipViewBased
}

func (t TipType) String() string {
	switch t {
	case TipOneTime:
		return "oneTime"
	case TipTimeBased:
		return "timeBased"
	case TipViewBased:
		return "viewBased"
	default:
		return "unknown"
	}
}

// Payment is an append-only log entry recorded per purchase. Entries are never
// mutated after the fact.
type Payment struct {
	ContentID uint64     `json:"contentId"`
	Payer     [20]byte   `json:"payer"`
	Amount    fhe.Handle `json:"amount"`
	Timestamp int64      `json:"timestamp"`
}

// Tip is an append-only log entry recorded per tip.
type Tip struct {
	ContentID uint64     `json:"contentId"`
	Tipper    [20]byte   `json:"tipper"`
	Amount    fhe.Handle `json:"amount"`
	TipType   TipType    `json:"tipType"`
	Timestamp int64      `json:"timestamp"`
}

// Accumulators are the per-content encrypted counters the ledger mutates.
// Each handle belongs to exactly this accumulator; handles are never shared
// across accumulators, otherwise independent homomorphic sums would alias.
type Accumulators struct {
	Creator   [20]byte   `json:"creator"`
	Earnings  fhe.Handle `json:"earnings"`
	ViewCount fhe.Handle `json:"viewCount"`
	TipCount  fhe.Handle `json:"tipCount"`
}

// CreatorEarnings is the derived aggregate per creator: four encrypted totals
// that only ever grow by homomorphic addition and are read exclusively for
// authorized decryption, never for comparison.
type CreatorEarnings struct {
	Creator       [20]byte   `json:"creator"`
	Total         fhe.Handle `json:"total"`
	Tips          fhe.Handle `json:"byTips"`
	Payments      fhe.Handle `json:"byPayments"`
	Subscriptions fhe.Handle `json:"bySubscriptions"`
}

// Clone returns a copy the caller can mutate without affecting the stored
// record.
func (c *CreatorEarnings) Clone() *CreatorEarnings {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Handles returns the aggregate handles in a stable order (total, tips,
// payments, subscriptions), the order used by decryption authorizations.
func (c *CreatorEarnings) Handles() []fhe.Handle {
	if c == nil {
		return nil
	}
	return []fhe.Handle{c.Total, c.Tips, c.Payments, c.Subscriptions}
}
