package payout

import "luminashare/fhe"

// Grant records a decrypt capability issued to a creator over their aggregate
// earnings handles. One record per creator; re-authorizing overwrites it with
// a fresh grant id and the current handle set (accumulator handles change on
// every credit, so stale grants reference stale handles).
type Grant struct {
	ID        string       `json:"id"`
	Creator   [20]byte     `json:"creator"`
	ContentID uint64       `json:"contentId"`
	Handles   []fhe.Handle `json:"handles"`
	GrantedAt int64        `json:"grantedAt"`
}

// Clone returns a copy the caller can mutate without affecting the stored
// record.
func (g *Grant) Clone() *Grant {
	if g == nil {
		return nil
	}
	clone := *g
	clone.Handles = append([]fhe.Handle(nil), g.Handles...)
	return &clone
}

// Withdrawal records that a plaintext amount, produced by the off-chain
// decryption step, has been claimed by a creator. Append-only.
type Withdrawal struct {
	ID        string   `json:"id"`
	Creator   [20]byte `json:"creator"`
	Amount    uint64   `json:"amount"`
	ClaimedAt int64    `json:"claimedAt"`
}
