package events

import (
	"strconv"

	"luminashare/core/types"
	"luminashare/crypto"
)

const (
	TypeContentCreated        = "lumina.content.created"
	TypeContentPurchased      = "lumina.content.purchased"
	TypeContentTipped         = "lumina.content.tipped"
	TypeContentViewed         = "lumina.content.viewed"
	TypeSubscriptionCreated   = "lumina.subscription.created"
	TypeSubscriptionRenewed   = "lumina.subscription.renewed"
	TypeSubscriptionCancelled = "lumina.subscription.cancelled"
	TypeDecryptAuthorized     = "lumina.payout.decryptAuthorized"
	TypeEarningsWithdrawn     = "lumina.payout.earningsWithdrawn"
)

// Transaction amounts stay encrypted end to end, so events identify the
// parties and the content but never carry an amount. The only exception is
// EarningsWithdrawn, whose amount is the caller-supplied plaintext produced by
// the off-chain decryption step.

func formatAddr(addr [20]byte) string {
	return crypto.NewAddress(crypto.LuminaPrefix, addr[:]).String()
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

type ContentCreated struct {
	ContentID  uint64
	Creator    [20]byte
	Title      string
	AccessType string
	CreatedAt  int64
}

func (ContentCreated) EventType() string { return TypeContentCreated }

func (e ContentCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeContentCreated,
		Attributes: map[string]string{
			"contentId":  formatID(e.ContentID),
			"creator":    formatAddr(e.Creator),
			"title":      e.Title,
			"accessType": e.AccessType,
			"createdAt":  intToString(e.CreatedAt),
		},
	}
}

type ContentPurchased struct {
	ContentID uint64
	Payer     [20]byte
	Timestamp int64
}

func (ContentPurchased) EventType() string { return TypeContentPurchased }

func (e ContentPurchased) Event() *types.Event {
	return &types.Event{
		Type: TypeContentPurchased,
		Attributes: map[string]string{
			"contentId": formatID(e.ContentID),
			"payer":     formatAddr(e.Payer),
			"timestamp": intToString(e.Timestamp),
		},
	}
}

type ContentTipped struct {
	ContentID uint64
	Tipper    [20]byte
	TipType   string
	Timestamp int64
}

func (ContentTipped) EventType() string { return TypeContentTipped }

func (e ContentTipped) Event() *types.Event {
	return &types.Event{
		Type: TypeContentTipped,
		Attributes: map[string]string{
			"contentId": formatID(e.ContentID),
			"tipper":    formatAddr(e.Tipper),
			"tipType":   e.TipType,
			"timestamp": intToString(e.Timestamp),
		},
	}
}

type ContentViewed struct {
	ContentID uint64
	Viewer    [20]byte
}

func (ContentViewed) EventType() string { return TypeContentViewed }

func (e ContentViewed) Event() *types.Event {
	return &types.Event{
		Type: TypeContentViewed,
		Attributes: map[string]string{
			"contentId": formatID(e.ContentID),
			"viewer":    formatAddr(e.Viewer),
		},
	}
}

type SubscriptionCreated struct {
	ContentID  uint64
	Subscriber [20]byte
	ExpiresAt  int64
	AutoRenew  bool
}

func (SubscriptionCreated) EventType() string { return TypeSubscriptionCreated }

func (e SubscriptionCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeSubscriptionCreated,
		Attributes: map[string]string{
			"contentId":  formatID(e.ContentID),
			"subscriber": formatAddr(e.Subscriber),
			"expiresAt":  intToString(e.ExpiresAt),
			"autoRenew":  strconv.FormatBool(e.AutoRenew),
		},
	}
}

type SubscriptionRenewed struct {
	ContentID    uint64
	Subscriber   [20]byte
	NewExpiresAt int64
}

func (SubscriptionRenewed) EventType() string { return TypeSubscriptionRenewed }

func (e SubscriptionRenewed) Event() *types.Event {
	return &types.Event{
		Type: TypeSubscriptionRenewed,
		Attributes: map[string]string{
			"contentId":    formatID(e.ContentID),
			"subscriber":   formatAddr(e.Subscriber),
			"newExpiresAt": intToString(e.NewExpiresAt),
		},
	}
}

type SubscriptionCancelled struct {
	ContentID  uint64
	Subscriber [20]byte
}

func (SubscriptionCancelled) EventType() string { return TypeSubscriptionCancelled }

func (e SubscriptionCancelled) Event() *types.Event {
	return &types.Event{
		Type: TypeSubscriptionCancelled,
		Attributes: map[string]string{
			"contentId":  formatID(e.ContentID),
			"subscriber": formatAddr(e.Subscriber),
		},
	}
}

type DecryptAuthorized struct {
	ContentID uint64
	Creator   [20]byte
	GrantID   string
}

func (DecryptAuthorized) EventType() string { return TypeDecryptAuthorized }

func (e DecryptAuthorized) Event() *types.Event {
	return &types.Event{
		Type: TypeDecryptAuthorized,
		Attributes: map[string]string{
			"contentId": formatID(e.ContentID),
			"creator":   formatAddr(e.Creator),
			"grantId":   e.GrantID,
		},
	}
}

type EarningsWithdrawn struct {
	Creator   [20]byte
	Amount    uint64
	Timestamp int64
}

func (EarningsWithdrawn) EventType() string { return TypeEarningsWithdrawn }

func (e EarningsWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeEarningsWithdrawn,
		Attributes: map[string]string{
			"creator":   formatAddr(e.Creator),
			"amount":    strconv.FormatUint(e.Amount, 10),
			"timestamp": intToString(e.Timestamp),
		},
	}
}
