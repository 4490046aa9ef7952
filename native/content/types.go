package content

import "luminashare/fhe"

// ContentType categorises the published media.
type ContentType uint8

const (
	TypeArticle ContentType = iota
	TypeVideo
	TypeMusic
	TypeOther
)

// Valid reports whether the value is within the supported range.
func (t ContentType) Valid() bool {
	return t <= TypeOther
}

func (t ContentType) String() string {
	switch t {
	case TypeArticle:
		return "article"
	case TypeVideo:
		return "video"
	case TypeMusic:
		return "music"
	case TypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// AccessType selects the access policy enforced for a piece of content.
type AccessType uint8

const (
	AccessPublic AccessType = iota
	AccessPaid
	AccessSubscription
)

// Valid reports whether the value is within the supported range.
func (a AccessType) Valid() bool {
	return a <= AccessSubscription
}

func (a AccessType) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessPaid:
		return "paid"
	case AccessSubscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// Content is a registered piece of content. Title, locator, type and access
// policy are immutable after registration; the price handle is fixed at
// registration and the earnings/viewCount/tipCount handles are mutated only by
// ledger credits. Records are never deleted — Active is a soft flag.
type Content struct {
	ID          uint64      `json:"id"`
	Creator     [20]byte    `json:"creator"`
	Title       string      `json:"title"`
	Locator     string      `json:"locator"`
	ContentType ContentType `json:"contentType"`
	AccessType  AccessType  `json:"accessType"`
	Price       fhe.Handle  `json:"price"`
	Earnings    fhe.Handle  `json:"earnings"`
	ViewCount   fhe.Handle  `json:"viewCount"`
	TipCount    fhe.Handle  `json:"tipCount"`
	CreatedAt   int64       `json:"createdAt"`
	Active      bool        `json:"active"`
}

// Clone returns a copy the caller can mutate without affecting the stored
// record.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
