package core

import (
	"luminashare/fhe"
	"luminashare/native/content"
	"luminashare/native/payout"
	"luminashare/native/subscription"
)

// HasAccess evaluates the content's access policy for the given user. It is a
// pure function of plaintext state — access never depends on an encrypted
// comparison: public content is open to everyone, paid content checks the
// recorded purchase flag, subscription content checks the live record.
func (n *Node) HasAccess(contentID uint64, user [20]byte) (bool, error) {
	var granted bool
	err := n.read(func() error {
		record, err := n.contents.Get(contentID)
		if err != nil {
			return err
		}
		switch record.AccessType {
		case content.AccessPublic:
			granted = true
			return nil
		case content.AccessPaid:
			granted, err = n.state.AccessFlagGet(contentID, user)
			return err
		case content.AccessSubscription:
			granted, err = n.subs.HasAccessAt(contentID, user, n.now())
			return err
		default:
			granted = false
			return nil
		}
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// CheckAccess is HasAccess exposed as an unauthenticated read-only query.
func (n *Node) CheckAccess(contentID uint64, user [20]byte) (bool, error) {
	return n.HasAccess(contentID, user)
}

// GetContent returns the content record for the id.
func (n *Node) GetContent(contentID uint64) (*content.Content, error) {
	var record *content.Content
	err := n.read(func() error {
		var err error
		record, err = n.contents.Get(contentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ContentCount returns the number of registered content records.
func (n *Node) ContentCount() (uint64, error) {
	var count uint64
	err := n.read(func() error {
		var err error
		count, err = n.contents.Count()
		return err
	})
	return count, err
}

// ListByCreator returns the creator's content ids in insertion order.
func (n *Node) ListByCreator(creator [20]byte) ([]uint64, error) {
	var ids []uint64
	err := n.read(func() error {
		var err error
		ids, err = n.contents.ListByCreator(creator)
		return err
	})
	return ids, err
}

// EarningsOf returns the still-encrypted earnings handle of the content.
func (n *Node) EarningsOf(contentID uint64) (fhe.Handle, error) {
	var handle fhe.Handle
	err := n.read(func() error {
		var err error
		handle, err = n.ledger.EarningsOf(contentID)
		return err
	})
	return handle, err
}

// CreatorEarnings returns the creator's encrypted total earnings handle.
func (n *Node) CreatorEarnings(creator [20]byte) (fhe.Handle, error) {
	var handle fhe.Handle
	err := n.read(func() error {
		var err error
		handle, err = n.ledger.CreatorEarnings(creator)
		return err
	})
	return handle, err
}

// CreatorEarningsByCategory returns the creator's encrypted per-category
// totals.
func (n *Node) CreatorEarningsByCategory(creator [20]byte) (tips, payments, subscriptions fhe.Handle, err error) {
	err = n.read(func() error {
		var inner error
		tips, payments, subscriptions, inner = n.ledger.CreatorEarningsByCategory(creator)
		return inner
	})
	return tips, payments, subscriptions, err
}

// PaymentCount returns the plaintext length of the content's payment log.
func (n *Node) PaymentCount(contentID uint64) (uint64, error) {
	var count uint64
	err := n.read(func() error {
		var err error
		count, err = n.ledger.PaymentCount(contentID)
		return err
	})
	return count, err
}

// TipCount returns the plaintext length of the content's tip log.
func (n *Node) TipCount(contentID uint64) (uint64, error) {
	var count uint64
	err := n.read(func() error {
		var err error
		count, err = n.ledger.TipCount(contentID)
		return err
	})
	return count, err
}

// Subscription returns the live record for the (content, subscriber) pair.
func (n *Node) Subscription(contentID uint64, subscriber [20]byte) (*subscription.Subscription, error) {
	var record *subscription.Subscription
	err := n.read(func() error {
		var err error
		record, err = n.subs.Get(contentID, subscriber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UserSubscriptions returns every content id the user ever subscribed to.
func (n *Node) UserSubscriptions(subscriber [20]byte) ([]uint64, error) {
	var ids []uint64
	err := n.read(func() error {
		var err error
		ids, err = n.subs.ListByUser(subscriber)
		return err
	})
	return ids, err
}

// GrantOf returns the creator's current decrypt grant, if any.
func (n *Node) GrantOf(creator [20]byte) (*payout.Grant, bool, error) {
	var (
		grant *payout.Grant
		ok    bool
	)
	err := n.read(func() error {
		var err error
		grant, ok, err = n.payouts.GrantOf(creator)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return grant, ok, nil
}

// Withdrawals returns the creator's claim history.
func (n *Node) Withdrawals(creator [20]byte) ([]*payout.Withdrawal, error) {
	var list []*payout.Withdrawal
	err := n.read(func() error {
		var err error
		list, err = n.payouts.Withdrawals(creator)
		return err
	})
	return list, err
}
