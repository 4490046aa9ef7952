package state

import (
	"fmt"

	"luminashare/fhe"
	"luminashare/native/subscription"
)

func subscriptionKey(contentID uint64, subscriber [20]byte) []byte {
	return prefixedKey(subscriptionPrefix, idBytes(contentID), subscriber[:])
}

func userSubsKey(subscriber [20]byte) []byte {
	return prefixedKey(userSubsIdxPrefix, subscriber[:])
}

type storedSubscription struct {
	ContentID  uint64
	Subscriber [20]byte
	MonthlyFee fhe.Handle
	ExpiresAt  uint64
	AutoRenew  bool
	Active     bool
}

// SubscriptionGet loads the single record for the (content, subscriber) pair.
func (m *Manager) SubscriptionGet(contentID uint64, subscriber [20]byte) (*subscription.Subscription, bool, error) {
	var stored storedSubscription
	ok, err := m.loadRLP(subscriptionKey(contentID, subscriber), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &subscription.Subscription{
		ContentID:  stored.ContentID,
		Subscriber: stored.Subscriber,
		MonthlyFee: stored.MonthlyFee,
		ExpiresAt:  int64(stored.ExpiresAt),
		AutoRenew:  stored.AutoRenew,
		Active:     stored.Active,
	}, true, nil
}

// SubscriptionPut overwrites the record for the (content, subscriber) pair.
func (m *Manager) SubscriptionPut(sub *subscription.Subscription) error {
	if sub == nil {
		return fmt.Errorf("state: nil subscription")
	}
	return m.storeRLP(subscriptionKey(sub.ContentID, sub.Subscriber), &storedSubscription{
		ContentID:  sub.ContentID,
		Subscriber: sub.Subscriber,
		MonthlyFee: sub.MonthlyFee,
		ExpiresAt:  uint64(sub.ExpiresAt),
		AutoRenew:  sub.AutoRenew,
		Active:     sub.Active,
	})
}

// UserSubscriptionIndex returns the content ids the user ever subscribed to.
func (m *Manager) UserSubscriptionIndex(subscriber [20]byte) ([]uint64, error) {
	var ids []uint64
	if _, err := m.loadRLP(userSubsKey(subscriber), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// UserSubscriptionAppend adds a content id to the user's subscription index.
func (m *Manager) UserSubscriptionAppend(subscriber [20]byte, contentID uint64) error {
	ids, err := m.UserSubscriptionIndex(subscriber)
	if err != nil {
		return err
	}
	return m.storeRLP(userSubsKey(subscriber), append(ids, contentID))
}
