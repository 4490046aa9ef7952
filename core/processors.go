package core

import (
	"fmt"

	"luminashare/core/events"
	"luminashare/fhe"
	"luminashare/native/content"
	"luminashare/native/ledger"
	"luminashare/native/payout"
	"luminashare/native/subscription"
)

// Register publishes a new content record on behalf of the creator. The price
// handle must be an input bound to the creator within this ledger's scope.
func (n *Node) Register(creator [20]byte, title string, locator string, contentType content.ContentType, accessType content.AccessType, price fhe.Handle, priceProof []byte) (*content.Content, error) {
	var record *content.Content
	err := n.runTx("register", func(emit func(events.Event)) error {
		var err error
		record, err = n.contents.Register(creator, title, locator, contentType, accessType, price, priceProof)
		if err != nil {
			return err
		}
		emit(events.ContentCreated{
			ContentID:  record.ID,
			Creator:    creator,
			Title:      record.Title,
			AccessType: record.AccessType.String(),
			CreatedAt:  record.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Purchase credits the encrypted payment to the content and grants the payer
// a permanent plaintext access flag. The ledger cannot compare the encrypted
// amount against the encrypted price, so sufficiency is the caller's
// responsibility; any presented amount is accepted and credited.
func (n *Node) Purchase(contentID uint64, payer [20]byte, amount fhe.Handle, amountProof []byte) error {
	return n.runTx("purchase", func(emit func(events.Event)) error {
		if _, err := n.activeContent(contentID); err != nil {
			return err
		}
		if err := n.fheng.VerifyInput(amount, amountProof, payer, n.scope); err != nil {
			return fmt.Errorf("purchase: payment input rejected: %w", err)
		}
		now := n.now()
		if err := n.ledger.AppendPayment(&ledger.Payment{
			ContentID: contentID,
			Payer:     payer,
			Amount:    amount,
			Timestamp: now,
		}); err != nil {
			return err
		}
		if _, err := n.ledger.Credit(contentID, amount, ledger.CategoryPayment); err != nil {
			return err
		}
		if err := n.state.AccessFlagSet(contentID, payer); err != nil {
			return err
		}
		emit(events.ContentPurchased{ContentID: contentID, Payer: payer, Timestamp: now})
		return nil
	})
}

// Tip credits an encrypted tip to the content. No access side effect; the
// encrypted tip counter advances by one.
func (n *Node) Tip(contentID uint64, tipper [20]byte, amount fhe.Handle, amountProof []byte, tipType ledger.TipType) error {
	return n.runTx("tip", func(emit func(events.Event)) error {
		if _, err := n.activeContent(contentID); err != nil {
			return err
		}
		if err := n.fheng.VerifyInput(amount, amountProof, tipper, n.scope); err != nil {
			return fmt.Errorf("tip: tip input rejected: %w", err)
		}
		now := n.now()
		if err := n.ledger.AppendTip(&ledger.Tip{
			ContentID: contentID,
			Tipper:    tipper,
			Amount:    amount,
			TipType:   tipType,
			Timestamp: now,
		}); err != nil {
			return err
		}
		if _, err := n.ledger.Credit(contentID, amount, ledger.CategoryTip); err != nil {
			return err
		}
		if err := n.ledger.BumpTipCounter(contentID); err != nil {
			return err
		}
		emit(events.ContentTipped{ContentID: contentID, Tipper: tipper, TipType: tipType.String(), Timestamp: now})
		return nil
	})
}

// Subscribe opens (or overwrites) a subscription for the caller and credits
// the encrypted fee under the subscription category.
func (n *Node) Subscribe(contentID uint64, subscriber [20]byte, fee fhe.Handle, feeProof []byte, durationMonths uint32, autoRenew bool) (*subscription.Subscription, error) {
	var record *subscription.Subscription
	err := n.runTx("subscribe", func(emit func(events.Event)) error {
		if _, err := n.activeContent(contentID); err != nil {
			return err
		}
		if err := n.fheng.VerifyInput(fee, feeProof, subscriber, n.scope); err != nil {
			return fmt.Errorf("subscribe: fee input rejected: %w", err)
		}
		var err error
		record, err = n.subs.Subscribe(contentID, subscriber, fee, durationMonths, autoRenew)
		if err != nil {
			return err
		}
		if _, err := n.ledger.Credit(contentID, fee, ledger.CategorySubscription); err != nil {
			return err
		}
		emit(events.SubscriptionCreated{
			ContentID:  contentID,
			Subscriber: subscriber,
			ExpiresAt:  record.ExpiresAt,
			AutoRenew:  record.AutoRenew,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RenewSubscription extends the subscriber's record by one billing period.
// The caller need not be the subscriber (anyone can fund a renewal), so the
// fee input is verified against the caller.
func (n *Node) RenewSubscription(caller [20]byte, contentID uint64, subscriber [20]byte, fee fhe.Handle, feeProof []byte) (*subscription.Subscription, error) {
	var record *subscription.Subscription
	err := n.runTx("renewSubscription", func(emit func(events.Event)) error {
		if _, err := n.activeContent(contentID); err != nil {
			return err
		}
		if err := n.fheng.VerifyInput(fee, feeProof, caller, n.scope); err != nil {
			return fmt.Errorf("renew: fee input rejected: %w", err)
		}
		var err error
		record, err = n.subs.Renew(contentID, subscriber, fee)
		if err != nil {
			return err
		}
		if _, err := n.ledger.Credit(contentID, fee, ledger.CategorySubscription); err != nil {
			return err
		}
		emit(events.SubscriptionRenewed{
			ContentID:    contentID,
			Subscriber:   subscriber,
			NewExpiresAt: record.ExpiresAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CancelSubscription deactivates the caller's subscription. Access is lost
// immediately even if the paid period has not elapsed; encrypted amounts
// cannot be partially reversed, so nothing is refunded.
func (n *Node) CancelSubscription(contentID uint64, subscriber [20]byte) error {
	return n.runTx("cancelSubscription", func(emit func(events.Event)) error {
		if _, err := n.subs.Cancel(contentID, subscriber); err != nil {
			return err
		}
		emit(events.SubscriptionCancelled{ContentID: contentID, Subscriber: subscriber})
		return nil
	})
}

// RecordView advances the content's encrypted view counter by one.
func (n *Node) RecordView(contentID uint64, viewer [20]byte) error {
	return n.runTx("recordView", func(emit func(events.Event)) error {
		if _, err := n.activeContent(contentID); err != nil {
			return err
		}
		if err := n.ledger.BumpViewCounter(contentID); err != nil {
			return err
		}
		emit(events.ContentViewed{ContentID: contentID, Viewer: viewer})
		return nil
	})
}

// AuthorizeDecrypt grants the requester decrypt capability over the content's
// earnings handle and the requester's aggregate handles. Only the content's
// creator may call it; repeating the call re-grants against the current
// handle set.
func (n *Node) AuthorizeDecrypt(contentID uint64, requester [20]byte) (*payout.Grant, error) {
	var grant *payout.Grant
	err := n.runTx("authorizeDecrypt", func(emit func(events.Event)) error {
		var err error
		grant, err = n.payouts.Authorize(contentID, requester)
		if err != nil {
			return err
		}
		emit(events.DecryptAuthorized{ContentID: contentID, Creator: requester, GrantID: grant.ID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// Withdraw records a claimed plaintext amount produced by the off-chain
// decryption step. The amount is trusted as supplied; see the payout engine
// for the trust-boundary note.
func (n *Node) Withdraw(creator [20]byte, decryptedAmount uint64) (*payout.Withdrawal, error) {
	var withdrawal *payout.Withdrawal
	err := n.runTx("withdraw", func(emit func(events.Event)) error {
		var err error
		withdrawal, err = n.payouts.Withdraw(creator, decryptedAmount)
		if err != nil {
			return err
		}
		emit(events.EarningsWithdrawn{Creator: creator, Amount: decryptedAmount, Timestamp: withdrawal.ClaimedAt})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

func (n *Node) activeContent(contentID uint64) (*content.Content, error) {
	record, err := n.contents.Get(contentID)
	if err != nil {
		return nil, err
	}
	if !record.Active {
		return nil, content.ErrInactive
	}
	return record, nil
}
