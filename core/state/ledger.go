package state

import (
	"fmt"

	"luminashare/fhe"
	"luminashare/native/ledger"
)

func paymentCountKey(contentID uint64) []byte {
	return prefixedKey(paymentCountPrefix, idBytes(contentID))
}

func paymentKey(contentID uint64, seq uint64) []byte {
	return prefixedKey(paymentRecordPrefix, idBytes(contentID), idBytes(seq))
}

func tipCountKey(contentID uint64) []byte {
	return prefixedKey(tipCountPrefix, idBytes(contentID))
}

func tipKey(contentID uint64, seq uint64) []byte {
	return prefixedKey(tipRecordPrefix, idBytes(contentID), idBytes(seq))
}

func creatorEarningsKey(creator [20]byte) []byte {
	return prefixedKey(creatorEarningsPrefix, creator[:])
}

type storedPayment struct {
	ContentID uint64
	Payer     [20]byte
	Amount    fhe.Handle
	Timestamp uint64
}

type storedTip struct {
	ContentID uint64
	Tipper    [20]byte
	Amount    fhe.Handle
	TipType   uint8
	Timestamp uint64
}

type storedCreatorEarnings struct {
	Creator       [20]byte
	Total         fhe.Handle
	Tips          fhe.Handle
	Payments      fhe.Handle
	Subscriptions fhe.Handle
}

// ContentAccumulatorsGet projects the encrypted counters out of the content
// record for the ledger engine.
func (m *Manager) ContentAccumulatorsGet(id uint64) (*ledger.Accumulators, bool, error) {
	record, ok, err := m.ContentGet(id)
	if err != nil || !ok {
		return nil, false, err
	}
	return &ledger.Accumulators{
		Creator:   record.Creator,
		Earnings:  record.Earnings,
		ViewCount: record.ViewCount,
		TipCount:  record.TipCount,
	}, true, nil
}

// ContentAccumulatorsPut writes the encrypted counters back into the content
// record. Plaintext metadata is untouched.
func (m *Manager) ContentAccumulatorsPut(id uint64, acc *ledger.Accumulators) error {
	if acc == nil {
		return fmt.Errorf("state: nil accumulators")
	}
	record, ok, err := m.ContentGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("state: accumulators for unknown content %d", id)
	}
	record.Earnings = acc.Earnings
	record.ViewCount = acc.ViewCount
	record.TipCount = acc.TipCount
	return m.ContentPut(record)
}

// CreatorEarningsGet loads the creator's aggregate earnings record.
func (m *Manager) CreatorEarningsGet(creator [20]byte) (*ledger.CreatorEarnings, bool, error) {
	var stored storedCreatorEarnings
	ok, err := m.loadRLP(creatorEarningsKey(creator), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &ledger.CreatorEarnings{
		Creator:       stored.Creator,
		Total:         stored.Total,
		Tips:          stored.Tips,
		Payments:      stored.Payments,
		Subscriptions: stored.Subscriptions,
	}, true, nil
}

// CreatorEarningsPut persists the creator's aggregate earnings record.
func (m *Manager) CreatorEarningsPut(earnings *ledger.CreatorEarnings) error {
	if earnings == nil {
		return fmt.Errorf("state: nil creator earnings")
	}
	return m.storeRLP(creatorEarningsKey(earnings.Creator), &storedCreatorEarnings{
		Creator:       earnings.Creator,
		Total:         earnings.Total,
		Tips:          earnings.Tips,
		Payments:      earnings.Payments,
		Subscriptions: earnings.Subscriptions,
	})
}

// PaymentCount returns the length of the content's payment log.
func (m *Manager) PaymentCount(contentID uint64) (uint64, error) {
	return m.loadCounter(paymentCountKey(contentID))
}

// PaymentAppend appends a payment to the content's log.
func (m *Manager) PaymentAppend(payment *ledger.Payment) error {
	if payment == nil {
		return fmt.Errorf("state: nil payment")
	}
	seq, err := m.PaymentCount(payment.ContentID)
	if err != nil {
		return err
	}
	stored := &storedPayment{
		ContentID: payment.ContentID,
		Payer:     payment.Payer,
		Amount:    payment.Amount,
		Timestamp: uint64(payment.Timestamp),
	}
	if err := m.storeRLP(paymentKey(payment.ContentID, seq), stored); err != nil {
		return err
	}
	return m.storeCounter(paymentCountKey(payment.ContentID), seq+1)
}

// PaymentAt returns the payment log entry at the given sequence position.
func (m *Manager) PaymentAt(contentID uint64, seq uint64) (*ledger.Payment, bool, error) {
	var stored storedPayment
	ok, err := m.loadRLP(paymentKey(contentID, seq), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &ledger.Payment{
		ContentID: stored.ContentID,
		Payer:     stored.Payer,
		Amount:    stored.Amount,
		Timestamp: int64(stored.Timestamp),
	}, true, nil
}

// TipCount returns the length of the content's tip log.
func (m *Manager) TipCount(contentID uint64) (uint64, error) {
	return m.loadCounter(tipCountKey(contentID))
}

// TipAppend appends a tip to the content's log.
func (m *Manager) TipAppend(tip *ledger.Tip) error {
	if tip == nil {
		return fmt.Errorf("state: nil tip")
	}
	seq, err := m.TipCount(tip.ContentID)
	if err != nil {
		return err
	}
	stored := &storedTip{
		ContentID: tip.ContentID,
		Tipper:    tip.Tipper,
		Amount:    tip.Amount,
		TipType:   uint8(tip.TipType),
		Timestamp: uint64(tip.Timestamp),
	}
	if err := m.storeRLP(tipKey(tip.ContentID, seq), stored); err != nil {
		return err
	}
	return m.storeCounter(tipCountKey(tip.ContentID), seq+1)
}

// TipAt returns the tip log entry at the given sequence position.
func (m *Manager) TipAt(contentID uint64, seq uint64) (*ledger.Tip, bool, error) {
	var stored storedTip
	ok, err := m.loadRLP(tipKey(contentID, seq), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	tipType := ledger.TipType(stored.TipType)
	if !tipType.Valid() {
		return nil, false, fmt.Errorf("state: invalid stored tip type: %d", stored.TipType)
	}
	return &ledger.Tip{
		ContentID: stored.ContentID,
		Tipper:    stored.Tipper,
		Amount:    stored.Amount,
		TipType:   tipType,
		Timestamp: int64(stored.Timestamp),
	}, true, nil
}
