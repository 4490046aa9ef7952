package ledger

import (
	"errors"
	"fmt"

	"luminashare/fhe"
)

var (
	// ErrContentNotFound is returned when the referenced content id has no
	// accumulator state.
	ErrContentNotFound = errors.New("ledger engine: content not found")
	// ErrInvalidCategory is returned for category values outside the
	// supported range.
	ErrInvalidCategory = errors.New("ledger engine: invalid revenue category")

	errNilState  = errors.New("ledger engine: state not configured")
	errNilEngine = errors.New("ledger engine: fhe engine not configured")
)

type engineState interface {
	ContentAccumulatorsGet(id uint64) (*Accumulators, bool, error)
	ContentAccumulatorsPut(id uint64, acc *Accumulators) error
	CreatorEarningsGet(creator [20]byte) (*CreatorEarnings, bool, error)
	CreatorEarningsPut(earnings *CreatorEarnings) error
	PaymentCount(contentID uint64) (uint64, error)
	PaymentAppend(payment *Payment) error
	TipCount(contentID uint64) (uint64, error)
	TipAppend(tip *Tip) error
}

// Engine maintains the encrypted running totals. It is strictly additive: the
// only mutation it performs is homomorphic addition into an accumulator, so
// it can guarantee additive integrity but cannot compare an encrypted payment
// against an encrypted price. Amount sufficiency is the caller's problem.
type Engine struct {
	state engineState
	fhe   fhe.Engine
}

// NewEngine constructs a ledger engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetFHE configures the confidential-computation engine.
func (e *Engine) SetFHE(engine fhe.Engine) { e.fhe = engine }

func newCreatorEarnings(creator [20]byte) *CreatorEarnings {
	return &CreatorEarnings{Creator: creator}
}

// Credit homomorphically adds amount into the content earnings accumulator,
// the creator's total and the creator's per-category accumulator. It is the
// only mutator of earnings state and must run inside the same transaction as
// the corresponding log append: a credit without its log entry (or the
// reverse) is a consistency violation.
func (e *Engine) Credit(contentID uint64, amount fhe.Handle, category Category) (*CreatorEarnings, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.fhe == nil {
		return nil, errNilEngine
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	acc, ok, err := e.state.ContentAccumulatorsGet(contentID)
	if err != nil {
		return nil, err
	}
	if !ok || acc == nil {
		return nil, ErrContentNotFound
	}
	acc.Earnings, err = e.fhe.Add(acc.Earnings, amount)
	if err != nil {
		return nil, fmt.Errorf("ledger engine: content earnings add: %w", err)
	}
	if err := e.state.ContentAccumulatorsPut(contentID, acc); err != nil {
		return nil, err
	}
	earnings, ok, err := e.state.CreatorEarningsGet(acc.Creator)
	if err != nil {
		return nil, err
	}
	if !ok || earnings == nil {
		earnings = newCreatorEarnings(acc.Creator)
	}
	earnings.Total, err = e.fhe.Add(earnings.Total, amount)
	if err != nil {
		return nil, fmt.Errorf("ledger engine: creator total add: %w", err)
	}
	switch category {
	case CategoryPayment:
		earnings.Payments, err = e.fhe.Add(earnings.Payments, amount)
	case CategoryTip:
		earnings.Tips, err = e.fhe.Add(earnings.Tips, amount)
	case CategorySubscription:
		earnings.Subscriptions, err = e.fhe.Add(earnings.Subscriptions, amount)
	}
	if err != nil {
		return nil, fmt.Errorf("ledger engine: creator %s add: %w", category, err)
	}
	if err := e.state.CreatorEarningsPut(earnings); err != nil {
		return nil, err
	}
	return earnings.Clone(), nil
}

// BumpTipCounter increments the content's encrypted tip counter by one.
func (e *Engine) BumpTipCounter(contentID uint64) error {
	return e.bumpCounter(contentID, func(acc *Accumulators, next fhe.Handle) {
		acc.TipCount = next
	}, func(acc *Accumulators) fhe.Handle { return acc.TipCount })
}

// BumpViewCounter increments the content's encrypted view counter by one.
func (e *Engine) BumpViewCounter(contentID uint64) error {
	return e.bumpCounter(contentID, func(acc *Accumulators, next fhe.Handle) {
		acc.ViewCount = next
	}, func(acc *Accumulators) fhe.Handle { return acc.ViewCount })
}

func (e *Engine) bumpCounter(contentID uint64, set func(*Accumulators, fhe.Handle), get func(*Accumulators) fhe.Handle) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.fhe == nil {
		return errNilEngine
	}
	acc, ok, err := e.state.ContentAccumulatorsGet(contentID)
	if err != nil {
		return err
	}
	if !ok || acc == nil {
		return ErrContentNotFound
	}
	one, err := e.fhe.TrivialEncrypt(1)
	if err != nil {
		return fmt.Errorf("ledger engine: encrypt counter increment: %w", err)
	}
	next, err := e.fhe.Add(get(acc), one)
	if err != nil {
		return fmt.Errorf("ledger engine: counter add: %w", err)
	}
	set(acc, next)
	return e.state.ContentAccumulatorsPut(contentID, acc)
}

// AppendPayment records a purchase in the append-only payment log.
func (e *Engine) AppendPayment(payment *Payment) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if payment == nil {
		return errors.New("ledger engine: nil payment")
	}
	return e.state.PaymentAppend(payment)
}

// AppendTip records a tip in the append-only tip log.
func (e *Engine) AppendTip(tip *Tip) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if tip == nil {
		return errors.New("ledger engine: nil tip")
	}
	if !tip.TipType.Valid() {
		return errors.New("ledger engine: invalid tip type")
	}
	return e.state.TipAppend(tip)
}

// EarningsOf returns the still-encrypted earnings handle for the content.
func (e *Engine) EarningsOf(contentID uint64) (fhe.Handle, error) {
	if e == nil || e.state == nil {
		return fhe.Handle{}, errNilState
	}
	acc, ok, err := e.state.ContentAccumulatorsGet(contentID)
	if err != nil {
		return fhe.Handle{}, err
	}
	if !ok || acc == nil {
		return fhe.Handle{}, ErrContentNotFound
	}
	return acc.Earnings, nil
}

// CreatorEarnings returns the creator's encrypted total.
func (e *Engine) CreatorEarnings(creator [20]byte) (fhe.Handle, error) {
	earnings, err := e.creatorEarnings(creator)
	if err != nil {
		return fhe.Handle{}, err
	}
	return earnings.Total, nil
}

// CreatorEarningsByCategory returns the creator's per-category encrypted
// totals.
func (e *Engine) CreatorEarningsByCategory(creator [20]byte) (tips, payments, subscriptions fhe.Handle, err error) {
	earnings, err := e.creatorEarnings(creator)
	if err != nil {
		return fhe.Handle{}, fhe.Handle{}, fhe.Handle{}, err
	}
	return earnings.Tips, earnings.Payments, earnings.Subscriptions, nil
}

// CreatorAggregate returns the full aggregate record. Creators that never
// earned anything get an all-identity aggregate.
func (e *Engine) CreatorAggregate(creator [20]byte) (*CreatorEarnings, error) {
	return e.creatorEarnings(creator)
}

func (e *Engine) creatorEarnings(creator [20]byte) (*CreatorEarnings, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	earnings, ok, err := e.state.CreatorEarningsGet(creator)
	if err != nil {
		return nil, err
	}
	if !ok || earnings == nil {
		earnings = newCreatorEarnings(creator)
	}
	return earnings.Clone(), nil
}

// PaymentCount returns the plaintext length of the content's payment log.
func (e *Engine) PaymentCount(contentID uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.PaymentCount(contentID)
}

// TipCount returns the plaintext length of the content's tip log.
func (e *Engine) TipCount(contentID uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.TipCount(contentID)
}
