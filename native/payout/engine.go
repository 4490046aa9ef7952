package payout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"luminashare/fhe"
)

var (
	// ErrUnauthorized is returned when the requester is not the content's
	// creator.
	ErrUnauthorized = errors.New("payout engine: requester is not the content creator")
	// ErrContentNotFound is returned for unknown content ids.
	ErrContentNotFound = errors.New("payout engine: content not found")

	errNilState  = errors.New("payout engine: state not configured")
	errNilEngine = errors.New("payout engine: fhe engine not configured")
)

type engineState interface {
	ContentCreator(contentID uint64) ([20]byte, bool, error)
	ContentEarningsHandle(contentID uint64) (fhe.Handle, error)
	CreatorAggregateHandles(creator [20]byte) ([]fhe.Handle, error)
	GrantGet(creator [20]byte) (*Grant, bool, error)
	GrantPut(grant *Grant) error
	WithdrawalCount(creator [20]byte) (uint64, error)
	WithdrawalAppend(withdrawal *Withdrawal) error
	WithdrawalList(creator [20]byte) ([]*Withdrawal, error)
}

// Engine is the capability gateway between the encrypted ledger and the
// off-chain decryption protocol. Phase 1 (Authorize) is a pure state mutation
// here; phase 2 (decrypt) is the engine's UserDecrypt call with its own
// signature check. The two phases are deliberately separate interfaces and
// are never merged into one blocking call.
type Engine struct {
	state engineState
	fhe   fhe.Engine
	nowFn func() int64
}

// NewEngine constructs a payout engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetFHE configures the confidential-computation engine.
func (e *Engine) SetFHE(engine fhe.Engine) { e.fhe = engine }

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Authorize grants the requester the engine's decrypt capability on the
// content's earnings handle and the requester's four aggregate handles. Only
// the content's creator may call it. Idempotent: repeating the call simply
// re-grants against the current handle set.
func (e *Engine) Authorize(contentID uint64, requester [20]byte) (*Grant, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.fhe == nil {
		return nil, errNilEngine
	}
	creator, ok, err := e.state.ContentCreator(contentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrContentNotFound
	}
	if creator != requester {
		return nil, ErrUnauthorized
	}
	earnings, err := e.state.ContentEarningsHandle(contentID)
	if err != nil {
		return nil, err
	}
	aggregates, err := e.state.CreatorAggregateHandles(creator)
	if err != nil {
		return nil, err
	}
	handles := append([]fhe.Handle{earnings}, aggregates...)
	for _, handle := range handles {
		if err := e.fhe.GrantDecrypt(handle, requester); err != nil {
			return nil, fmt.Errorf("payout engine: grant decrypt: %w", err)
		}
	}
	grant := &Grant{
		ID:        uuid.NewString(),
		Creator:   creator,
		ContentID: contentID,
		Handles:   handles,
		GrantedAt: e.now(),
	}
	if err := e.state.GrantPut(grant); err != nil {
		return nil, err
	}
	return grant.Clone(), nil
}

// Withdraw records a claimed plaintext amount. The amount is the result of
// the off-chain decryption step and is NOT re-derived or verified against the
// ciphertext here; the gateway trusts the caller. This is an architectural
// trust boundary inherited from the protocol, not an oversight.
func (e *Engine) Withdraw(creator [20]byte, decryptedAmount uint64) (*Withdrawal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	withdrawal := &Withdrawal{
		ID:        uuid.NewString(),
		Creator:   creator,
		Amount:    decryptedAmount,
		ClaimedAt: e.now(),
	}
	if err := e.state.WithdrawalAppend(withdrawal); err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// GrantOf returns the creator's current grant, if any.
func (e *Engine) GrantOf(creator [20]byte) (*Grant, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	grant, ok, err := e.state.GrantGet(creator)
	if err != nil {
		return nil, false, err
	}
	return grant.Clone(), ok, nil
}

// Withdrawals returns the creator's claim history in append order.
func (e *Engine) Withdrawals(creator [20]byte) ([]*Withdrawal, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.WithdrawalList(creator)
}
