package state

import (
	"fmt"

	"luminashare/fhe"
	"luminashare/native/payout"
)

func grantKey(creator [20]byte) []byte {
	return prefixedKey(payoutGrantPrefix, creator[:])
}

func withdrawalCountKey(creator [20]byte) []byte {
	return prefixedKey(withdrawalCountPrefix, creator[:])
}

func withdrawalKey(creator [20]byte, seq uint64) []byte {
	return prefixedKey(withdrawalRecordPrefix, creator[:], idBytes(seq))
}

func accessFlagKey(contentID uint64, user [20]byte) []byte {
	return prefixedKey(accessFlagPrefix, idBytes(contentID), user[:])
}

type storedGrant struct {
	ID        string
	Creator   [20]byte
	ContentID uint64
	Handles   []fhe.Handle
	GrantedAt uint64
}

type storedWithdrawal struct {
	ID        string
	Creator   [20]byte
	Amount    uint64
	ClaimedAt uint64
}

// ContentCreator returns the creator principal of the content.
func (m *Manager) ContentCreator(contentID uint64) ([20]byte, bool, error) {
	record, ok, err := m.ContentGet(contentID)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return record.Creator, true, nil
}

// ContentEarningsHandle returns the content's encrypted earnings handle.
func (m *Manager) ContentEarningsHandle(contentID uint64) (fhe.Handle, error) {
	record, ok, err := m.ContentGet(contentID)
	if err != nil {
		return fhe.Handle{}, err
	}
	if !ok {
		return fhe.Handle{}, fmt.Errorf("state: earnings handle for unknown content %d", contentID)
	}
	return record.Earnings, nil
}

// CreatorAggregateHandles returns the creator's four aggregate handles in
// stable order. A creator that never earned gets all-identity handles.
func (m *Manager) CreatorAggregateHandles(creator [20]byte) ([]fhe.Handle, error) {
	earnings, ok, err := m.CreatorEarningsGet(creator)
	if err != nil {
		return nil, err
	}
	if !ok || earnings == nil {
		return []fhe.Handle{{}, {}, {}, {}}, nil
	}
	return earnings.Handles(), nil
}

// GrantGet loads the creator's current decrypt grant.
func (m *Manager) GrantGet(creator [20]byte) (*payout.Grant, bool, error) {
	var stored storedGrant
	ok, err := m.loadRLP(grantKey(creator), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &payout.Grant{
		ID:        stored.ID,
		Creator:   stored.Creator,
		ContentID: stored.ContentID,
		Handles:   stored.Handles,
		GrantedAt: int64(stored.GrantedAt),
	}, true, nil
}

// GrantPut overwrites the creator's decrypt grant.
func (m *Manager) GrantPut(grant *payout.Grant) error {
	if grant == nil {
		return fmt.Errorf("state: nil grant")
	}
	return m.storeRLP(grantKey(grant.Creator), &storedGrant{
		ID:        grant.ID,
		Creator:   grant.Creator,
		ContentID: grant.ContentID,
		Handles:   grant.Handles,
		GrantedAt: uint64(grant.GrantedAt),
	})
}

// WithdrawalCount returns the length of the creator's withdrawal log.
func (m *Manager) WithdrawalCount(creator [20]byte) (uint64, error) {
	return m.loadCounter(withdrawalCountKey(creator))
}

// WithdrawalAppend appends to the creator's withdrawal log.
func (m *Manager) WithdrawalAppend(withdrawal *payout.Withdrawal) error {
	if withdrawal == nil {
		return fmt.Errorf("state: nil withdrawal")
	}
	seq, err := m.WithdrawalCount(withdrawal.Creator)
	if err != nil {
		return err
	}
	stored := &storedWithdrawal{
		ID:        withdrawal.ID,
		Creator:   withdrawal.Creator,
		Amount:    withdrawal.Amount,
		ClaimedAt: uint64(withdrawal.ClaimedAt),
	}
	if err := m.storeRLP(withdrawalKey(withdrawal.Creator, seq), stored); err != nil {
		return err
	}
	return m.storeCounter(withdrawalCountKey(withdrawal.Creator), seq+1)
}

// WithdrawalList returns the creator's withdrawal log in append order.
func (m *Manager) WithdrawalList(creator [20]byte) ([]*payout.Withdrawal, error) {
	count, err := m.WithdrawalCount(creator)
	if err != nil {
		return nil, err
	}
	out := make([]*payout.Withdrawal, 0, count)
	for seq := uint64(0); seq < count; seq++ {
		var stored storedWithdrawal
		ok, err := m.loadRLP(withdrawalKey(creator, seq), &stored)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("state: withdrawal log gap at %d", seq)
		}
		out = append(out, &payout.Withdrawal{
			ID:        stored.ID,
			Creator:   stored.Creator,
			Amount:    stored.Amount,
			ClaimedAt: int64(stored.ClaimedAt),
		})
	}
	return out, nil
}

// --- plaintext access flags ---

// AccessFlagGet reports whether user holds a recorded purchase for the
// content.
func (m *Manager) AccessFlagGet(contentID uint64, user [20]byte) (bool, error) {
	_, ok, err := m.getRaw(accessFlagKey(contentID, user))
	return ok, err
}

// AccessFlagSet records a purchase-based access flag. Flags never expire.
func (m *Manager) AccessFlagSet(contentID uint64, user [20]byte) error {
	return m.putRaw(accessFlagKey(contentID, user), []byte{1})
}
