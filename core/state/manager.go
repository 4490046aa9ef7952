package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"luminashare/storage"
)

// Manager mediates every read and write against the underlying key-value
// store and implements the per-module engine state interfaces. A transaction
// overlay buffers writes so a failed operation leaves nothing behind: the
// ledger's atomicity guarantee (no logged payment without its credit) rests
// on callers running each operation inside Begin/Commit.
//
// The manager is not internally locked; the processor serialises access.
type Manager struct {
	db      storage.Database
	overlay map[string][]byte
}

// NewManager constructs a manager over the given database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Begin opens a write overlay. Nested transactions are not supported.
func (m *Manager) Begin() {
	if m.overlay != nil {
		panic("state: transaction already open")
	}
	m.overlay = make(map[string][]byte)
}

// Commit flushes the overlay to the database and closes the transaction.
func (m *Manager) Commit() error {
	if m.overlay == nil {
		return errors.New("state: no transaction open")
	}
	for key, value := range m.overlay {
		if err := m.db.Put([]byte(key), value); err != nil {
			m.overlay = nil
			return fmt.Errorf("state: commit: %w", err)
		}
	}
	m.overlay = nil
	return nil
}

// Abort discards the overlay, leaving the database untouched.
func (m *Manager) Abort() {
	m.overlay = nil
}

func (m *Manager) getRaw(key []byte) ([]byte, bool, error) {
	if m.overlay != nil {
		if value, ok := m.overlay[string(key)]; ok {
			return value, true, nil
		}
	}
	value, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (m *Manager) putRaw(key []byte, value []byte) error {
	if m.overlay != nil {
		m.overlay[string(key)] = value
		return nil
	}
	return m.db.Put(key, value)
}

func (m *Manager) loadRLP(key []byte, out interface{}) (bool, error) {
	raw, ok, err := m.getRaw(key)
	if err != nil || !ok {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) storeRLP(key []byte, value interface{}) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.putRaw(key, raw)
}

func (m *Manager) loadCounter(key []byte) (uint64, error) {
	raw, ok, err := m.getRaw(key)
	if err != nil || !ok {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("state: malformed counter at %q", key)
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (m *Manager) storeCounter(key []byte, value uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, value)
	return m.putRaw(key, raw)
}

func prefixedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, part := range parts {
		size += len(part)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return ethcrypto.Keccak256(buf)
}

func idBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}
