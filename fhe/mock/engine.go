// Package mock provides an in-process stand-in for the confidential
// computation engine. It mirrors the behaviour the core depends on — scope
// binding of input handles, homomorphic addition, decrypt grants and
// signature-checked user decryption — while holding plaintexts in memory.
// It exists for tests and local development; a deployment wires the real
// engine behind the same interface.
package mock

import (
	"encoding/binary"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"luminashare/fhe"
)

const (
	inputDomain   = "luminashare/fhe-mock/input"
	trivialDomain = "luminashare/fhe-mock/trivial"
	sumDomain     = "luminashare/fhe-mock/sum"
	proofDomain   = "luminashare/fhe-mock/proof"
)

type binding struct {
	owner [20]byte
	scope [20]byte
}

// Engine implements fhe.Engine for a single scope address.
type Engine struct {
	mu       sync.Mutex
	scope    [20]byte
	nonce    uint64
	values   map[fhe.Handle]uint32
	bindings map[fhe.Handle]binding
	grants   map[fhe.Handle]map[[20]byte]struct{}
}

// NewEngine constructs a mock engine bound to the given scope address.
func NewEngine(scope [20]byte) *Engine {
	return &Engine{
		scope:    scope,
		values:   make(map[fhe.Handle]uint32),
		bindings: make(map[fhe.Handle]binding),
		grants:   make(map[fhe.Handle]map[[20]byte]struct{}),
	}
}

func (e *Engine) nextHandle(domain string, owner [20]byte) fhe.Handle {
	e.nonce++
	buf := make([]byte, 0, len(domain)+40+8)
	buf = append(buf, domain...)
	buf = append(buf, e.scope[:]...)
	buf = append(buf, owner[:]...)
	buf = binary.BigEndian.AppendUint64(buf, e.nonce)
	var h fhe.Handle
	copy(h[:], ethcrypto.Keccak256(buf))
	return h
}

func proofFor(handle fhe.Handle, owner [20]byte, scope [20]byte) []byte {
	buf := make([]byte, 0, len(proofDomain)+32+40)
	buf = append(buf, proofDomain...)
	buf = append(buf, handle[:]...)
	buf = append(buf, owner[:]...)
	buf = append(buf, scope[:]...)
	return ethcrypto.Keccak256(buf)
}

// EncryptInput issues a handle for value bound to owner within scope.
func (e *Engine) EncryptInput(value uint32, owner [20]byte, scope [20]byte) (fhe.Handle, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if scope != e.scope {
		return fhe.Handle{}, nil, fhe.ErrScopeMismatch
	}
	h := e.nextHandle(inputDomain, owner)
	e.values[h] = value
	e.bindings[h] = binding{owner: owner, scope: scope}
	return h, proofFor(h, owner, scope), nil
}

// VerifyInput checks the proof binds handle to owner within scope.
func (e *Engine) VerifyInput(handle fhe.Handle, proof []byte, owner [20]byte, scope [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if scope != e.scope {
		return fhe.ErrScopeMismatch
	}
	b, ok := e.bindings[handle]
	if !ok {
		return fhe.ErrUnknownHandle
	}
	if b.scope != scope || b.owner != owner {
		return fhe.ErrScopeMismatch
	}
	expected := proofFor(handle, owner, scope)
	if len(proof) != len(expected) {
		return fhe.ErrInvalidProof
	}
	for i := range expected {
		if proof[i] != expected[i] {
			return fhe.ErrInvalidProof
		}
	}
	return nil
}

// TrivialEncrypt wraps a public constant into a scope-owned handle.
func (e *Engine) TrivialEncrypt(value uint32) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.nextHandle(trivialDomain, e.scope)
	e.values[h] = value
	e.bindings[h] = binding{owner: e.scope, scope: e.scope}
	return h, nil
}

func (e *Engine) plaintextLocked(h fhe.Handle) (uint32, error) {
	if h.Zero() {
		return 0, nil
	}
	v, ok := e.values[h]
	if !ok {
		return 0, fhe.ErrUnknownHandle
	}
	return v, nil
}

// Add returns a fresh handle representing the homomorphic sum of a and b.
// Addition wraps modulo 2^32, matching the encrypted uint32 domain.
func (e *Engine) Add(a, b fhe.Handle) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	va, err := e.plaintextLocked(a)
	if err != nil {
		return fhe.Handle{}, err
	}
	vb, err := e.plaintextLocked(b)
	if err != nil {
		return fhe.Handle{}, err
	}
	h := e.nextHandle(sumDomain, e.scope)
	e.values[h] = va + vb
	e.bindings[h] = binding{owner: e.scope, scope: e.scope}
	return h, nil
}

// GrantDecrypt records a decrypt capability for principal on handle.
func (e *Engine) GrantDecrypt(handle fhe.Handle, principal [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if handle.Zero() {
		return nil
	}
	if _, ok := e.values[handle]; !ok {
		return fhe.ErrUnknownHandle
	}
	set, ok := e.grants[handle]
	if !ok {
		set = make(map[[20]byte]struct{})
		e.grants[handle] = set
	}
	set[principal] = struct{}{}
	return nil
}

// RevokeDecrypt removes a previously issued grant.
func (e *Engine) RevokeDecrypt(handle fhe.Handle, principal [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if set, ok := e.grants[handle]; ok {
		delete(set, principal)
	}
	return nil
}

// UserDecrypt verifies the authorization signature over the handle set,
// checks the recovered principal holds a grant for every non-zero handle and
// returns the plaintexts in request order.
func (e *Engine) UserDecrypt(handles []fhe.Handle, authorization fhe.Authorization) ([]uint32, error) {
	signer, err := fhe.RecoverSigner(handles, authorization)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]uint32, len(handles))
	for i, h := range handles {
		if h.Zero() {
			out[i] = 0
			continue
		}
		set, ok := e.grants[h]
		if !ok {
			return nil, fhe.ErrNotGranted
		}
		if _, ok := set[signer]; !ok {
			return nil, fhe.ErrNotGranted
		}
		v, err := e.plaintextLocked(h)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
