package mock

import (
	"errors"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"luminashare/fhe"
)

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func TestEncryptInputRejectsForeignScope(t *testing.T) {
	engine := NewEngine(addr(0xAA))
	if _, _, err := engine.EncryptInput(42, addr(0x01), addr(0xBB)); !errors.Is(err, fhe.ErrScopeMismatch) {
		t.Fatalf("expected scope mismatch, got %v", err)
	}
}

func TestVerifyInputBindsOwnerAndScope(t *testing.T) {
	scope := addr(0xAA)
	owner := addr(0x01)
	engine := NewEngine(scope)
	handle, proof, err := engine.EncryptInput(42, owner, scope)
	if err != nil {
		t.Fatalf("encrypt input: %v", err)
	}
	if err := engine.VerifyInput(handle, proof, owner, scope); err != nil {
		t.Fatalf("verify against original binding failed: %v", err)
	}
	if err := engine.VerifyInput(handle, proof, addr(0x02), scope); !errors.Is(err, fhe.ErrScopeMismatch) {
		t.Fatalf("expected owner mismatch rejection, got %v", err)
	}
	if err := engine.VerifyInput(handle, []byte("bogus"), owner, scope); !errors.Is(err, fhe.ErrInvalidProof) {
		t.Fatalf("expected proof rejection, got %v", err)
	}
}

func TestAddIsCommutativeAndZeroIsIdentity(t *testing.T) {
	scope := addr(0xAA)
	engine := NewEngine(scope)
	a, _, err := engine.EncryptInput(30, addr(0x01), scope)
	if err != nil {
		t.Fatalf("encrypt a: %v", err)
	}
	b, _, err := engine.EncryptInput(12, addr(0x01), scope)
	if err != nil {
		t.Fatalf("encrypt b: %v", err)
	}
	ab, err := engine.Add(a, b)
	if err != nil {
		t.Fatalf("add a+b: %v", err)
	}
	ba, err := engine.Add(b, a)
	if err != nil {
		t.Fatalf("add b+a: %v", err)
	}
	withZero, err := engine.Add(a, fhe.Handle{})
	if err != nil {
		t.Fatalf("add a+0: %v", err)
	}
	if got := mustPlain(t, engine, ab); got != 42 {
		t.Fatalf("a+b decrypted to %d, want 42", got)
	}
	if got := mustPlain(t, engine, ba); got != 42 {
		t.Fatalf("b+a decrypted to %d, want 42", got)
	}
	if got := mustPlain(t, engine, withZero); got != 30 {
		t.Fatalf("a+0 decrypted to %d, want 30", got)
	}
}

func TestUserDecryptRequiresGrantAndSignature(t *testing.T) {
	scope := addr(0xAA)
	engine := NewEngine(scope)
	handle, _, err := engine.EncryptInput(99, addr(0x01), scope)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var principal [20]byte
	copy(principal[:], ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())

	auth, err := fhe.SignAuthorization(key, []fhe.Handle{handle})
	if err != nil {
		t.Fatalf("sign authorization: %v", err)
	}
	if _, err := engine.UserDecrypt([]fhe.Handle{handle}, auth); !errors.Is(err, fhe.ErrNotGranted) {
		t.Fatalf("expected decryption denied before grant, got %v", err)
	}

	if err := engine.GrantDecrypt(handle, principal); err != nil {
		t.Fatalf("grant: %v", err)
	}
	values, err := engine.UserDecrypt([]fhe.Handle{handle}, auth)
	if err != nil {
		t.Fatalf("decrypt after grant: %v", err)
	}
	if len(values) != 1 || values[0] != 99 {
		t.Fatalf("unexpected plaintext: %v", values)
	}

	// A signature over a different handle set must not be replayable.
	other, _, err := engine.EncryptInput(7, addr(0x01), scope)
	if err != nil {
		t.Fatalf("encrypt other: %v", err)
	}
	if err := engine.GrantDecrypt(other, principal); err != nil {
		t.Fatalf("grant other: %v", err)
	}
	if _, err := engine.UserDecrypt([]fhe.Handle{other}, auth); !errors.Is(err, fhe.ErrNotGranted) {
		t.Fatalf("expected replayed authorization to be rejected, got %v", err)
	}

	if err := engine.RevokeDecrypt(handle, principal); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := engine.UserDecrypt([]fhe.Handle{handle}, auth); !errors.Is(err, fhe.ErrNotGranted) {
		t.Fatalf("expected decryption denied after revoke, got %v", err)
	}
}

func TestZeroHandleDecryptsToZero(t *testing.T) {
	engine := NewEngine(addr(0xAA))
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	handles := []fhe.Handle{{}}
	auth, err := fhe.SignAuthorization(key, handles)
	if err != nil {
		t.Fatalf("sign authorization: %v", err)
	}
	values, err := engine.UserDecrypt(handles, auth)
	if err != nil {
		t.Fatalf("decrypt zero handle: %v", err)
	}
	if values[0] != 0 {
		t.Fatalf("zero handle decrypted to %d", values[0])
	}
}

// mustPlain decrypts a single handle through the full grant + signature flow.
func mustPlain(t *testing.T, engine *Engine, handle fhe.Handle) uint32 {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var principal [20]byte
	copy(principal[:], ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())
	if err := engine.GrantDecrypt(handle, principal); err != nil {
		t.Fatalf("grant: %v", err)
	}
	auth, err := fhe.SignAuthorization(key, []fhe.Handle{handle})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	values, err := engine.UserDecrypt([]fhe.Handle{handle}, auth)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	return values[0]
}
