package fhe

import (
	"crypto/ecdsa"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// authorizationDomain separates decryption-authorization digests from any
// other signed payload in the system.
const authorizationDomain = "luminashare/fhe/user-decrypt/v1"

// Authorization is the signed payload a principal presents to the engine to
// obtain plaintext for a set of granted handles. The signer is recovered from
// the signature; no identity travels in the clear.
type Authorization struct {
	Signature []byte
}

// AuthorizationDigest computes the digest a principal signs to request
// decryption of the given handle set. The digest commits to the exact handles
// in order, so a signature cannot be replayed against a different set.
func AuthorizationDigest(handles []Handle) [32]byte {
	buf := make([]byte, 0, len(authorizationDomain)+len(handles)*32)
	buf = append(buf, authorizationDomain...)
	for _, h := range handles {
		buf = append(buf, h[:]...)
	}
	var digest [32]byte
	copy(digest[:], ethcrypto.Keccak256(buf))
	return digest
}

// SignAuthorization signs the handle set with the principal's key.
func SignAuthorization(key *ecdsa.PrivateKey, handles []Handle) (Authorization, error) {
	digest := AuthorizationDigest(handles)
	sig, err := ethcrypto.Sign(digest[:], key)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{Signature: sig}, nil
}

// RecoverSigner returns the 20-byte principal that produced the authorization
// over the given handle set.
func RecoverSigner(handles []Handle, auth Authorization) ([20]byte, error) {
	digest := AuthorizationDigest(handles)
	pub, err := ethcrypto.SigToPub(digest[:], auth.Signature)
	if err != nil {
		return [20]byte{}, ErrBadSignature
	}
	addr := ethcrypto.PubkeyToAddress(*pub)
	var out [20]byte
	copy(out[:], addr.Bytes())
	return out, nil
}
