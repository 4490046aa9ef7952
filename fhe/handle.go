package fhe

import "encoding/hex"

// Handle is an opaque reference to an encrypted 32-bit unsigned amount held by
// the confidential-computation engine. The only operations available on a
// handle are the engine's homomorphic addition and authorized decryption; the
// application never sees the underlying plaintext.
//
// The zero value is the additive identity: it decrypts to zero, is accepted by
// Add against any scope, and is what freshly registered accumulators start
// from.
type Handle [32]byte

// Zero reports whether the handle is the additive identity.
func (h Handle) Zero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// ParseHandle decodes the 0x-prefixed hex form produced by Handle.String.
func ParseHandle(s string) (Handle, error) {
	var h Handle
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Handle{}, err
	}
	if len(raw) != len(h) {
		return Handle{}, errInvalidHandleLength
	}
	copy(h[:], raw)
	return h, nil
}
