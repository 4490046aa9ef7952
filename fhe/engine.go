package fhe

import "errors"

var (
	// ErrScopeMismatch is returned when a handle or input proof produced for
	// one scope address is presented to another.
	ErrScopeMismatch = errors.New("fhe: handle bound to different scope")
	// ErrUnknownHandle is returned when an operation references a handle the
	// engine never issued.
	ErrUnknownHandle = errors.New("fhe: unknown handle")
	// ErrInvalidProof is returned when an input proof does not bind the
	// supplied handle to the claimed owner and scope.
	ErrInvalidProof = errors.New("fhe: invalid input proof")
	// ErrNotGranted is returned by UserDecrypt when the requesting principal
	// holds no active decrypt grant for one of the handles.
	ErrNotGranted = errors.New("fhe: decryption not granted")
	// ErrBadSignature is returned when a decryption authorization is not a
	// valid signature over the requested handle set.
	ErrBadSignature = errors.New("fhe: invalid authorization signature")

	errInvalidHandleLength = errors.New("fhe: handle must be 32 bytes")
)

// Engine is the narrow contract with the confidential-computation engine. The
// ledger consumes it as an opaque synchronous dependency: if a call fails the
// enclosing transaction aborts with no partial write.
type Engine interface {
	// EncryptInput produces a handle for value bound to a specific owner and
	// scope address, together with the input proof the owner submits alongside
	// the handle.
	EncryptInput(value uint32, owner [20]byte, scope [20]byte) (Handle, []byte, error)
	// VerifyInput checks that proof binds handle to owner within scope.
	VerifyInput(handle Handle, proof []byte, owner [20]byte, scope [20]byte) error
	// TrivialEncrypt wraps a public constant (e.g. the counter increment 1)
	// into a handle owned by the scope itself.
	TrivialEncrypt(value uint32) (Handle, error)
	// Add homomorphically adds two handles. The result inherits no plaintext
	// exposure. The zero handle acts as the additive identity.
	Add(a, b Handle) (Handle, error)
	// GrantDecrypt permits principal to obtain the plaintext of handle via
	// UserDecrypt. Granting twice is a no-op.
	GrantDecrypt(handle Handle, principal [20]byte) error
	// RevokeDecrypt removes a previously issued grant.
	RevokeDecrypt(handle Handle, principal [20]byte) error
	// UserDecrypt returns the plaintext values for the requested handles. The
	// authorization must be a valid signature by a principal holding an active
	// grant for every non-zero handle. Zero handles decrypt to 0.
	UserDecrypt(handles []Handle, authorization Authorization) ([]uint32, error)
}
