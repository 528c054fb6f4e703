package cryptoblob

import (
	"bytes"
	"crypto/subtle"
)

// CodenameKey is the 256-bit key derived from (codename, container salt).
// Equality of two CodenameKeys implies equality of (codename, salt); the key
// is otherwise opaque to every other component in this package.
//
// Zero the key when it is no longer needed, per spec §5 key hygiene.
type CodenameKey struct {
	b [32]byte
}

// NewCodenameKey wraps 32 raw key bytes. Callers normally obtain these bytes
// from internal/kdf.Derive.
func NewCodenameKey(b []byte) CodenameKey {
	var k CodenameKey
	copy(k.b[:], b)

	return k
}

// Bytes returns the raw key bytes. The returned slice aliases the key's
// internal storage; callers must not retain it past a call to Zero.
func (k *CodenameKey) Bytes() []byte {
	return k.b[:]
}

// Equal reports whether two keys hold the same bytes, in constant time.
func (k CodenameKey) Equal(other CodenameKey) bool {
	return subtle.ConstantTimeCompare(k.b[:], other.b[:]) == 1
}

// Zero overwrites the key material. Call this when a CodenameKey is no
// longer needed; it exists only in memory for the duration of one request.
func (k *CodenameKey) Zero() {
	for i := range k.b {
		k.b[i] = 0
	}
}

// ValidateCodename checks that codename is a legal Codename per spec §3:
// length 1..CodenameLength, no NUL byte. Shared by EncodeCodename and by
// internal/kdf's callers, which must run the same validation without going
// through EncodeCodename's randomized block.
func ValidateCodename(codename string) error {
	if len(codename) == 0 {
		return ErrCodenameEmpty
	}

	if bytes.IndexByte([]byte(codename), 0) >= 0 {
		return ErrCodenameHasNul
	}

	if len(codename) > CodenameLength {
		return ErrCodenameTooLong
	}

	return nil
}

// EncodeCodename serializes an ASCII codename (length 1..CodenameLength, no
// NUL) to a fixed CodenameLength-byte block: the string, a NUL terminator,
// then uniform random padding. A codename that fills the block exactly
// (length == CodenameLength) has no terminator or padding at all - the
// block is the raw string, matching the reference encoder.
//
// This is the Codename type's own wire encoding (spec §3, invariant 10); it
// is not what gets fed into the KDF, since its padding is randomized on
// every call and the KDF input must be reproducible. See
// internal/kdf.Derive for the deterministic KDF input.
func EncodeCodename(codename string) ([]byte, error) {
	if err := ValidateCodename(codename); err != nil {
		return nil, err
	}

	out := make([]byte, CodenameLength)
	n := copy(out, codename)

	if n < CodenameLength {
		out[n] = 0

		if n+1 < CodenameLength {
			copy(out[n+1:], randomBytes(CodenameLength-n-1))
		}
	}

	return out, nil
}

// DecodeCodename returns the string prefix of a CodenameLength-byte block,
// up to the first NUL.
func DecodeCodename(b []byte) string {
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		return string(b[:idx])
	}

	return string(b)
}
