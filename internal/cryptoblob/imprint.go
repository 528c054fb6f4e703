package cryptoblob

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2s"
)

// Imprint is a (nonce, tag) pair that proves knowledge of a CodenameKey
// without revealing it. The nonce doubles as the stream-cipher nonce for
// the cluster it heads.
type Imprint struct {
	nonce    [nonceLen]byte
	tag      [tagLen]byte
	reserved [reservedLen]byte
}

// NewImprint derives a fresh Imprint for key, drawing a new random nonce
// and reserved bytes from the system RNG.
func NewImprint(key CodenameKey) Imprint {
	var nonce [nonceLen]byte
	copy(nonce[:], randomBytes(nonceLen))

	var reserved [reservedLen]byte
	copy(reserved[:], randomBytes(reservedLen))

	return Imprint{
		nonce:    nonce,
		tag:      tagFor(key, nonce),
		reserved: reserved,
	}
}

// tagFor computes the BLAKE2s-128 tag over (key || nonce), keyed with key.
func tagFor(key CodenameKey, nonce [nonceLen]byte) [tagLen]byte {
	h, err := blake2s.New128(key.Bytes())
	if err != nil {
		panic("cryptoblob: blake2s.New128: " + err.Error())
	}

	h.Write(key.Bytes())
	h.Write(nonce[:])

	var tag [tagLen]byte
	copy(tag[:], h.Sum(nil))

	return tag
}

// Bytes returns the ImprintLen on-disk representation.
func (im Imprint) Bytes() []byte {
	out := make([]byte, 0, ImprintLen)
	out = append(out, im.nonce[:]...)
	out = append(out, im.tag[:]...)
	out = append(out, im.reserved[:]...)

	return out
}

// Nonce returns the imprint's embedded nonce.
func (im Imprint) Nonce() [nonceLen]byte {
	return im.nonce
}

// ParseImprint reads an Imprint from an exactly ImprintLen-byte buffer.
func ParseImprint(b []byte) (Imprint, error) {
	if len(b) != ImprintLen {
		return Imprint{}, ErrInsufficientData
	}

	var im Imprint
	copy(im.nonce[:], b[:nonceLen])
	copy(im.tag[:], b[nonceLen:nonceLen+tagLen])
	copy(im.reserved[:], b[nonceLen+tagLen:])

	return im, nil
}

// Matches reports, in constant time over the tag comparison, whether b
// (an ImprintLen-byte buffer) was produced from key. Returns false - never
// an error - on a short or malformed buffer.
func Matches(key CodenameKey, b []byte) bool {
	im, err := ParseImprint(b)
	if err != nil {
		return false
	}

	want := tagFor(key, im.nonce)

	return subtle.ConstantTimeCompare(want[:], im.tag[:]) == 1
}
