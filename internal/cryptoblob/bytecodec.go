package cryptoblob

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// uint16ToBytes encodes x as 2 big-endian bytes.
func uint16ToBytes(x uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, x)

	return b
}

// bytesToUint16 decodes the first 2 big-endian bytes. Panics if len(b) < 2; callers
// always pass an exactly-sized slice sliced from a fixed-layout buffer.
func bytesToUint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// uint32ToBytes encodes x as 4 big-endian bytes.
func uint32ToBytes(x uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, x)

	return b
}

func bytesToUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// highBit16 reports whether the high bit of a 16-bit word is set.
func highBit16(x uint16) bool {
	return x&0x8000 != 0
}

// setHighBit16 sets or clears the high bit of a 16-bit word, leaving the
// low 15 bits untouched.
func setHighBit16(x uint16, set bool) uint16 {
	if set {
		return x | 0x8000
	}

	return x &^ 0x8000
}

// low15Bits extracts the low 15 bits of a 16-bit word.
func low15Bits(x uint16) uint16 {
	return x & 0x7FFF
}

// randomBytes returns n bytes read from a cryptographic RNG. Panics only if
// the system RNG itself is unavailable, matching crypto/rand's own
// documented failure contract - this is not a runtime-reachable condition
// on any supported platform.
func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("cryptoblob: system RNG unavailable: %v", err))
	}

	return b
}

// IntroPadding derives a random prefix length from the low bits of a
// random first byte, then generates that many additional random bytes.
// modulus must be a power of two; the returned length is in [0, modulus).
//
// Used to randomize the prefix length of an encrypted stream elsewhere in
// the system. Not used inside a cluster body - cluster padding length is
// fixed by ClusterMetaSize and part_size, never derived this way.
type IntroPadding struct {
	modulus int
}

// NewIntroPadding constructs an IntroPadding for the given modulus, which
// must be a power of two.
func NewIntroPadding(modulus int) IntroPadding {
	if modulus <= 0 || modulus&(modulus-1) != 0 {
		panic("cryptoblob: IntroPadding modulus must be a power of two")
	}

	return IntroPadding{modulus: modulus}
}

// FirstByteToLen maps a random first byte to a padding length in
// [0, modulus).
func (p IntroPadding) FirstByteToLen(firstByte byte) int {
	return int(firstByte) & (p.modulus - 1)
}

// Generate returns the first byte followed by FirstByteToLen(firstByte)
// additional random bytes.
func (p IntroPadding) Generate() []byte {
	first := randomBytes(1)
	length := p.FirstByteToLen(first[0])

	if length == 0 {
		return first
	}

	return append(first, randomBytes(length)...)
}
