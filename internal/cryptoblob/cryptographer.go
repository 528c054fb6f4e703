package cryptoblob

import "golang.org/x/crypto/chacha20"

// Cryptographer is a ChaCha20 stream bound to a CodenameKey and a 12-byte
// nonce. It has one operation, applied sequentially: XOR the next bytes of
// the keystream into a buffer. Encryption and decryption are the same
// operation; decrypt MUST consume byte-ranges in the same order they were
// written.
type Cryptographer struct {
	cipher *chacha20.Cipher
}

// NewCryptographer opens a ChaCha20 stream for key and nonce.
func NewCryptographer(key CodenameKey, nonce [nonceLen]byte) *Cryptographer {
	c, err := chacha20.NewUnauthenticatedCipher(key.Bytes(), nonce[:])
	if err != nil {
		// Only returns an error for bad key/nonce lengths, which are fixed
		// constants here.
		panic("cryptoblob: chacha20.NewUnauthenticatedCipher: " + err.Error())
	}

	return &Cryptographer{cipher: c}
}

// XOR consumes len(buf) bytes of keystream and returns a new slice with
// buf XORed against it. The cipher's internal position advances by
// len(buf); subsequent calls continue where the previous one left off.
func (c *Cryptographer) XOR(buf []byte) []byte {
	out := make([]byte, len(buf))
	c.cipher.XORKeyStream(out, buf)

	return out
}
