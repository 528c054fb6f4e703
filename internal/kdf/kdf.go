// Package kdf derives per-codename encryption keys from a codename and the
// container's salt via scrypt.
package kdf

import (
	"fmt"

	"golang.org/x/crypto/scrypt"

	"github.com/calvinalkan/denstore/internal/cryptoblob"
)

// Params tunes the scrypt cost. N must be a power of two greater than 1; R
// and P are scrypt's block size and parallelization factor.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams is the production cost: seconds-class on commodity
// hardware, in line with scrypt's own recommended interactive parameters.
var DefaultParams = Params{N: 1 << 15, R: 8, P: 1}

// Derive computes the 256-bit CodenameKey for codename under salt, using
// params. codename must be a deterministic encoding of the Codename - the
// bare validated codename bytes, not cryptoblob.EncodeCodename's output,
// whose padding is randomized on every call and would make the derived key
// different on every call for the same (codename, salt). Callers validate
// codename with cryptoblob.ValidateCodename before calling Derive.
func Derive(codename []byte, salt []byte, params Params) (cryptoblob.CodenameKey, error) {
	key, err := scrypt.Key(codename, salt, params.N, params.R, params.P, 32)
	if err != nil {
		return cryptoblob.CodenameKey{}, fmt.Errorf("kdf: scrypt: %w", err)
	}

	return cryptoblob.NewCodenameKey(key), nil
}
