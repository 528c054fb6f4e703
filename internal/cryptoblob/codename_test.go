package cryptoblob

import (
	"errors"
	"strings"
	"testing"
)

func Test_EncodeCodename_RoundTrips_When_Given_ValidCodename(t *testing.T) {
	t.Parallel()

	names := []string{"a", "secret", strings.Repeat("x", CodenameLength-1), strings.Repeat("x", CodenameLength)}

	for _, name := range names {
		enc, err := EncodeCodename(name)
		if err != nil {
			t.Fatalf("EncodeCodename(%q): %v", name, err)
		}

		if len(enc) != CodenameLength {
			t.Fatalf("encoded length = %d, want %d", len(enc), CodenameLength)
		}

		if got := DecodeCodename(enc); got != name {
			t.Errorf("DecodeCodename = %q, want %q", got, name)
		}
	}
}

func Test_EncodeCodename_ProducesDistinctPadding_When_CalledTwice(t *testing.T) {
	t.Parallel()

	a, err := EncodeCodename("short")
	if err != nil {
		t.Fatal(err)
	}

	b, err := EncodeCodename("short")
	if err != nil {
		t.Fatal(err)
	}

	if string(a) == string(b) {
		t.Error("two encodings of the same codename must not be byte-identical (random padding)")
	}
}

func Test_EncodeCodename_Fails_When_Empty(t *testing.T) {
	t.Parallel()

	_, err := EncodeCodename("")
	if !errors.Is(err, ErrCodenameEmpty) {
		t.Errorf("err = %v, want ErrCodenameEmpty", err)
	}
}

func Test_EncodeCodename_Fails_When_TooLong(t *testing.T) {
	t.Parallel()

	_, err := EncodeCodename(strings.Repeat("x", CodenameLength+1))
	if !errors.Is(err, ErrCodenameTooLong) {
		t.Errorf("err = %v, want ErrCodenameTooLong", err)
	}
}

func Test_EncodeCodename_HasNoTerminator_When_CodenameFillsBlockExactly(t *testing.T) {
	t.Parallel()

	name := strings.Repeat("x", CodenameLength)

	enc, err := EncodeCodename(name)
	if err != nil {
		t.Fatal(err)
	}

	if string(enc) != name {
		t.Fatalf("encoded = %q, want raw string %q with no terminator", enc, name)
	}

	if got := DecodeCodename(enc); got != name {
		t.Errorf("DecodeCodename = %q, want %q", got, name)
	}
}

func Test_EncodeCodename_Fails_When_ContainsNul(t *testing.T) {
	t.Parallel()

	_, err := EncodeCodename("bad\x00name")
	if !errors.Is(err, ErrCodenameHasNul) {
		t.Errorf("err = %v, want ErrCodenameHasNul", err)
	}
}

func Test_CodenameKey_Equal_ComparesContents_When_Called(t *testing.T) {
	t.Parallel()

	a := NewCodenameKey(randomBytes(32))
	b := NewCodenameKey(append([]byte(nil), a.Bytes()...))
	c := NewCodenameKey(randomBytes(32))

	if !a.Equal(b) {
		t.Error("expected equal keys to compare equal")
	}

	if a.Equal(c) {
		t.Error("expected distinct random keys to compare unequal")
	}
}

func Test_CodenameKey_Zero_ClearsBytes_When_Called(t *testing.T) {
	t.Parallel()

	k := NewCodenameKey(randomBytes(32))
	k.Zero()

	for _, b := range k.Bytes() {
		if b != 0 {
			t.Fatal("expected all-zero key after Zero()")
		}
	}
}
