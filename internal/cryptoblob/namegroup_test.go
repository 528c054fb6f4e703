package cryptoblob

import (
	"bytes"
	"errors"
	"testing"
)

func writeClusters(t *testing.T, clusters [][]byte) *IndexedReader {
	t.Helper()

	var buf bytes.Buffer

	for _, c := range clusters {
		buf.Write(c)
	}

	r, err := NewIndexedReader(bytes.NewReader(buf.Bytes()), 0, int64(buf.Len()), DefaultClusterSize)
	if err != nil {
		t.Fatal(err)
	}

	return r
}

func encodeOrFatal(t *testing.T, p EncodeParams) []byte {
	t.Helper()

	c, err := EncodeCluster(p)
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func Test_Locate_FindsOnlyMatchingClusters_When_GroupContainsForeignAndFake(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))
	foreign := NewCodenameKey(randomBytes(32))

	own := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: 1, Last: true, Plaintext: []byte("x"), TargetSize: DefaultClusterSize})
	fake := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: FakeContentVersion, Last: true, TargetSize: DefaultClusterSize})
	other := encodeOrFatal(t, EncodeParams{Key: foreign, DataVersion: 1, Last: true, Plaintext: []byte("y"), TargetSize: DefaultClusterSize})

	reader := writeClusters(t, [][]byte{own, other, fake})

	matches, err := Locate(key, reader)
	if err != nil {
		t.Fatal(err)
	}

	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
}

func Test_CheckNoCollision_ReturnsError_When_ImprintsIdentical(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))

	cluster := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: 1, Last: true, Plaintext: []byte("a"), TargetSize: DefaultClusterSize})

	imprint := cluster[:ImprintLen]

	matches := []Match{
		{Index: 0, ImprintByte: imprint},
		{Index: 1, ImprintByte: append([]byte(nil), imprint...)},
	}

	if err := CheckNoCollision(matches); !errors.Is(err, ErrHashCollision) {
		t.Errorf("err = %v, want ErrHashCollision", err)
	}
}

func Test_CheckNoCollision_Passes_When_ImprintsDistinct(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))

	a := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: 1, Last: true, Plaintext: []byte("a"), TargetSize: DefaultClusterSize})
	b := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: 1, Last: true, Plaintext: []byte("b"), TargetSize: DefaultClusterSize})

	matches := []Match{
		{Index: 0, ImprintByte: a[:ImprintLen]},
		{Index: 1, ImprintByte: b[:ImprintLen]},
	}

	if err := CheckNoCollision(matches); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func Test_FreshContent_SelectsHighestVersion_When_MultipleVersionsPresent(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))

	old := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: 1, Last: true, Plaintext: []byte("old"), TargetSize: DefaultClusterSize})
	fresh := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: 2, Last: true, Plaintext: []byte("fresh"), TargetSize: DefaultClusterSize})

	reader := writeClusters(t, [][]byte{old, fresh})

	matches, err := Locate(key, reader)
	if err != nil {
		t.Fatal(err)
	}

	set, err := FreshContent(matches)
	if err != nil {
		t.Fatal(err)
	}

	if set.Version != 2 {
		t.Fatalf("Version = %d, want 2", set.Version)
	}

	value, err := ReadValue(set)
	if err != nil {
		t.Fatal(err)
	}

	if string(value) != "fresh" {
		t.Fatalf("value = %q, want %q", value, "fresh")
	}
}

func Test_FreshContent_AssemblesMultiplePartsInOrder_When_ValueSpansClusters(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))

	p0 := encodeOrFatal(t, EncodeParams{Key: key, PartIdx: 0, DataVersion: 5, Plaintext: []byte("hello "), TargetSize: DefaultClusterSize})
	p1 := encodeOrFatal(t, EncodeParams{Key: key, PartIdx: 1, Last: true, DataVersion: 5, Plaintext: []byte("world"), TargetSize: DefaultClusterSize})

	reader := writeClusters(t, [][]byte{p1, p0}) // out of order on disk

	matches, err := Locate(key, reader)
	if err != nil {
		t.Fatal(err)
	}

	set, err := FreshContent(matches)
	if err != nil {
		t.Fatal(err)
	}

	value, err := ReadValue(set)
	if err != nil {
		t.Fatal(err)
	}

	if string(value) != "hello world" {
		t.Fatalf("value = %q, want %q", value, "hello world")
	}
}

func Test_FreshContent_ReturnsNoFreshContent_When_OnlyFakeClustersMatch(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))

	fake := encodeOrFatal(t, EncodeParams{Key: key, DataVersion: FakeContentVersion, Last: true, TargetSize: DefaultClusterSize})

	reader := writeClusters(t, [][]byte{fake})

	matches, err := Locate(key, reader)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := FreshContent(matches); !errors.Is(err, ErrNoFreshContent) {
		t.Errorf("err = %v, want ErrNoFreshContent", err)
	}
}

func Test_FreshContent_ReturnsNoFreshContent_When_PartIndicesNotContiguous(t *testing.T) {
	t.Parallel()

	key := NewCodenameKey(randomBytes(32))

	p0 := encodeOrFatal(t, EncodeParams{Key: key, PartIdx: 0, DataVersion: 1, Plaintext: []byte("a"), TargetSize: DefaultClusterSize})
	p2 := encodeOrFatal(t, EncodeParams{Key: key, PartIdx: 2, Last: true, DataVersion: 1, Plaintext: []byte("c"), TargetSize: DefaultClusterSize})

	reader := writeClusters(t, [][]byte{p0, p2})

	matches, err := Locate(key, reader)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := FreshContent(matches); !errors.Is(err, ErrNoFreshContent) {
		t.Errorf("err = %v, want ErrNoFreshContent", err)
	}
}
