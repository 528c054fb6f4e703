package cryptoblob

import (
	"bytes"
	"sort"
)

// Match is one cluster whose imprint matched a CodenameKey during a
// name-group scan, together with its index in the container and the raw
// imprint bytes (used to detect cross-key hash collisions).
type Match struct {
	Index       int64
	ImprintByte []byte
	Decoder     *ClusterDecoder
}

// Locate scans every cluster in reader, returning those whose imprint
// matches key. Clusters that fail to parse (insufficient data) are simply
// not matches; scanning never aborts on a single bad cluster.
func Locate(key CodenameKey, reader *IndexedReader) ([]Match, error) {
	var matches []Match

	for i, view := range reader.All() {
		dec, err := OpenCluster(key, view)
		if err != nil {
			continue
		}

		if !dec.Matched() {
			continue
		}

		imprintBytes := make([]byte, ImprintLen)
		if _, err := view.ReadAt(imprintBytes, 0); err != nil {
			continue
		}

		matches = append(matches, Match{Index: i, ImprintByte: imprintBytes, Decoder: dec})
	}

	return matches, nil
}

// CheckNoCollision returns ErrHashCollision if any two matches carry
// byte-identical imprints. Since every Encode draws a fresh random nonce,
// this can only happen (with overwhelming improbability) if two distinct
// CodenameKeys produced the same (nonce, tag) pair - spec §3 invariant 1.
func CheckNoCollision(matches []Match) error {
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		key := string(m.ImprintByte)
		if _, ok := seen[key]; ok {
			return ErrHashCollision
		}

		seen[key] = struct{}{}
	}

	return nil
}

// FreshSet is the highest-data_version, structurally valid set of real
// parts in a name-group: part indices form exactly {0..P-1} with exactly
// one part marked Last at index P-1.
type FreshSet struct {
	Version uint32
	Parts   []Match // sorted by part_idx
}

// FreshContent inspects matches (as returned by Locate) and returns the
// fresh set: among clusters whose header data_version is not
// FakeContentVersion, the subset at the highest version, if and only if
// that subset's part indices form a contiguous {0..P-1} run terminated by
// exactly one Last part. Returns ErrNoFreshContent - not a hard error - when
// no such set exists, so a partially-written update is recoverable by a
// subsequent overwrite rather than treated as corruption.
func FreshContent(matches []Match) (*FreshSet, error) {
	type headeredMatch struct {
		Match
		header Header
	}

	var reals []headeredMatch

	for _, m := range matches {
		h, err := m.Decoder.Header()
		if err != nil {
			continue
		}

		if h.IsFake() {
			continue
		}

		reals = append(reals, headeredMatch{Match: m, header: h})
	}

	if len(reals) == 0 {
		return nil, ErrNoFreshContent
	}

	var freshVersion uint32
	for _, r := range reals {
		if r.header.DataVersion > freshVersion {
			freshVersion = r.header.DataVersion
		}
	}

	var fresh []headeredMatch
	for _, r := range reals {
		if r.header.DataVersion == freshVersion {
			fresh = append(fresh, r)
		}
	}

	sort.Slice(fresh, func(i, j int) bool {
		return fresh[i].header.PartIdx < fresh[j].header.PartIdx
	})

	lastCount := 0
	for i, r := range fresh {
		if int(r.header.PartIdx) != i {
			return nil, ErrNoFreshContent
		}

		if r.header.Last {
			lastCount++

			if i != len(fresh)-1 {
				return nil, ErrNoFreshContent
			}
		}
	}

	if lastCount != 1 {
		return nil, ErrNoFreshContent
	}

	out := &FreshSet{Version: freshVersion, Parts: make([]Match, len(fresh))}
	for i, r := range fresh {
		out.Parts[i] = r.Match
	}

	return out, nil
}

// ReadValue decrypts and concatenates every part of a fresh set, in
// part_idx order, verifying each part's body CRC.
func ReadValue(fresh *FreshSet) ([]byte, error) {
	var buf bytes.Buffer

	for _, part := range fresh.Parts {
		data, err := part.Decoder.ReadData()
		if err != nil {
			return nil, err
		}

		buf.Write(data)
	}

	return buf.Bytes(), nil
}
