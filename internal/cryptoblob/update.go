package cryptoblob

import (
	"bytes"
	"encoding/binary"
	mrand "math/rand"
)

// UpdateParams configures Update.
type UpdateParams struct {
	Key CodenameKey

	// Prior is the existing container's cluster region, or nil for an
	// empty container.
	Prior *IndexedReader

	// Plaintext is the new value. A nil or empty Plaintext stores an empty
	// value (one zero-length part); it does not delete.
	Plaintext []byte

	// Delete, when true, writes zero real parts regardless of Plaintext:
	// only decoys are written under Key.
	Delete bool

	ClusterSize int

	// MinDecoys/MaxDecoys bound the randomized decoy count (inclusive).
	// Defaults (0, 0) select the package default range [1, 8].
	MinDecoys, MaxDecoys int
}

// Update rewrites a name-group: every cluster not matching Key is carried
// over byte-for-byte, P new real clusters encode the new value under a
// fresh data_version, a randomized number of decoys are appended under Key,
// and the whole list is uniformly shuffled before being written to w
// followed by the tail. This is the only way a value is ever changed;
// there is no in-place mutation.
func Update(w *SequentialWriter, p UpdateParams) error {
	var priorMatches []Match

	var carryOver [][]byte

	if p.Prior != nil {
		for i, view := range p.Prior.All() {
			raw := make([]byte, p.ClusterSize)
			if _, err := view.ReadAt(raw, 0); err != nil {
				continue
			}

			if Matches(p.Key, raw) {
				dec, err := OpenCluster(p.Key, bytes.NewReader(raw))
				if err != nil {
					continue
				}

				priorMatches = append(priorMatches, Match{Index: i, ImprintByte: raw[:ImprintLen], Decoder: dec})
			} else {
				carryOver = append(carryOver, raw)
			}
		}
	}

	if err := CheckNoCollision(priorMatches); err != nil {
		return err
	}

	newVersion, err := nextVersion(priorMatches)
	if err != nil {
		return err
	}

	var parts [][]byte

	if !p.Delete {
		// splitParts returns a single zero-length part for empty input, so
		// an explicit empty value is still observably "present" on a
		// subsequent Get, distinct from a deleted/absent name.
		parts = splitParts(p.Plaintext, MaxClusterContentSize(p.ClusterSize))
	}

	newClusters := make([][]byte, 0, len(parts)+len(carryOver)+8)
	newClusters = append(newClusters, carryOver...)

	for i, part := range parts {
		cluster, err := EncodeCluster(EncodeParams{
			Key:         p.Key,
			PartIdx:     uint16(i),
			Last:        i == len(parts)-1,
			DataVersion: newVersion,
			Plaintext:   part,
			TargetSize:  p.ClusterSize,
		})
		if err != nil {
			return err
		}

		newClusters = append(newClusters, cluster)
	}

	decoyCount := randomDecoyCount(p.MinDecoys, p.MaxDecoys)
	for i := 0; i < decoyCount; i++ {
		cluster, err := EncodeCluster(EncodeParams{
			Key:         p.Key,
			PartIdx:     0,
			Last:        true,
			DataVersion: FakeContentVersion,
			Plaintext:   nil,
			TargetSize:  p.ClusterSize,
		})
		if err != nil {
			return err
		}

		newClusters = append(newClusters, cluster)
	}

	shuffle(newClusters)

	for _, c := range newClusters {
		if err := w.WriteCluster(c); err != nil {
			return err
		}
	}

	return w.WriteTail()
}

// nextVersion returns one more than the highest data_version currently held
// by key's real (non-fake) clusters, or 0 if there are none. Fails with
// ErrVersionExhausted if the counter would reach FakeContentVersion.
func nextVersion(matches []Match) (uint32, error) {
	var maxVersion uint32

	var any bool

	for _, m := range matches {
		h, err := m.Decoder.Header()
		if err != nil || h.IsFake() {
			continue
		}

		any = true

		if h.DataVersion > maxVersion {
			maxVersion = h.DataVersion
		}
	}

	if !any {
		return 0, nil
	}

	if maxVersion == FakeContentVersion-1 {
		return 0, ErrVersionExhausted
	}

	return maxVersion + 1, nil
}

// splitParts splits data into chunks of at most maxSize bytes. Returns a
// single zero-length part for empty input (deletion is handled by the
// caller, which skips splitParts entirely).
func splitParts(data []byte, maxSize int) [][]byte {
	if len(data) == 0 {
		return [][]byte{{}}
	}

	var parts [][]byte

	for off := 0; off < len(data); off += maxSize {
		end := off + maxSize
		if end > len(data) {
			end = len(data)
		}

		parts = append(parts, data[off:end])
	}

	return parts
}

// randomDecoyCount draws a decoy count from [min, max] (inclusive),
// defaulting to [1, 8] when both bounds are zero. The count is drawn from
// one crypto/rand byte (via randomBytes) reduced modulo the span.
func randomDecoyCount(minDecoys, maxDecoys int) int {
	if minDecoys <= 0 && maxDecoys <= 0 {
		minDecoys, maxDecoys = 1, 8
	}

	if maxDecoys <= minDecoys {
		return minDecoys
	}

	span := maxDecoys - minDecoys + 1

	return minDecoys + int(randomBytes(1)[0])%span
}

// shuffle performs a uniform Fisher-Yates shuffle seeded from the system
// RNG. Shuffling (rather than a deterministic append order) destroys
// positional correlation between successive updates of the same
// name-group - spec §4.H step 4 / §9.
func shuffle(clusters [][]byte) {
	var seedBytes [8]byte
	copy(seedBytes[:], randomBytes(8))

	seed := int64(binary.BigEndian.Uint64(seedBytes[:]))
	r := mrand.New(mrand.NewSource(seed)) //nolint:gosec // shuffle order need not be cryptographically unpredictable, only unbiased and unpredictable to a passive observer; the seed itself is crypto-random.

	r.Shuffle(len(clusters), func(i, j int) {
		clusters[i], clusters[j] = clusters[j], clusters[i]
	})
}
