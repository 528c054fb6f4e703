// Package secure provides the non-cryptographic-protocol plumbing a
// container needs: random byte generation, best-effort file shredding, and
// timestamp randomization so a deleted container leaves as little trace as
// practical on the host filesystem.
package secure

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"time"
)

// RandomBytes returns n bytes read from the system's cryptographic RNG.
// Panics only if the RNG itself is unavailable, matching crypto/rand's own
// documented failure contract - not a runtime-reachable condition on any
// supported platform.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("secure: system RNG unavailable: %v", err))
	}

	return b
}

// shredPasses is the number of random-data overwrite passes ShredFile
// performs before removing a file. Three passes, matching the
// belt-and-suspenders posture of the surrounding fault-tolerant file layer;
// this does not defeat a forensic recovery of a copy-on-write or
// wear-leveled filesystem, only in-place overwrite on conventional media.
const shredPasses = 3

// ShredFile overwrites path with shredPasses passes of random data, syncing
// after each pass, then removes it. If path does not exist, ShredFile
// returns nil.
func ShredFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("secure: opening %q for shredding: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("secure: stat %q: %w", path, err)
	}

	size := info.Size()

	for pass := 0; pass < shredPasses; pass++ {
		if _, err := f.WriteAt(RandomBytes(int(size)), 0); err != nil {
			return fmt.Errorf("secure: shred pass %d on %q: %w", pass, path, err)
		}

		if err := f.Sync(); err != nil {
			return fmt.Errorf("secure: sync shred pass %d on %q: %w", pass, path, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("secure: closing %q after shredding: %w", path, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("secure: removing shredded %q: %w", path, err)
	}

	return nil
}

// randomDuration is the window SetRandomLastModified draws within: up to
// roughly 2 years in the past.
const randomDuration = 2 * 365 * 24 * time.Hour

// SetRandomLastModified sets path's atime and mtime to a uniformly random
// instant within the last two years, so a freshly written container file
// does not stand out by timestamp alone among older, unrelated files.
func SetRandomLastModified(path string) error {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(randomDuration)))
	if err != nil {
		return fmt.Errorf("secure: drawing random offset: %w", err)
	}

	t := time.Now().Add(-time.Duration(n.Int64()))

	if err := os.Chtimes(path, t, t); err != nil {
		return fmt.Errorf("secure: setting random mtime on %q: %w", path, err)
	}

	return nil
}
