// Package vault implements the container: the on-disk file holding a salt
// region and a shuffled stream of real and decoy clusters, plus the
// exclusive-lock, atomic-replace, and KDF glue that together expose the
// open/get/set/delete operations over it.
package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/denstore/internal/config"
	"github.com/calvinalkan/denstore/internal/cryptoblob"
	"github.com/calvinalkan/denstore/internal/fs"
	"github.com/calvinalkan/denstore/internal/kdf"
	"github.com/calvinalkan/denstore/internal/secure"
)

// lockTimeout is the default time Set/Delete will wait for the exclusive
// container lock before giving up.
const lockTimeout = 5 * time.Second

// initialMinDecoys/initialMaxDecoys bound the number of decoy clusters a
// freshly created container starts with, so an empty container is not
// observably distinct in structure (zero clusters) from a populated one.
const (
	initialMinDecoys = 2
	initialMaxDecoys = 6
)

// Container binds a container file's path, its salt, and the locking and
// logging plumbing needed to serve Set/Get/Delete.
type Container struct {
	path        string
	clusterSize int
	kdfParams   kdf.Params
	salt        []byte
	locker      *fs.Locker
	log         *slog.Logger
}

// Open opens the container at path, creating it (with a fresh salt and a
// randomized initial decoy count) if it does not already exist. cfg
// supplies the cluster size and KDF cost, for a new and an existing
// container alike. Only the salt is read back from an existing file; its
// cluster size and KDF cost are not stored in the file and are not checked
// against the values it was created with.
func Open(path string, cfg config.Config) (*Container, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("container", path)

	real := fs.NewReal()

	exists, err := real.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("vault: checking %q: %w", path, err)
	}

	clusterSize := cfg.ClusterSize
	if clusterSize == 0 {
		clusterSize = cryptoblob.DefaultClusterSize
	}

	c := &Container{
		path:        path,
		clusterSize: clusterSize,
		kdfParams:   cfg.KDFParams(),
		locker:      fs.NewLocker(real),
		log:         logger,
	}

	if !exists {
		logger.Info("creating new container")

		if err := c.create(); err != nil {
			return nil, err
		}

		return c, nil
	}

	logger.Info("opening existing container")

	salt, err := ReadSalt(path)
	if err != nil {
		return nil, err
	}

	c.salt = salt

	return c, nil
}

// ReadSalt reads and validates the salt region of the container file at
// path, without touching the cluster stream.
func ReadSalt(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("vault: opening %q: %w", path, err)
	}
	defer f.Close()

	region := make([]byte, saltRegionSize)
	if _, err := io.ReadFull(f, region); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSalt, err)
	}

	return decodeSaltRegion(region)
}

// create writes a brand-new container: salt region, a randomized count of
// decoy clusters under unrelated random keys, and a random tail.
func (c *Container) create() error {
	region := newSaltRegion()

	salt, err := decodeSaltRegion(region)
	if err != nil {
		return err
	}

	c.salt = salt

	var buf bytes.Buffer

	buf.Write(region)

	w := cryptoblob.NewSequentialWriter(&buf, c.clusterSize)

	span := initialMaxDecoys - initialMinDecoys + 1
	decoyCount := initialMinDecoys + int(secure.RandomBytes(1)[0])%span

	for i := 0; i < decoyCount; i++ {
		key := cryptoblob.NewCodenameKey(secure.RandomBytes(32))

		cluster, err := cryptoblob.EncodeCluster(cryptoblob.EncodeParams{
			Key:         key,
			DataVersion: cryptoblob.FakeContentVersion,
			Last:        true,
			TargetSize:  c.clusterSize,
		})
		if err != nil {
			return fmt.Errorf("vault: encoding initial decoy: %w", err)
		}

		if err := w.WriteCluster(cluster); err != nil {
			return fmt.Errorf("vault: writing initial decoy: %w", err)
		}
	}

	if err := w.WriteTail(); err != nil {
		return fmt.Errorf("vault: writing initial tail: %w", err)
	}

	if err := atomic.WriteFile(c.path, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("vault: creating container file: %w", err)
	}

	if err := secure.SetRandomLastModified(c.path); err != nil {
		return fmt.Errorf("vault: randomizing mtime: %w", err)
	}

	return nil
}

// deriveKey derives the per-codename key for name under this container's
// salt and KDF cost. It derives from the bare, validated codename bytes
// rather than cryptoblob.EncodeCodename's output: that encoding pads with
// fresh random bytes on every call, which would make Set and a later Get
// for the same codename derive different keys.
func (c *Container) deriveKey(codename string) (cryptoblob.CodenameKey, error) {
	if err := cryptoblob.ValidateCodename(codename); err != nil {
		return cryptoblob.CodenameKey{}, err
	}

	return kdf.Derive([]byte(codename), c.salt, c.kdfParams)
}

// clusterReader opens the container file and returns an IndexedReader over
// its cluster region (the salt region is skipped).
func (c *Container) clusterReader() (*os.File, *cryptoblob.IndexedReader, error) {
	f, err := os.Open(c.path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, nil, fmt.Errorf("vault: opening %q: %w", c.path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, nil, fmt.Errorf("vault: stat %q: %w", c.path, err)
	}

	reader, err := cryptoblob.NewIndexedReader(f, int64(saltRegionSize), info.Size(), c.clusterSize)
	if err != nil {
		f.Close()

		return nil, nil, fmt.Errorf("vault: indexing %q: %w", c.path, err)
	}

	return f, reader, nil
}

// Get returns the current value stored under codename. ok is false if no
// name-group with fresh content exists for codename - whether because it
// was never set or was deleted. Get takes no lock: it tolerates running
// concurrently with a writer, per the container's concurrency model.
func (c *Container) Get(codename string) ([]byte, bool, error) {
	key, err := c.deriveKey(codename)
	if err != nil {
		return nil, false, err
	}

	f, reader, err := c.clusterReader()
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	matches, err := cryptoblob.Locate(key, reader)
	if err != nil {
		return nil, false, err
	}

	if err := cryptoblob.CheckNoCollision(matches); err != nil {
		return nil, false, err
	}

	fresh, err := cryptoblob.FreshContent(matches)
	if err != nil {
		if errors.Is(err, cryptoblob.ErrNoFreshContent) {
			return nil, false, nil
		}

		return nil, false, err
	}

	value, err := cryptoblob.ReadValue(fresh)
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// Set stores data under codename, creating a fresh data_version and a
// freshly randomized decoy count for its name-group. Holds the exclusive
// container lock for the whole rewrite.
func (c *Container) Set(codename string, data []byte) error {
	return c.update(codename, data, false)
}

// Delete removes the value stored under codename: subsequent Get calls
// observe no fresh content, while leaving a fresh decoy set in its place so
// the name-group remains indistinguishable from one that was never used.
func (c *Container) Delete(codename string) error {
	return c.update(codename, nil, true)
}

func (c *Container) update(codename string, data []byte, del bool) error {
	key, err := c.deriveKey(codename)
	if err != nil {
		return err
	}

	lock, err := c.locker.LockWithTimeout(c.path+".lock", lockTimeout)
	if err != nil {
		if errors.Is(err, fs.ErrWouldBlock) {
			return fmt.Errorf("%w: %w", ErrLockTimeout, err)
		}

		return fmt.Errorf("vault: acquiring lock: %w", err)
	}
	defer lock.Close()

	// Never log the codename or anything derived from it: doing so would
	// undermine the whole point of plausible deniability.
	c.log.Info("update start", "delete", del)

	f, reader, err := c.clusterReader()
	if err != nil {
		return err
	}
	defer f.Close()

	var out bytes.Buffer

	out.Write(encodeSaltRegion(c.salt))

	w := cryptoblob.NewSequentialWriter(&out, c.clusterSize)

	if err := cryptoblob.Update(w, cryptoblob.UpdateParams{
		Key:         key,
		Prior:       reader,
		Plaintext:   data,
		Delete:      del,
		ClusterSize: c.clusterSize,
	}); err != nil {
		return fmt.Errorf("vault: update: %w", err)
	}

	f.Close()

	if err := atomic.WriteFile(c.path, bytes.NewReader(out.Bytes())); err != nil {
		return fmt.Errorf("vault: committing update: %w", err)
	}

	if err := secure.SetRandomLastModified(c.path); err != nil {
		return fmt.Errorf("vault: randomizing mtime: %w", err)
	}

	c.log.Info("update commit")

	return nil
}
