package cryptoblob

import (
	"errors"
	"fmt"
	"io"
)

// SequentialWriter writes fixed-size clusters to a stream, followed by
// exactly one random tail. Mirrors the append-only discipline of the
// container: once the tail is written, no further cluster may follow.
type SequentialWriter struct {
	w           io.Writer
	clusterSize int
	tailWritten bool
}

// NewSequentialWriter returns a writer that enforces clusterSize-byte
// clusters on w.
func NewSequentialWriter(w io.Writer, clusterSize int) *SequentialWriter {
	return &SequentialWriter{w: w, clusterSize: clusterSize}
}

var errTailAlreadyWritten = errors.New("cryptoblob: tail already written")

// WriteCluster writes exactly one cluster. buf must be clusterSize bytes.
func (s *SequentialWriter) WriteCluster(buf []byte) error {
	if s.tailWritten {
		return errTailAlreadyWritten
	}

	if len(buf) != s.clusterSize {
		return fmt.Errorf("cryptoblob: cluster must be %d bytes, got %d", s.clusterSize, len(buf))
	}

	_, err := s.w.Write(buf)

	return err
}

// WriteTail writes a uniform-random tail of 1..clusterSize-1 bytes, so the
// total container size is never a clean multiple of clusterSize. May be
// called exactly once.
func (s *SequentialWriter) WriteTail() error {
	if s.tailWritten {
		return errTailAlreadyWritten
	}

	n := 1 + int(randomUint32()%uint32(s.clusterSize-1))

	_, err := s.w.Write(randomBytes(n))
	s.tailWritten = true

	return err
}

func randomUint32() uint32 {
	b := randomBytes(4)

	return bytesToUint32(b)
}

// IndexedReader scans the cluster region of a container: a run of
// equal-size clusters starting at some offset into an io.ReaderAt (which
// may follow a preceding salt region), followed by a random tail. It never
// decrypts anything; it is cheap to construct and to rescan.
type IndexedReader struct {
	ra          io.ReaderAt
	start       int64
	clusterSize int64
	count       int64
	tailSize    int64
}

// NewIndexedReader scans ra starting at startOffset, given the stream's
// total size and the container's cluster size.
func NewIndexedReader(ra io.ReaderAt, startOffset, totalSize int64, clusterSize int) (*IndexedReader, error) {
	if clusterSize <= 0 {
		return nil, fmt.Errorf("cryptoblob: invalid cluster size %d", clusterSize)
	}

	remaining := totalSize - startOffset
	if remaining < 0 {
		return nil, fmt.Errorf("cryptoblob: start offset %d beyond stream size %d", startOffset, totalSize)
	}

	count := remaining / int64(clusterSize)
	tail := remaining - count*int64(clusterSize)

	return &IndexedReader{
		ra:          ra,
		start:       startOffset,
		clusterSize: int64(clusterSize),
		count:       count,
		tailSize:    tail,
	}, nil
}

// Len returns the number of clusters in the stream.
func (r *IndexedReader) Len() int64 {
	return r.count
}

// TailSize returns the size of the random tail following the last cluster.
func (r *IndexedReader) TailSize() int64 {
	return r.tailSize
}

// Cluster returns an independent, windowed view of the i-th cluster: a
// SectionReader whose offset 0 is the first byte of that cluster and whose
// size is exactly the container's cluster size.
func (r *IndexedReader) Cluster(i int64) (*io.SectionReader, error) {
	if i < 0 || i >= r.count {
		return nil, fmt.Errorf("cryptoblob: cluster index %d out of range [0, %d)", i, r.count)
	}

	return io.NewSectionReader(r.ra, r.start+i*r.clusterSize, r.clusterSize), nil
}

// ClusterSeq is the iterator type returned by All: index, then a windowed
// view of that cluster, in index order.
type ClusterSeq func(yield func(int64, *io.SectionReader) bool)

// All iterates every cluster in index order.
func (r *IndexedReader) All() ClusterSeq {
	return func(yield func(int64, *io.SectionReader) bool) {
		for i := int64(0); i < r.count; i++ {
			view, err := r.Cluster(i)
			if err != nil {
				return
			}

			if !yield(i, view) {
				return
			}
		}
	}
}
