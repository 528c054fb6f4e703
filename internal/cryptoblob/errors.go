package cryptoblob

import "errors"

// Error classification, mirroring spec §7.
//
// Callers MUST classify errors using errors.Is. Cluster-local errors
// encountered during a full-container scan are expected and handled
// per-cluster (skip); errors discovered after a successful imprint match
// are surfaced to the caller of Get.
var (
	// ErrInsufficientData means the stream ended mid-cluster or mid-field.
	// Benign during a name-group scan (the cluster is simply not one of
	// ours); fatal for a single in-progress ReadData call.
	ErrInsufficientData = errors.New("cryptoblob: insufficient data")

	// ErrGroupImprintMismatch means the caller asked for the header of a
	// cluster whose imprint does not match the requested key. Programmer
	// error - callers must check Matched() first.
	ErrGroupImprintMismatch = errors.New("cryptoblob: group imprint mismatch")

	// ErrHeaderChecksumMismatch means the BLAKE2s-128 MAC over the header
	// failed to verify after a successful imprint match. Indicates
	// tampering or corruption.
	ErrHeaderChecksumMismatch = errors.New("cryptoblob: header checksum mismatch")

	// ErrBodyChecksumMismatch means the CRC-32 of the decrypted body did
	// not match the header's body_crc32.
	ErrBodyChecksumMismatch = errors.New("cryptoblob: body checksum mismatch")

	// ErrHashCollision means two distinct CodenameKeys produced an
	// identical imprint. Fatal; the update that discovered it must abort.
	ErrHashCollision = errors.New("cryptoblob: imprint hash collision")

	// ErrVersionExhausted means the monotonic data_version counter for a
	// name-group would reach FakeContentVersion. The caller must rotate
	// the container (start a fresh one with a new salt).
	ErrVersionExhausted = errors.New("cryptoblob: data version exhausted")

	// ErrCodenameTooLong means the codename exceeds CodenameLength bytes.
	ErrCodenameTooLong = errors.New("cryptoblob: codename too long")

	// ErrCodenameHasNul means the codename contains a NUL byte.
	ErrCodenameHasNul = errors.New("cryptoblob: codename contains NUL")

	// ErrCodenameEmpty means the codename is zero-length. spec.md §3
	// requires length 1..24; this is the stricter lower bound.
	ErrCodenameEmpty = errors.New("cryptoblob: codename is empty")

	// ErrDataAlreadyRead means ReadData was called a second time on the
	// same cluster decoder. Contract violation per spec §4.E step 5.
	ErrDataAlreadyRead = errors.New("cryptoblob: cluster data already read")

	// ErrClusterTooSmall means the configured cluster size cannot hold the
	// fixed meta prefix plus at least one byte of content, or exceeds
	// MaxClusterSize.
	ErrClusterTooSmall = errors.New("cryptoblob: cluster size out of range")

	// ErrNoFreshContent means a name-group has no internally consistent
	// highest-version set of parts. Treated as "value missing", not an
	// error, by callers - see FreshSet.
	ErrNoFreshContent = errors.New("cryptoblob: no fresh content")
)
