package vault

import "errors"

var (
	// ErrCorruptSalt means the salt region's magic or CRC32 did not verify.
	// The container file exists but is not a valid denstore container.
	ErrCorruptSalt = errors.New("vault: corrupt salt region")

	// ErrLockTimeout means the exclusive container lock could not be
	// acquired within the configured timeout. Grounded on the teacher's
	// errLockTimeout.
	ErrLockTimeout = errors.New("vault: lock timeout")
)
