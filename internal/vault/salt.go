package vault

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/calvinalkan/denstore/internal/secure"
)

// saltMagic identifies a denstore salt region, so ReadSalt can tell a
// denstore container apart from a file that exists but isn't ours.
const saltMagic = "DNK1"

// saltLen is the number of random salt bytes proper (excluding magic and
// CRC32).
const saltLen = 64

// saltRegionSize is the total on-disk size of the salt region: magic(4) +
// salt(64) + crc32(4). The cluster stream begins immediately after it.
const saltRegionSize = len(saltMagic) + saltLen + 4

// newSaltRegion generates a fresh random salt and returns its on-disk
// encoding.
func newSaltRegion() []byte {
	salt := secure.RandomBytes(saltLen)

	return encodeSaltRegion(salt)
}

func encodeSaltRegion(salt []byte) []byte {
	out := make([]byte, 0, saltRegionSize)
	out = append(out, saltMagic...)
	out = append(out, salt...)

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(salt))
	out = append(out, crc[:]...)

	return out
}

// decodeSaltRegion validates and extracts the salt bytes from a
// saltRegionSize-byte buffer. Returns ErrCorruptSalt on any mismatch.
func decodeSaltRegion(region []byte) ([]byte, error) {
	if len(region) != saltRegionSize {
		return nil, fmt.Errorf("%w: short region (%d bytes)", ErrCorruptSalt, len(region))
	}

	if string(region[:len(saltMagic)]) != saltMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSalt)
	}

	salt := region[len(saltMagic) : len(saltMagic)+saltLen]
	wantCRC := binary.BigEndian.Uint32(region[len(saltMagic)+saltLen:])

	if crc32.ChecksumIEEE(salt) != wantCRC {
		return nil, fmt.Errorf("%w: crc32 mismatch", ErrCorruptSalt)
	}

	return append([]byte(nil), salt...), nil
}
