package cryptoblob

import (
	"crypto/subtle"
	"hash/crc32"
	"io"

	"golang.org/x/crypto/blake2s"
)

// EncodeParams configures EncodeCluster.
type EncodeParams struct {
	Key CodenameKey

	// PartIdx is the 0-based index of this part within its value.
	PartIdx uint16

	// Last marks this as the final part of its value (part_idx == P-1).
	Last bool

	// DataVersion is the monotonic version of the value this part belongs
	// to. Use FakeContentVersion to encode a decoy.
	DataVersion uint32

	// Plaintext is the part payload. nil for a decoy cluster.
	Plaintext []byte

	// TargetSize is the exact output cluster size.
	TargetSize int
}

// EncodeCluster encrypts one cluster carrying one part of a named value (or
// a decoy, when Plaintext is nil and DataVersion is FakeContentVersion).
// The returned slice is exactly TargetSize bytes.
func EncodeCluster(p EncodeParams) ([]byte, error) {
	if p.TargetSize <= ClusterMetaSize || p.TargetSize > MaxClusterSize {
		return nil, ErrClusterTooSmall
	}

	isFake := p.Plaintext == nil

	maxContent := MaxClusterContentSize(p.TargetSize)
	if !isFake && len(p.Plaintext) > maxContent {
		return nil, ErrInsufficientData
	}

	imprint := NewImprint(p.Key)
	crypt := NewCryptographer(p.Key, imprint.Nonce())

	var bodyCRC uint32
	var partSize uint16

	if isFake {
		// Random bytes discarded to 4 - indistinguishable from a real CRC.
		bodyCRC = bytesToUint32(randomBytes(4))
		partSize = 0
	} else {
		bodyCRC = crc32.ChecksumIEEE(p.Plaintext)
		partSize = uint16(len(p.Plaintext))
	}

	sizeAndLast := setHighBit16(partSize, p.Last)

	headerBody := make([]byte, 0, headerBodyLen)
	headerBody = append(headerBody, uint32ToBytes(bodyCRC)...)
	headerBody = append(headerBody, uint16ToBytes(p.PartIdx)...)
	headerBody = append(headerBody, uint16ToBytes(sizeAndLast)...)
	headerBody = append(headerBody, uint32ToBytes(p.DataVersion)...)

	out := make([]byte, 0, p.TargetSize)
	out = append(out, imprint.Bytes()...)
	out = append(out, crypt.XOR(headerBody)...)
	out = append(out, crypt.XOR(headerMAC(p.Key, headerBody))...)

	if !isFake {
		out = append(out, crypt.XOR(p.Plaintext)...)
	}

	padding := p.TargetSize - len(out)
	if padding > 0 {
		// Padding is uniform random and NOT encrypted - it is already
		// indistinguishable from the stream cipher's own output.
		out = append(out, randomBytes(padding)...)
	}

	return out, nil
}

// headerMAC computes the BLAKE2s-128 MAC over a plaintext header, keyed
// with the cluster's CodenameKey.
func headerMAC(key CodenameKey, headerBody []byte) []byte {
	h, err := blake2s.New128(key.Bytes())
	if err != nil {
		panic("cryptoblob: blake2s.New128: " + err.Error())
	}

	h.Write(headerBody)

	return h.Sum(nil)
}

// clusterStage is the lazy decode state machine: Opened -> ImprintChecked
// -> HeaderDecoded -> BodyRead. Each transition is one method; calling a
// method out of order is a programmer error.
type clusterStage int

const (
	stageOpened clusterStage = iota
	stageImprintChecked
	stageHeaderDecoded
	stageBodyRead
)

// ClusterDecoder lazily decrypts one cluster: the imprint is read and
// checked first, the header is decoded on demand, and the body is read
// exactly once on demand. See spec §9 on the Opened/ImprintChecked/
// HeaderDecoded/BodyRead state machine.
type ClusterDecoder struct {
	key   CodenameKey
	src   io.Reader
	stage clusterStage

	imprint Imprint
	matched bool
	crypt   *Cryptographer
	header  Header
}

// OpenCluster reads the ImprintLen-byte imprint from src and checks it
// against key. This is the only eager step; header and body decoding are
// lazy. Returns ErrInsufficientData if src has fewer than ImprintLen bytes.
func OpenCluster(key CodenameKey, src io.Reader) (*ClusterDecoder, error) {
	buf := make([]byte, ImprintLen)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, ErrInsufficientData
	}

	imprint, err := ParseImprint(buf)
	if err != nil {
		return nil, err
	}

	d := &ClusterDecoder{
		key:     key,
		src:     src,
		stage:   stageImprintChecked,
		imprint: imprint,
		matched: Matches(key, buf),
	}

	return d, nil
}

// Matched reports whether the cluster's imprint matched the key it was
// opened with.
func (d *ClusterDecoder) Matched() bool {
	return d.matched
}

// Header decodes and returns the cluster's header, verifying the header
// MAC. Returns ErrGroupImprintMismatch if the imprint did not match.
func (d *ClusterDecoder) Header() (Header, error) {
	if !d.matched {
		return Header{}, ErrGroupImprintMismatch
	}

	if d.stage >= stageHeaderDecoded {
		return d.header, nil
	}

	d.crypt = NewCryptographer(d.key, d.imprint.Nonce())

	encHeaderAndMAC := make([]byte, headerBodyLen+headerMACLen)
	if _, err := io.ReadFull(d.src, encHeaderAndMAC); err != nil {
		return Header{}, ErrInsufficientData
	}

	headerBody := d.crypt.XOR(encHeaderAndMAC[:headerBodyLen])
	mac := d.crypt.XOR(encHeaderAndMAC[headerBodyLen:])

	if subtle.ConstantTimeCompare(headerMAC(d.key, headerBody), mac) != 1 {
		return Header{}, ErrHeaderChecksumMismatch
	}

	sizeAndLast := bytesToUint16(headerBody[6:8])

	d.header = Header{
		BodyCRC32:   bytesToUint32(headerBody[0:4]),
		PartIdx:     bytesToUint16(headerBody[4:6]),
		PartSize:    low15Bits(sizeAndLast),
		Last:        highBit16(sizeAndLast),
		DataVersion: bytesToUint32(headerBody[8:12]),
	}
	d.stage = stageHeaderDecoded

	debugPrint("decoded header part_idx=%d version=%d last=%v", d.header.PartIdx, d.header.DataVersion, d.header.Last)

	return d.header, nil
}

// ReadData decrypts and returns the part body, verifying its CRC-32
// against the header's body_crc32. May be called at most once; a second
// call returns ErrDataAlreadyRead.
func (d *ClusterDecoder) ReadData() ([]byte, error) {
	header, err := d.Header()
	if err != nil {
		return nil, err
	}

	if d.stage == stageBodyRead {
		return nil, ErrDataAlreadyRead
	}

	body := make([]byte, header.PartSize)
	if _, err := io.ReadFull(d.src, body); err != nil {
		return nil, ErrInsufficientData
	}

	plain := d.crypt.XOR(body)
	d.stage = stageBodyRead

	if crc32.ChecksumIEEE(plain) != header.BodyCRC32 {
		return nil, ErrBodyChecksumMismatch
	}

	return plain, nil
}
