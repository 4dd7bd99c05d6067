// Package wire decodes the fixed-schema binary payloads returned by the
// object ledger's read-only calls. All readers are pure functions over byte
// slices; declared lengths are never trusted without re-validating against
// the actual buffer size.
package wire

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

const (
	addressLen = 32
	hashLen    = 32

	// maxVarintBytes bounds a 64-bit unsigned varint (7 bits per byte)
	maxVarintBytes = 10
)

// Reader is a bounds-checked cursor over a binary payload
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a reader positioned at the start of buf
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset returns the current cursor position
func (r *Reader) Offset() int {
	return r.off
}

// errTruncated builds a decode error for an out-of-bounds read
func (r *Reader) errTruncated(field string, need int) error {
	return fmt.Errorf("%w: need %d bytes for %s at offset %d, have %d",
		domain.ErrMalformedPayload, need, field, r.off, r.Remaining())
}

// take consumes n bytes or fails without advancing
func (r *Reader) take(field string, n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, r.errTruncated(field, n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadUvarint reads an unsigned variable-length integer: 7 bits per byte,
// least-significant group first, high bit set on continuation bytes.
func (r *Reader) ReadUvarint(field string) (uint64, error) {
	var value uint64
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.take(field, 1)
		if err != nil {
			return 0, err
		}
		group := uint64(b[0] & 0x7f)
		if shift >= 64 || (shift == 63 && group > 1) {
			return 0, fmt.Errorf("%w: varint overflow for %s at offset %d",
				domain.ErrMalformedPayload, field, r.off)
		}
		value |= group << shift
		if b[0]&0x80 == 0 {
			return value, nil
		}
		shift += 7
	}
	return 0, fmt.Errorf("%w: varint for %s exceeds %d bytes",
		domain.ErrMalformedPayload, field, maxVarintBytes)
}

// ReadU64 reads a little-endian uint64
func (r *Reader) ReadU64(field string) (uint64, error) {
	b, err := r.take(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU16 reads a little-endian uint16
func (r *Reader) ReadU16(field string) (uint16, error) {
	b, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU8 reads a single byte
func (r *Reader) ReadU8(field string) (uint8, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads a single-byte boolean. A value of 1 is true; any other
// value decodes as false rather than failing, since only truncation is a
// wire fault.
func (r *Reader) ReadBool(field string) (bool, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return false, err
	}
	return b[0] == 1, nil
}

// ReadString reads a uvarint byte-length prefix followed by UTF-8 bytes
func (r *Reader) ReadString(field string) (string, error) {
	length, err := r.ReadUvarint(field + " length")
	if err != nil {
		return "", err
	}
	if length > uint64(r.Remaining()) {
		return "", r.errTruncated(field, int(length)) //nolint:gosec,G115
	}
	b, err := r.take(field, int(length))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadAddress reads a fixed 32-byte principal address rendered as lowercase
// hex with 0x prefix
func (r *Reader) ReadAddress(field string) (string, error) {
	b, err := r.take(field, addressLen)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

// ReadHash reads a fixed 32-byte hash as raw bytes
func (r *Reader) ReadHash(field string) ([32]byte, error) {
	var out [32]byte
	b, err := r.take(field, hashLen)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}
