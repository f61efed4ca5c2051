// Package serialization implements the primitive reader/writer helpers
// shared by the CCP payload and envelope codecs: big-endian fixed-width
// integers, length-determinant-prefixed byte strings, and variable-length
// unsigned integers.
package serialization

import (
	"encoding/binary"
	"io"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/pkg/errors"
)

// maxItems is the number of buffers to keep in the free
// list to use for serialization and deserialization.
const maxItems = 1024

// binaryFreeList provides buffers up to 8 bytes to avoid allocating on
// every integer read or write.
var binaryFreeList = make(chan []byte, maxItems)

// Borrow returns a byte slice from the free list with a length of 8. A new
// buffer is allocated if there are not any available on the free list.
func Borrow() []byte {
	var buf []byte
	select {
	case buf = <-binaryFreeList:
	default:
		buf = make([]byte, 8)
	}
	return buf[:8]
}

// Return puts the provided byte slice back on the free list. The buffer MUST
// have been obtained via the Borrow function and therefore have a cap of 8.
func Return(buf []byte) {
	select {
	case binaryFreeList <- buf:
	default:
		// Let it go to the garbage collector.
	}
}

// Uint8 reads a single byte from the provided reader using a buffer from the
// free list and returns it as a uint8.
func Uint8(r io.Reader) (uint8, error) {
	buf := Borrow()[:1]
	if _, err := io.ReadFull(r, buf); err != nil {
		Return(buf)
		return 0, ccperrors.Wrap(ccperrors.ErrFormat, err, "failed to read uint8")
	}
	rv := buf[0]
	Return(buf)
	return rv, nil
}

// Uint16 reads two bytes from the provided reader using a buffer from the
// free list, converts them from network byte order, and returns the
// resulting uint16.
func Uint16(r io.Reader) (uint16, error) {
	buf := Borrow()[:2]
	if _, err := io.ReadFull(r, buf); err != nil {
		Return(buf)
		return 0, ccperrors.Wrap(ccperrors.ErrFormat, err, "failed to read uint16")
	}
	rv := binary.BigEndian.Uint16(buf)
	Return(buf)
	return rv, nil
}

// Uint32 reads four bytes from the provided reader using a buffer from the
// free list, converts them from network byte order, and returns the
// resulting uint32.
func Uint32(r io.Reader) (uint32, error) {
	buf := Borrow()[:4]
	if _, err := io.ReadFull(r, buf); err != nil {
		Return(buf)
		return 0, ccperrors.Wrap(ccperrors.ErrFormat, err, "failed to read uint32")
	}
	rv := binary.BigEndian.Uint32(buf)
	Return(buf)
	return rv, nil
}

// Uint64 reads eight bytes from the provided reader using a buffer from the
// free list, converts them from network byte order, and returns the
// resulting uint64.
func Uint64(r io.Reader) (uint64, error) {
	buf := Borrow()[:8]
	if _, err := io.ReadFull(r, buf); err != nil {
		Return(buf)
		return 0, ccperrors.Wrap(ccperrors.ErrFormat, err, "failed to read uint64")
	}
	rv := binary.BigEndian.Uint64(buf)
	Return(buf)
	return rv, nil
}

// PutUint8 copies the provided uint8 into a buffer from the free list and
// writes the resulting byte to the given writer.
func PutUint8(w io.Writer, val uint8) error {
	buf := Borrow()[:1]
	buf[0] = val
	_, err := w.Write(buf)
	Return(buf)
	return errors.WithStack(err)
}

// PutUint16 serializes the provided uint16 using a buffer from the free
// list in network byte order and writes the resulting two bytes to the
// given writer.
func PutUint16(w io.Writer, val uint16) error {
	buf := Borrow()[:2]
	binary.BigEndian.PutUint16(buf, val)
	_, err := w.Write(buf)
	Return(buf)
	return errors.WithStack(err)
}

// PutUint32 serializes the provided uint32 using a buffer from the free
// list in network byte order and writes the resulting four bytes to the
// given writer.
func PutUint32(w io.Writer, val uint32) error {
	buf := Borrow()[:4]
	binary.BigEndian.PutUint32(buf, val)
	_, err := w.Write(buf)
	Return(buf)
	return errors.WithStack(err)
}

// PutUint64 serializes the provided uint64 using a buffer from the free
// list in network byte order and writes the resulting eight bytes to the
// given writer.
func PutUint64(w io.Writer, val uint64) error {
	buf := Borrow()[:8]
	binary.BigEndian.PutUint64(buf, val)
	_, err := w.Write(buf)
	Return(buf)
	return errors.WithStack(err)
}

// ReadBytes reads a fixed-length span of exactly n bytes from r.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ccperrors.Wrapf(ccperrors.ErrFormat, err,
			"failed to read %d-byte span", n)
	}
	return buf, nil
}

// WriteBytes writes the given bytes to w with no prefix.
func WriteBytes(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return errors.WithStack(err)
}
