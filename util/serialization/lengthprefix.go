package serialization

import (
	"io"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/pkg/errors"
)

// MaxVarBytesLength is the largest length prefix the reader accepts for a
// variable-length byte string. It protects against memory exhaustion and
// forced panics through malformed messages.
const MaxVarBytesLength = 1024 * 1024 * 32 // 32MB

// longFormFlag marks a length determinant whose low bits carry the number
// of length bytes that follow rather than the length itself.
const longFormFlag = 0x80

// ReadLength reads a length determinant from r. Lengths below 128 are
// encoded in a single byte; larger lengths use a prefix byte with the high
// bit set whose low bits give the number of big-endian length bytes that
// follow.
func ReadLength(r io.Reader) (uint64, error) {
	prefix, err := Uint8(r)
	if err != nil {
		return 0, err
	}
	if prefix < longFormFlag {
		return uint64(prefix), nil
	}

	lengthOfLength := int(prefix &^ longFormFlag)
	if lengthOfLength == 0 || lengthOfLength > 8 {
		return 0, ccperrors.Errorf(ccperrors.ErrFormat,
			"malformed length determinant: %d length bytes", lengthOfLength)
	}

	buf, err := ReadBytes(r, lengthOfLength)
	if err != nil {
		return 0, err
	}
	var length uint64
	for _, b := range buf {
		length = length<<8 | uint64(b)
	}
	if length < longFormFlag {
		return 0, ccperrors.Errorf(ccperrors.ErrFormat,
			"non-canonical length determinant: %d encoded in long form", length)
	}
	return length, nil
}

// WriteLength writes a length determinant for the given length to w.
func WriteLength(w io.Writer, length uint64) error {
	if length < longFormFlag {
		return PutUint8(w, uint8(length))
	}

	lengthOfLength := 0
	for v := length; v > 0; v >>= 8 {
		lengthOfLength++
	}
	buf := make([]byte, lengthOfLength+1)
	buf[0] = longFormFlag | uint8(lengthOfLength)
	for i := lengthOfLength; i > 0; i-- {
		buf[i] = uint8(length)
		length >>= 8
	}
	_, err := w.Write(buf)
	return errors.WithStack(err)
}

// ReadVarUint reads a variable-length unsigned integer: a length
// determinant followed by that many big-endian bytes holding the minimal
// encoding of the value.
func ReadVarUint(r io.Reader) (uint64, error) {
	length, err := ReadLength(r)
	if err != nil {
		return 0, err
	}
	if length == 0 || length > 8 {
		return 0, ccperrors.Errorf(ccperrors.ErrFormat,
			"variable-length integer of %d bytes is out of range", length)
	}
	buf, err := ReadBytes(r, int(length))
	if err != nil {
		return 0, err
	}
	var val uint64
	for _, b := range buf {
		val = val<<8 | uint64(b)
	}
	return val, nil
}

// WriteVarUint serializes val to w as a length determinant followed by the
// minimal big-endian encoding of the value. Zero is encoded as a single
// zero byte.
func WriteVarUint(w io.Writer, val uint64) error {
	lengthOfValue := 1
	for v := val >> 8; v > 0; v >>= 8 {
		lengthOfValue++
	}
	if err := WriteLength(w, uint64(lengthOfValue)); err != nil {
		return err
	}
	buf := make([]byte, lengthOfValue)
	for i := lengthOfValue - 1; i >= 0; i-- {
		buf[i] = uint8(val)
		val >>= 8
	}
	_, err := w.Write(buf)
	return errors.WithStack(err)
}

// ReadVarBytes reads a variable-length byte string: a length determinant
// followed by the bytes themselves. An error is returned if the length is
// greater than MaxVarBytesLength. The fieldName parameter is only used for
// the error message so it provides more context.
func ReadVarBytes(r io.Reader, fieldName string) ([]byte, error) {
	length, err := ReadLength(r)
	if err != nil {
		return nil, err
	}
	if length > MaxVarBytesLength {
		return nil, ccperrors.Errorf(ccperrors.ErrFormat,
			"%s is larger than the max allowed size [length %d, max %d]",
			fieldName, length, MaxVarBytesLength)
	}
	if length == 0 {
		return nil, nil
	}
	return ReadBytes(r, int(length))
}

// WriteVarBytes serializes a variable-length byte string to w as a length
// determinant followed by the bytes themselves.
func WriteVarBytes(w io.Writer, data []byte) error {
	if err := WriteLength(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return errors.WithStack(err)
}

// ReadVarString reads a variable-length byte string from r and returns it
// as a Go string.
func ReadVarString(r io.Reader, fieldName string) (string, error) {
	data, err := ReadVarBytes(r, fieldName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteVarString serializes str to w as a length determinant followed by
// the bytes of the string.
func WriteVarString(w io.Writer, str string) error {
	return WriteVarBytes(w, []byte(str))
}

// VarUintSerializeSize returns the number of bytes it would take to
// serialize val as a variable-length unsigned integer.
func VarUintSerializeSize(val uint64) int {
	size := 2 // determinant plus at least one value byte
	for v := val >> 8; v > 0; v >>= 8 {
		size++
	}
	return size
}
