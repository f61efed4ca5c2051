package serialization

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/connectornet/ccp/ccperrors"
)

// TestLengthDeterminant tests the short and long form length determinant
// encode and decode against known wire bytes.
func TestLengthDeterminant(t *testing.T) {
	tests := []struct {
		in  uint64
		buf []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x81, 0x80}},
		{255, []byte{0x81, 0xff}},
		{256, []byte{0x82, 0x01, 0x00}},
		{300, []byte{0x82, 0x01, 0x2c}},
		{65536, []byte{0x83, 0x01, 0x00, 0x00}},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		w := &bytes.Buffer{}
		err := WriteLength(w, test.in)
		if err != nil {
			t.Errorf("WriteLength #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(w.Bytes(), test.buf) {
			t.Errorf("WriteLength #%d\ngot:  %swant: %s", i,
				spew.Sdump(w.Bytes()), spew.Sdump(test.buf))
			continue
		}

		length, err := ReadLength(bytes.NewReader(test.buf))
		if err != nil {
			t.Errorf("ReadLength #%d error %v", i, err)
			continue
		}
		if length != test.in {
			t.Errorf("ReadLength #%d: got %d, want %d", i, length, test.in)
		}
	}
}

// TestLengthDeterminantErrors ensures malformed determinants surface
// FormatError.
func TestLengthDeterminantErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty buffer", []byte{}},
		{"zero length bytes", []byte{0x80}},
		{"too many length bytes", []byte{0x89, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}},
		{"non-canonical long form", []byte{0x81, 0x05}},
		{"truncated long form", []byte{0x82, 0x01}},
	}

	for _, test := range tests {
		_, err := ReadLength(bytes.NewReader(test.buf))
		if !ccperrors.IsCode(err, ccperrors.ErrFormat) {
			t.Errorf("ReadLength %s: got %v, want FormatError", test.name, err)
		}
	}
}

// TestVarUint tests the variable-length unsigned integer encode and decode
// against known wire bytes.
func TestVarUint(t *testing.T) {
	tests := []struct {
		in  uint64
		buf []byte
	}{
		{0, []byte{0x01, 0x00}},
		{1, []byte{0x01, 0x01}},
		{0x7f, []byte{0x01, 0x7f}},
		{0xff, []byte{0x01, 0xff}},
		{0x100, []byte{0x02, 0x01, 0x00}},
		{0x1234, []byte{0x02, 0x12, 0x34}},
		{0x123456, []byte{0x03, 0x12, 0x34, 0x56}},
		{0xffffffffffffffff, []byte{0x08, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		w := &bytes.Buffer{}
		err := WriteVarUint(w, test.in)
		if err != nil {
			t.Errorf("WriteVarUint #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(w.Bytes(), test.buf) {
			t.Errorf("WriteVarUint #%d\ngot:  %swant: %s", i,
				spew.Sdump(w.Bytes()), spew.Sdump(test.buf))
			continue
		}
		if size := VarUintSerializeSize(test.in); size != len(test.buf) {
			t.Errorf("VarUintSerializeSize #%d: got %d, want %d", i, size, len(test.buf))
		}

		val, err := ReadVarUint(bytes.NewReader(test.buf))
		if err != nil {
			t.Errorf("ReadVarUint #%d error %v", i, err)
			continue
		}
		if val != test.in {
			t.Errorf("ReadVarUint #%d: got %d, want %d", i, val, test.in)
		}
	}
}

// TestVarUintErrors ensures out-of-range integer lengths surface
// FormatError.
func TestVarUintErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"zero-byte integer", []byte{0x00}},
		{"nine-byte integer", []byte{0x09, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}},
		{"truncated value", []byte{0x04, 0x01, 0x02}},
	}

	for _, test := range tests {
		_, err := ReadVarUint(bytes.NewReader(test.buf))
		if !ccperrors.IsCode(err, ccperrors.ErrFormat) {
			t.Errorf("ReadVarUint %s: got %v, want FormatError", test.name, err)
		}
	}
}

// TestVarBytes tests length-prefixed byte strings and strings round trips
// plus truncation handling.
func TestVarBytes(t *testing.T) {
	w := &bytes.Buffer{}
	err := WriteVarBytes(w, []byte{0xde, 0xad, 0xbe, 0xef})
	if err != nil {
		t.Fatalf("WriteVarBytes error %v", err)
	}
	want := []byte{0x04, 0xde, 0xad, 0xbe, 0xef}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("WriteVarBytes\ngot:  %swant: %s",
			spew.Sdump(w.Bytes()), spew.Sdump(want))
	}

	got, err := ReadVarBytes(bytes.NewReader(want), "test field")
	if err != nil {
		t.Fatalf("ReadVarBytes error %v", err)
	}
	if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("ReadVarBytes: got %x", got)
	}

	_, err = ReadVarBytes(bytes.NewReader([]byte{0x04, 0x01}), "test field")
	if !ccperrors.IsCode(err, ccperrors.ErrFormat) {
		t.Errorf("ReadVarBytes truncated: got %v, want FormatError", err)
	}

	str, err := ReadVarString(bytes.NewReader([]byte{0x04, 'g', '.', 'e', 'u'}), "prefix")
	if err != nil {
		t.Fatalf("ReadVarString error %v", err)
	}
	if str != "g.eu" {
		t.Fatalf("ReadVarString: got %q, want %q", str, "g.eu")
	}
}
