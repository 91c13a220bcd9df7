package wire

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func be32(n uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, n)
}

func be64(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestEncodeKeyValue(t *testing.T) {
	tests := []struct {
		name     string
		code     OpCode
		key      []byte
		value    Value
		expected []byte
	}{
		{
			name:     "put one byte key and value",
			code:     OpPut,
			key:      []byte("a"),
			value:    Bytes([]byte("b")),
			expected: []byte{0xC8, 0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x61, 0x62},
		},
		{
			name:     "putkeep",
			code:     OpPutKeep,
			key:      []byte("key"),
			value:    String("value"),
			expected: concat([]byte{0xC8, 0x11}, be32(3), be32(5), []byte("keyvalue")),
		},
		{
			name:     "empty value",
			code:     OpPut,
			key:      []byte("k"),
			value:    Bytes(nil),
			expected: concat([]byte{0xC8, 0x10}, be32(1), be32(0), []byte("k")),
		},
		{
			name:     "binary unsafe content",
			code:     OpPutCat,
			key:      []byte{0x00, 0xFF, '\n'},
			value:    Bytes([]byte{0x00, 0x00}),
			expected: concat([]byte{0xC8, 0x12}, be32(3), be32(2), []byte{0x00, 0xFF, '\n', 0x00, 0x00}),
		},
		{
			name:     "integer value below threshold uses fixed word",
			code:     OpPut,
			key:      []byte("n"),
			value:    Int(258),
			expected: concat([]byte{0xC8, 0x10}, be32(1), be32(4), []byte("n"), be32(258)),
		},
		{
			name:     "integer value at top of range",
			code:     OpPut,
			key:      []byte("n"),
			value:    Int(1<<32 - 1),
			expected: concat([]byte{0xC8, 0x10}, be32(1), be32(4), []byte("n"), be32(1<<32-1)),
		},
		{
			name:     "integer value above threshold falls back to decimal",
			code:     OpPut,
			key:      []byte("n"),
			value:    Int(1 << 32),
			expected: concat([]byte{0xC8, 0x10}, be32(1), be32(10), []byte("n4294967296")),
		},
		{
			name:     "negative integer falls back to decimal",
			code:     OpPut,
			key:      []byte("n"),
			value:    Int(-7),
			expected: concat([]byte{0xC8, 0x10}, be32(1), be32(2), []byte("n-7")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeKeyValue(tt.code, tt.key, tt.value)
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("EncodeKeyValue() = % X, want % X", got, tt.expected)
			}
		})
	}
}

func TestEncodeNoArg(t *testing.T) {
	tests := []struct {
		code     OpCode
		expected []byte
	}{
		{OpSync, []byte{0xC8, 0x70}},
		{OpVanish, []byte{0xC8, 0x72}},
		{OpIterInit, []byte{0xC8, 0x50}},
		{OpIterNext, []byte{0xC8, 0x51}},
		{OpRNum, []byte{0xC8, 0x80}},
		{OpSize, []byte{0xC8, 0x81}},
		{OpStat, []byte{0xC8, 0x88}},
	}

	for _, tt := range tests {
		if got := EncodeNoArg(tt.code); !bytes.Equal(got, tt.expected) {
			t.Errorf("EncodeNoArg(%#04X) = % X, want % X", uint16(tt.code), got, tt.expected)
		}
	}
}

func TestEncodeKey(t *testing.T) {
	got := EncodeKey(OpOut, []byte("mykey"))
	expected := concat([]byte{0xC8, 0x20}, be32(5), []byte("mykey"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeKey() = % X, want % X", got, expected)
	}

	// An empty blob is legal: just the zero length.
	got = EncodeKey(OpOptimize, nil)
	expected = concat([]byte{0xC8, 0x71}, be32(0))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeKey(empty) = % X, want % X", got, expected)
	}
}

func TestEncodeShiftAppend(t *testing.T) {
	got := EncodeShiftAppend(OpPutShl, []byte("log"), String("entry"), 100)
	expected := concat([]byte{0xC8, 0x13}, be32(3), be32(5), be32(100), []byte("logentry"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeShiftAppend() = % X, want % X", got, expected)
	}
}

func TestEncodeKeyList(t *testing.T) {
	got := EncodeKeyList(OpMGet, [][]byte{[]byte("a"), []byte("bc")})
	expected := concat([]byte{0xC8, 0x31}, be32(2), be32(1), []byte("a"), be32(2), []byte("bc"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeKeyList() = % X, want % X", got, expected)
	}

	got = EncodeKeyList(OpMGet, nil)
	expected = concat([]byte{0xC8, 0x31}, be32(0))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeKeyList(none) = % X, want % X", got, expected)
	}
}

func TestEncodePrefixScan(t *testing.T) {
	got := EncodePrefixScan(OpFwmKeys, []byte("user:"), 50)
	expected := concat([]byte{0xC8, 0x58}, be32(5), be32(50), []byte("user:"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodePrefixScan() = % X, want % X", got, expected)
	}

	// No limit travels as all-ones.
	got = EncodePrefixScan(OpFwmKeys, []byte("u"), -1)
	expected = concat([]byte{0xC8, 0x58}, be32(1), []byte{0xFF, 0xFF, 0xFF, 0xFF}, []byte("u"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodePrefixScan(-1) = % X, want % X", got, expected)
	}
}

func TestEncodeAddInt(t *testing.T) {
	got := EncodeAddInt([]byte("counter"), -3)
	expected := concat([]byte{0xC8, 0x60}, be32(7), []byte{0xFF, 0xFF, 0xFF, 0xFD}, []byte("counter"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeAddInt() = % X, want % X", got, expected)
	}
}

func TestEncodeAddDouble(t *testing.T) {
	got := EncodeAddDouble([]byte("d"), 2, 500000000000)
	expected := concat([]byte{0xC8, 0x61}, be32(1), be64(2), be64(500000000000), []byte("d"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeAddDouble() = % X, want % X", got, expected)
	}
}

func TestEncodeRestore(t *testing.T) {
	got := EncodeRestore([]byte("/var/ttserver/ulog"), 1234567890123456)
	expected := concat([]byte{0xC8, 0x74}, be32(18), be64(1234567890123456), []byte("/var/ttserver/ulog"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeRestore() = % X, want % X", got, expected)
	}
}

func TestEncodeSetMaster(t *testing.T) {
	got := EncodeSetMaster([]byte("db1.example.com"), 1978)
	expected := concat([]byte{0xC8, 0x78}, be32(15), be32(1978), []byte("db1.example.com"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeSetMaster() = % X, want % X", got, expected)
	}
}

func TestEncodeExt(t *testing.T) {
	got := EncodeExt([]byte("incr"), ExtLockRecord, []byte("k"), String("1"))
	expected := concat(
		[]byte{0xC8, 0x68},
		be32(4), be32(1), be32(1), be32(1),
		[]byte("incrk1"),
	)
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeExt() = % X, want % X", got, expected)
	}
}

func TestEncodeMisc(t *testing.T) {
	pairs := []KV{
		{Key: []byte("k1"), Value: String("v1")},
		{Key: []byte("k2"), Value: Int(9)},
	}
	got := EncodeMisc([]byte("putlist"), 0, pairs)

	// Each pair contributes two wire arguments, so the count is four. The
	// second pair's value takes the fixed counter encoding.
	expected := concat(
		[]byte{0xC8, 0x90},
		be32(7), be32(0), be32(4),
		[]byte("putlist"),
		be32(2), []byte("k1"), be32(2), []byte("v1"),
		be32(2), []byte("k2"), be32(4), be32(9),
	)
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeMisc() = % X, want % X", got, expected)
	}
}

func TestEncodeMiscNoUpdateLog(t *testing.T) {
	got := EncodeMisc([]byte("getlist"), MiscNoUpdateLog, nil)
	expected := concat([]byte{0xC8, 0x90}, be32(7), be32(1), be32(0), []byte("getlist"))
	if !bytes.Equal(got, expected) {
		t.Errorf("EncodeMisc() = % X, want % X", got, expected)
	}
}

func TestValueLen(t *testing.T) {
	if got := Int(42).Len(); got != 4 {
		t.Errorf("Int(42).Len() = %d, want 4", got)
	}
	if got := Int(-1).Len(); got != 2 {
		t.Errorf("Int(-1).Len() = %d, want 2", got)
	}
	if got := Bytes(nil).Len(); got != 0 {
		t.Errorf("Bytes(nil).Len() = %d, want 0", got)
	}
	if got := String("abc").Len(); got != 3 {
		t.Errorf("String(abc).Len() = %d, want 3", got)
	}
}
