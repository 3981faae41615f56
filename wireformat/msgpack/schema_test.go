package msgpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAggregateBasic(t *testing.T) {
	// {"name": "vadd", "count": 3}
	src := []byte{
		0x82,
		0xa4, 'n', 'a', 'm', 'e', 0xa4, 'v', 'a', 'd', 'd',
		0xa5, 'c', 'o', 'u', 'n', 't', 0x03,
	}
	shape := Shape{Kind: Aggregate, Fields: []Field{
		{Name: "name", Shape: Shape{Kind: StringShape}, Required: true},
		{Name: "count", Shape: Shape{Kind: IntShape, Bits: 32}, Required: true},
	}}
	v, err := Parse(src, shape)
	require.NoError(t, err)
	m := v.(map[string]Value)
	assert.Equal(t, "vadd", m["name"])
	assert.Equal(t, uint64(3), m["count"])
}

func TestParseAggregateMissingRequiredField(t *testing.T) {
	src := []byte{0x80} // empty map
	shape := Shape{Kind: Aggregate, Fields: []Field{
		{Name: "name", Shape: Shape{Kind: StringShape}, Required: true},
	}}
	_, err := Parse(src, shape)
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, MissingField, target.Kind)
}

func TestParseAggregateUnknownFieldStrict(t *testing.T) {
	src := []byte{0x81, 0xa3, 'f', 'o', 'o', 0x01}
	shape := Shape{Kind: Aggregate, Fields: nil, Lenient: false}
	_, err := Parse(src, shape)
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, UnknownField, target.Kind)
}

func TestParseAggregateUnknownFieldLenientSkipped(t *testing.T) {
	src := []byte{
		0x82,
		0xa3, 'f', 'o', 'o', 0x01,
		0xa4, 'n', 'a', 'm', 'e', 0xa1, 'x',
	}
	shape := Shape{Kind: Aggregate, Lenient: true, Fields: []Field{
		{Name: "name", Shape: Shape{Kind: StringShape}, Required: true},
	}}
	v, err := Parse(src, shape)
	require.NoError(t, err)
	m := v.(map[string]Value)
	assert.Equal(t, "x", m["name"])
	_, hasFoo := m["foo"]
	assert.False(t, hasFoo)
}

func TestParseAggregateDuplicateKey(t *testing.T) {
	src := []byte{
		0x82,
		0xa1, 'a', 0x01,
		0xa1, 'a', 0x02,
	}
	shape := Shape{Kind: Aggregate, Lenient: true}
	_, err := Parse(src, shape)
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, DuplicateField, target.Kind)
}

func TestParseSequenceOfInts(t *testing.T) {
	src := []byte{0x93, 0x01, 0x02, 0x03}
	shape := Shape{Kind: Sequence, Element: &Shape{Kind: IntShape, Bits: 8}}
	v, err := Parse(src, shape)
	require.NoError(t, err)
	seq := v.([]Value)
	require.Len(t, seq, 3)
	assert.Equal(t, uint64(1), seq[0])
}

func TestParseFixedSequenceLengthMismatch(t *testing.T) {
	tok := NewTokenizer([]byte{0x92, 0x01, 0x02}) // length 2
	shape := Shape{Element: &Shape{Kind: IntShape, Bits: 64}}
	_, err := ParseFixedSequence(tok, shape, 3, "$")
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, MismatchedArrayLength, target.Kind)
}

func TestParseOptionalNilAndPresent(t *testing.T) {
	shape := Shape{Kind: Optional, Element: &Shape{Kind: StringShape}}

	v, err := Parse([]byte{0xc0}, shape)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Parse([]byte{0xa1, 'x'}, shape)
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestParseIntOverflow(t *testing.T) {
	src := []byte{0xcc, 0xff} // uint8 255
	shape := Shape{Kind: IntShape, Bits: 4}
	_, err := Parse(src, shape)
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, Overflow, target.Kind)
}

func TestParseEnumFromString(t *testing.T) {
	src := []byte{0xa3, 'h', 'i', 'p'}
	shape := Shape{Kind: Enum, Names: []string{"hip", "hipv4", "openmp", "host"}}
	v, err := Parse(src, shape)
	require.NoError(t, err)
	assert.Equal(t, "hip", v)
}

func TestParseEnumInvalidKey(t *testing.T) {
	src := []byte{0xa3, 'f', 'o', 'o'}
	shape := Shape{Kind: Enum, Names: []string{"hip", "hipv4"}}
	_, err := Parse(src, shape)
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, InvalidEnumKey, target.Kind)
}
