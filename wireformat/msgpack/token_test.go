package msgpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizerFixints(t *testing.T) {
	tok := NewTokenizer([]byte{0x05, 0xff})
	tk, err := tok.Next()
	require.NoError(t, err)
	assert.Equal(t, Uint, tk.Kind)
	assert.Equal(t, uint64(5), tk.Uint)

	tk, err = tok.Next()
	require.NoError(t, err)
	assert.Equal(t, Int, tk.Kind)
	assert.Equal(t, int64(-1), tk.Int)
}

func TestTokenizerFixstrAndFixarray(t *testing.T) {
	// fixstr "hi", fixarray of length 2
	tok := NewTokenizer([]byte{0xa2, 'h', 'i', 0x92})
	tk, err := tok.Next()
	require.NoError(t, err)
	assert.Equal(t, Str, tk.Kind)
	assert.Equal(t, "hi", string(tk.Bytes))

	tk, err = tok.Next()
	require.NoError(t, err)
	assert.Equal(t, ArrayHeader, tk.Kind)
	assert.Equal(t, 2, tk.Length)
}

func TestTokenizerUint64AndFloat64(t *testing.T) {
	tok := NewTokenizer([]byte{
		0xcf, 0, 0, 0, 0, 0, 0, 0, 42, // uint64 42
		0xcb, 0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18, // float64 pi-ish
	})
	tk, err := tok.Next()
	require.NoError(t, err)
	assert.Equal(t, Uint, tk.Kind)
	assert.Equal(t, uint64(42), tk.Uint)

	tk, err = tok.Next()
	require.NoError(t, err)
	assert.Equal(t, Float, tk.Kind)
	assert.InDelta(t, 3.14159265, tk.Float, 1e-6)
}

func TestTokenizerNilAndBool(t *testing.T) {
	tok := NewTokenizer([]byte{0xc0, 0xc2, 0xc3})
	tk, _ := tok.Next()
	assert.Equal(t, Nil, tk.Kind)
	tk, _ = tok.Next()
	assert.Equal(t, Bool, tk.Kind)
	assert.False(t, tk.Bool)
	tk, _ = tok.Next()
	assert.Equal(t, Bool, tk.Kind)
	assert.True(t, tk.Bool)
}

func TestTokenizerUnexpectedEnd(t *testing.T) {
	tok := NewTokenizer([]byte{0xcf, 0, 0}) // uint64 needs 8 bytes, only 2 given
	_, err := tok.Next()
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, UnexpectedEnd, target.Kind)
}

func TestTokenizerInvalidTag(t *testing.T) {
	tok := NewTokenizer([]byte{0xc1}) // reserved, never assigned
	_, err := tok.Next()
	require.Error(t, err)
	var target *Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, InvalidFormat, target.Kind)
}

func TestTokenizerFixmap(t *testing.T) {
	// {"a": 1} encoded as fixmap(1), fixstr "a", fixint 1
	tok := NewTokenizer([]byte{0x81, 0xa1, 'a', 0x01})
	tk, err := tok.Next()
	require.NoError(t, err)
	assert.Equal(t, MapHeader, tk.Kind)
	assert.Equal(t, 1, tk.Length)
}
