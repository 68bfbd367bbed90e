package stego

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_Header(t *testing.T) {
	payload := Frame("héllo", "")
	require.Len(t, payload, HeaderSize+6)
	assert.Equal(t, uint32(6), binary.BigEndian.Uint32(payload[:HeaderSize]))
	assert.Equal(t, []byte("héllo"), payload[HeaderSize:])
}

func TestMask(t *testing.T) {
	data := []byte("secret message")
	assert.Equal(t, data, Mask(data, ""))

	masked := Mask(data, "key")
	assert.NotEqual(t, data, masked)
	assert.Equal(t, byte('s'^'k'), masked[0])
	assert.Equal(t, byte('e'^'e'), masked[1])
	assert.Equal(t, byte('r'^'k'), masked[3])
	assert.Equal(t, data, Mask(masked, "key"))

	// identical inputs give identical output
	assert.Equal(t, masked, Mask(data, "key"))
}

func TestUnframe_RoundTrip(t *testing.T) {
	for _, pw := range []string{"", "p", "pass-42", "пароль"} {
		msg, err := Unframe(Frame("robustness-check-message", pw), pw)
		require.NoError(t, err)
		assert.Equal(t, "robustness-check-message", msg)
	}
}

func TestUnframe_Truncated(t *testing.T) {
	_, err := Unframe([]byte{0, 0}, "")
	assert.ErrorIs(t, err, ErrTruncatedPayload)

	payload := Frame("abcdef", "")
	_, err = Unframe(payload[:len(payload)-1], "")
	assert.ErrorIs(t, err, ErrTruncatedPayload)
}

func TestUnframe_IgnoresTrailingBytes(t *testing.T) {
	payload := append(Frame("abc", ""), 'z', 'z')
	msg, err := Unframe(payload, "")
	require.NoError(t, err)
	assert.Equal(t, "abc", msg)
}

func TestUnframe_InvalidUTF8IsReplaced(t *testing.T) {
	payload := []byte{0, 0, 0, 3, 'a', 0xff, 'b'}
	msg, err := Unframe(payload, "")
	require.NoError(t, err)
	assert.Equal(t, "a�b", msg)
}

func TestUnframe_WrongPasswordGarbles(t *testing.T) {
	msg, err := Unframe(Frame("hello world", "right"), "wrong")
	require.NoError(t, err)
	assert.NotEqual(t, "hello world", msg)
}
