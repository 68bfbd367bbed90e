package stego

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// HeaderSize is the length of the big-endian body length prefix
const HeaderSize = 4

// Mask XORs data with the repeating password bytes. An empty password is the identity.
// It is reversible obfuscation, not encryption: the same inputs always give the same output.
func Mask(data []byte, password string) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if password == "" {
		return out
	}
	key := []byte(password)
	for i := range out {
		out[i] ^= key[i%len(key)]
	}
	return out
}

// Frame encodes message as UTF-8, masks it and prepends the 4-byte body length
func Frame(message, password string) []byte {
	body := Mask([]byte(message), password)
	payload := make([]byte, HeaderSize+len(body))
	binary.BigEndian.PutUint32(payload[:HeaderSize], uint32(len(body)))
	copy(payload[HeaderSize:], body)
	return payload
}

// Unframe reverses Frame. Invalid UTF-8 is replaced rather than rejected so a
// damaged payload still produces a readable preview.
func Unframe(payload []byte, password string) (string, error) {
	if len(payload) < HeaderSize {
		return "", fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncatedPayload, len(payload), HeaderSize)
	}
	declared := binary.BigEndian.Uint32(payload[:HeaderSize])
	body := payload[HeaderSize:]
	if uint64(len(body)) < uint64(declared) {
		return "", fmt.Errorf("%w: header declares %d bytes, %d available", ErrTruncatedPayload, declared, len(body))
	}
	plain := Mask(body[:declared], password)
	return strings.ToValidUTF8(string(plain), "\uFFFD"), nil
}
