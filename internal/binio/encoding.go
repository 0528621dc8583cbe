package binio

import (
	"bytes"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Names are stored in code page 949. korean.EUCKR implements the Unified
// Hangul Code extension, which makes it a cp949 codec.

func decodeString(b []byte) (string, error) {
	b = bytes.ReplaceAll(b, []byte{0}, nil)
	if isASCII(b) {
		return string(b), nil
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func encodeString(s string) ([]byte, error) {
	if isASCII([]byte(s)) {
		return []byte(s), nil
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EncodedLen returns the number of bytes s occupies on disk.
func EncodedLen(s string) (int, error) {
	b, err := encodeString(s)
	return len(b), err
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
