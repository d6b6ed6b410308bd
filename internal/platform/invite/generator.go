package invite

import (
	"crypto/rand"
	"fmt"
)

// Alphabet skips the lookalikes 0/O, 1/I and L so codes survive being
// read aloud.
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 8
)

// Generator produces league invite codes.
type Generator struct{}

func NewGenerator() Generator {
	return Generator{}
}

func (Generator) NewCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
