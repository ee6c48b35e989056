package subset

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const identifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultIdentifierLength is the length of generated font identifiers.
const DefaultIdentifierLength = 10

// GenerateIdentifier returns a random alphanumeric string of length n drawn
// from crypto/rand.
func GenerateIdentifier(n int) (string, error) {
	return NewIdentifier(rand.Reader, n)
}

// NewIdentifier draws an alphanumeric string of length n from src. Bytes
// that would bias the distribution are discarded.
func NewIdentifier(src io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("identifier length must be positive")
	}
	limit := byte(256 - 256%len(identifierAlphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1)
	for len(out) < n {
		read, err := io.ReadFull(src, buf)
		if err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf[:read] {
			if b >= limit {
				continue
			}
			out = append(out, identifierAlphabet[int(b)%len(identifierAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
