// Package crypto provides the random identifier generator used for member,
// order, and address IDs.
package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	defaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultSize     = 22 // 22 * 6 = 132 bits of entropy, a touch more than a uuid
	maxAlphabetSize = 255
	minAlphabetSize = 8
)

var (
	ErrAlphabetTooLong  = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetNotASCII = errors.New("alphabet must contain only ASCII characters")
)

// NanoIDGenerator produces URL-safe random identifiers. Generation draws
// from crypto/rand and rejection-samples so every alphabet character is
// equally likely.
type NanoIDGenerator struct {
	alphabet string
	mask     int
}

// NewNanoID builds a generator over the default URL-safe alphabet. An
// optional custom alphabet may be supplied; it must be ASCII because
// Generate indexes by byte position.
func NewNanoID(alphabet ...string) (*NanoIDGenerator, error) {
	chars := defaultAlphabet
	if len(alphabet) > 0 && alphabet[0] != "" {
		chars = alphabet[0]
	}

	for _, r := range chars {
		if r > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}
	if len(chars) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(chars) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}

	return &NanoIDGenerator{
		alphabet: chars,
		mask:     mask(len(chars)),
	}, nil
}

// MustNanoID is like NewNanoID but panics on an invalid alphabet. Use it
// for generators built at wiring time over a known-good alphabet.
func MustNanoID(alphabet ...string) *NanoIDGenerator {
	n, err := NewNanoID(alphabet...)
	if err != nil {
		panic(err)
	}
	return n
}

// mask returns the smallest all-ones bit mask covering alphabetLen - 1.
func mask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		m := (2 << uint(i)) - 1
		if m > alphabetLen-1 {
			return m
		}
	}
	return maxAlphabetSize
}

// Generate returns a fresh identifier. The optional length overrides the
// 22-character default.
func (n *NanoIDGenerator) Generate(length ...int) (string, error) {
	size := defaultSize
	if len(length) > 0 && length[0] > 0 {
		size = length[0]
	}

	alphabetLen := len(n.alphabet)

	// Oversample so one rand.Read usually fills the whole id despite
	// rejected indices.
	step := int(math.Ceil(1.6 * float64(n.mask*size) / float64(alphabetLen)))

	id := make([]byte, size)
	buffer := make([]byte, step)

	for position := 0; position < size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for i := 0; i < step && position < size; i++ {
			index := buffer[i] & byte(n.mask)
			if int(index) < alphabetLen {
				id[position] = n.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
