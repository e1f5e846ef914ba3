package crypto

import (
	"crypto/rand"
	"math"
)

const (
	// URL-safe alphabet, 64 characters so every 6 random bits map cleanly.
	nanoidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

	// 22 * 6 = 132 bits of entropy (a UUID carries 128).
	nanoidSize = 22
)

// NanoID generates a compact, URL-safe, collision-resistant identifier for
// session records. Random bytes are masked down to alphabet indexes and
// over-fetched in steps, so the distribution stays uniform without modulo
// bias.
func NanoID() (string, error) {
	alphabetLen := len(nanoidAlphabet)
	mask := nanoidMask(alphabetLen)
	step := int(math.Ceil(1.6 * float64(mask*nanoidSize) / float64(alphabetLen)))

	id := make([]byte, nanoidSize)
	buffer := make([]byte, step)

	for position := 0; position < nanoidSize; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for i := 0; i < step && position < nanoidSize; i++ {
			index := buffer[i] & byte(mask)
			if int(index) < alphabetLen {
				id[position] = nanoidAlphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}

// nanoidMask returns the smallest bitmask covering alphabetLen-1.
func nanoidMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask >= alphabetLen-1 {
			return mask
		}
	}
	return 255
}
