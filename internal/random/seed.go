// Package random provides cryptographic seed generation for simulations.
//
// A zero seed means "pick one" throughout the command configuration, so the
// seeds returned here are never zero.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// NewSeed generates a non-zero random seed using crypto/rand.
func NewSeed() (int64, error) {
	return newSeedFrom(crand.Reader)
}

func newSeedFrom(source io.Reader) (int64, error) {
	var b [8]byte
	for {
		if _, err := io.ReadFull(source, b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := int64(binary.LittleEndian.Uint64(b[:])); seed != 0 {
			return seed, nil
		}
	}
}
