package fs

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/shade/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXHash digests of source text.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Sum returns the XXHash of text.
func (h *Hasher) Sum(text string) uint64 {
	return xxhash.Sum64String(text)
}

// SumAll hashes texts in order. Each text is length-prefixed so that
// ("ab", "c") and ("a", "bc") produce different digests.
func (h *Hasher) SumAll(texts ...string) uint64 {
	hasher := xxhash.New()
	var size [8]byte
	for _, t := range texts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(t)))
		_, _ = hasher.Write(size[:])
		_, _ = hasher.WriteString(t)
	}
	return hasher.Sum64()
}
