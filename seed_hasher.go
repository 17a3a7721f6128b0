package seedrand

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/go-seedrand/internal"
)

// engineSeedWords is the number of 64-bit words drawn from an engine
// used as seed material.
const engineSeedWords = 4

// SeedHasher is a deterministic byte stream expanded from arbitrary seed
// material with Blake2b. It is used to turn seeds into core generator
// state.
//
// The first digest is Blake2b-256 of the canonical seed encoding. When
// it is exhausted the stream rehashes with Blake2b-512 over the current
// digest followed by a 128-bit little-endian counter, so a digest that
// maps to itself cannot cause a short cycle.
//
// A SeedHasher is not safe for concurrent use.
type SeedHasher struct {
	bytes []byte // Current digest
	idx   int    // Position in current digest
	cnt   uint64 // Number of rehashes so far
}

// NewSeedHasher creates a SeedHasher from seed material. A nil seed draws
// 128 bits from EntropySource; an *Engine seed draws four uint64 words
// from that engine. See appendCanonical for the supported kinds.
func NewSeedHasher(seed any) (*SeedHasher, error) {
	material, err := resolveSeed(seed)
	if err != nil {
		return nil, err
	}
	return newSeedHasher(material)
}

// newSeedHasher hashes already-resolved seed material.
func newSeedHasher(material any) (*SeedHasher, error) {
	enc, err := canonicalBytes(material)
	if err != nil {
		return nil, err
	}
	digest := internal.Blake2b256(enc)
	return &SeedHasher{bytes: digest[:]}, nil
}

// resolveSeed replaces the nil and *Engine seed forms with the concrete
// material they stand for.
func resolveSeed(seed any) (any, error) {
	switch v := seed.(type) {
	case nil:
		return EntropySource{}.Uint128().Big(), nil
	case *Engine:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *Engine", ErrUnsupportedSeed)
		}
		words := make([]uint64, engineSeedWords)
		for i := range words {
			words[i] = v.Uint64()
		}
		return words, nil
	case *SeedHasher:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *SeedHasher", ErrUnsupportedSeed)
		}
		words := make([]uint64, engineSeedWords)
		for i := range words {
			words[i] = v.Uint64()
		}
		return words, nil
	default:
		return seed, nil
	}
}

// rehash replaces the exhausted digest with the next one.
func (g *SeedHasher) rehash() {
	g.cnt++
	var ctr [16]byte
	binary.LittleEndian.PutUint64(ctr[:8], g.cnt)
	digest := internal.Blake2b512(g.bytes, ctr[:])
	g.bytes = digest[:]
	g.idx = 0
}

// Byte returns the next byte of the stream.
func (g *SeedHasher) Byte() byte {
	if g.idx >= len(g.bytes) {
		g.rehash()
	}
	b := g.bytes[g.idx]
	g.idx++
	return b
}

// Read implements io.Reader. It always fills p completely.
func (g *SeedHasher) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = g.Byte()
	}
	return len(p), nil
}

// Uint32 returns the next 4 bytes as a little-endian uint32.
func (g *SeedHasher) Uint32() uint32 {
	b0 := uint32(g.Byte())
	b1 := uint32(g.Byte())
	b2 := uint32(g.Byte())
	b3 := uint32(g.Byte())

	return b0 | (b1 << 8) | (b2 << 16) | (b3 << 24)
}

// Uint64 returns the next 8 bytes as a little-endian uint64.
func (g *SeedHasher) Uint64() uint64 {
	lo := uint64(g.Uint32())
	hi := uint64(g.Uint32())
	return lo | hi<<32
}

// words draws n 32-bit words.
func (g *SeedHasher) words(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = g.Uint32()
	}
	return out
}
