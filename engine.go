package seedrand

import (
	"fmt"

	"github.com/opd-ai/go-seedrand/internal/xoshiro"
)

// Engine is a seeded generator with a float cache and an integer cache
// on top of the core generator. The zero value is not usable; create
// engines with New or Restore.
//
// The position of an engine is fully described by its seed, the
// cumulative jump distance, the total number of core units consumed and
// the unit counts at which each cache was last filled (see Descriptor).
//
// An Engine is not safe for concurrent use.
type Engine struct {
	seed any           // Seed material, retained verbatim
	core xoshiro.State // Core generator state

	vals [FloatCacheLen]float64  // Float cache, values in [1,2)
	ints [IntCacheBlocks]Uint128 // Integer cache, fully random blocks

	idxF int // Floats consumed from vals
	idxI int // Bytes remaining in ints

	adv     int64 // Core units consumed since seeding, excluding jumps
	advJump int64 // Cumulative jump distance
	advVals int64 // adv when vals was last filled, or unfilled
	advInts int64 // adv when ints was last filled, or unfilled
}

// New creates an engine from seed material.
//
// Supported seeds are integers of any built-in width, *big.Int, string,
// []uint32, []int32, []uint64 and []int64. A nil seed draws 128 bits of
// OS entropy; the drawn value is retained and reported by Seed. An
// *Engine or *SeedHasher seed draws four uint64 words from it.
func New(seed any) (*Engine, error) {
	e := &Engine{}
	if err := e.Reseed(seed); err != nil {
		return nil, err
	}
	return e, nil
}

// MustNew is like New but panics on unsupported seed material.
func MustNew(seed any) *Engine {
	e, err := New(seed)
	if err != nil {
		panic(err)
	}
	return e
}

// Reseed reinitialises the engine from seed material, discarding its
// caches and counters. On error the engine is left unchanged.
func (e *Engine) Reseed(seed any) error {
	material, err := resolveSeed(seed)
	if err != nil {
		return err
	}
	h, err := newSeedHasher(material)
	if err != nil {
		return err
	}

	e.core.Init(h.words(seedWords))
	e.seed = cloneSeed(material)
	e.resetCaches()
	e.adv = 0
	e.advJump = 0

	log().Debug().Str("seed", formatSeed(e.seed)).Msg("engine seeded")
	return nil
}

// resetCaches zeroes both caches and marks them empty and unfilled.
func (e *Engine) resetCaches() {
	zeroFloats(e.vals[:])
	e.ints = [IntCacheBlocks]Uint128{}
	e.idxF = FloatCacheLen
	e.idxI = 0
	e.advVals = unfilled
	e.advInts = unfilled
}

// Seed returns a copy of the seed material the engine was created from.
func (e *Engine) Seed() any {
	return cloneSeed(e.seed)
}

// Clone returns an independent copy of the engine that produces the
// same output.
func (e *Engine) Clone() *Engine {
	c := *e
	c.seed = cloneSeed(e.seed)
	return &c
}

// Equal reports whether two engines have the same seed, core state,
// cache contents, cache indices and counters.
func (e *Engine) Equal(other *Engine) bool {
	if e == other {
		return true
	}
	if other == nil {
		return false
	}
	return e.core.Equal(&other.core) &&
		e.idxF == other.idxF &&
		e.idxI == other.idxI &&
		e.adv == other.adv &&
		e.advJump == other.advJump &&
		e.advVals == other.advVals &&
		e.advInts == other.advInts &&
		e.vals == other.vals &&
		e.ints == other.ints &&
		sameSeed(e.seed, other.seed)
}

// String returns the compact descriptor form of the engine.
func (e *Engine) String() string {
	return e.Descriptor().String()
}

// GoString implements fmt.GoStringer.
func (e *Engine) GoString() string {
	return fmt.Sprintf("seedrand.%s", e.Descriptor().String())
}
