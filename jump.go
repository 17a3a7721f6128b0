package seedrand

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-seedrand/internal/xoshiro"
)

// Jump advances the engine by steps core units without generating them.
// steps must be even and non-negative.
//
// Both caches are discarded. The result is identical to an engine with
// empty caches that drew steps scalar floats and no integers. Seed and
// the advance counter are unchanged; the jump is accumulated separately
// and reported by Descriptor.
func (e *Engine) Jump(steps int64) error {
	switch {
	case steps < 0:
		return fmt.Errorf("%w: %d", ErrNegativeJump, steps)
	case steps%2 != 0:
		return fmt.Errorf("%w: %d", ErrOddJump, steps)
	case e.advJump > math.MaxInt64-steps:
		return fmt.Errorf("%w: %d + %d", ErrJumpOverflow, e.advJump, steps)
	}

	if steps > 0 {
		e.core.Jump(xoshiro.JumpPoly(uint64(steps)))
	}
	e.resetCaches()
	e.advJump += steps

	log().Debug().Int64("steps", steps).Int64("adv_jump", e.advJump).Msg("engine jumped")
	return nil
}

// Split returns n independent engines. Stream i is a copy of e jumped
// by i*spacing units; a non-positive spacing selects
// DefaultStreamSpacing. e itself is not modified.
func (e *Engine) Split(n int, spacing int64) ([]*Engine, error) {
	if n < 0 {
		return nil, fmt.Errorf("seedrand: negative stream count %d", n)
	}
	if spacing <= 0 {
		spacing = DefaultStreamSpacing
	}
	if spacing%2 != 0 {
		return nil, fmt.Errorf("%w: spacing %d", ErrOddJump, spacing)
	}

	streams := make([]*Engine, n)
	cur := e.Clone()
	for i := range streams {
		if i > 0 {
			if err := cur.Jump(spacing); err != nil {
				return nil, fmt.Errorf("seedrand: stream %d: %w", i, err)
			}
		}
		streams[i] = cur.Clone()
	}
	return streams, nil
}
