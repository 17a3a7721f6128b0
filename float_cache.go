package seedrand

import (
	"math"

	"github.com/x448/float16"
)

// availableFloats returns the number of unconsumed values in the float
// cache.
func (e *Engine) availableFloats() int {
	return FloatCacheLen - e.idxF
}

// refillFloats overwrites the float cache with fresh values in [1,2).
// advVals records the position before the fill, which is where the
// cache contents can be regenerated from.
func (e *Engine) refillFloats() {
	e.core.Fill(e.vals[:], CloseOpen12)
	e.advVals = e.adv
	e.idxF = 0
	e.adv += FloatCacheLen

	log().Trace().Int64("adv", e.advVals).Msg("float cache refilled")
}

// reserveFloats makes sure at least n values are available, n <= FloatCacheLen.
func (e *Engine) reserveFloats(n int) {
	if e.availableFloats() < n {
		e.refillFloats()
	}
}

// popFloat returns the next cached value in [1,2).
func (e *Engine) popFloat() float64 {
	e.reserveFloats(1)
	v := e.vals[e.idxF]
	e.idxF++
	return v
}

// Float64 returns a uniform value in [0,1).
func (e *Engine) Float64() float64 {
	return e.popFloat() - 1.0
}

// Float64OneTwo returns a uniform value in [1,2), the core's native output.
func (e *Engine) Float64OneTwo() float64 {
	return e.popFloat()
}

// float returns the next value in the requested interval.
func (e *Engine) float(iv Interval) float64 {
	if iv == CloseOpen12 {
		return e.popFloat()
	}
	return e.popFloat() - 1.0
}

// Float32OneTwo returns a uniform float32 in [1,2) built from the low 23
// mantissa bits of one cached value.
func (e *Engine) Float32OneTwo() float32 {
	raw := uint32(math.Float64bits(e.popFloat()))
	return math.Float32frombits(raw&float32Mantissa | float32One)
}

// Float32 returns a uniform float32 in [0,1).
func (e *Engine) Float32() float32 {
	return e.Float32OneTwo() - 1
}

// Float16OneTwo returns a uniform half-precision value in [1,2) built
// from the low 10 mantissa bits of one cached value.
func (e *Engine) Float16OneTwo() float16.Float16 {
	raw := uint16(math.Float64bits(e.popFloat()))
	return float16.Frombits(raw&float16Mantissa | float16One)
}

// Float16 returns a uniform half-precision value in [0,1).
func (e *Engine) Float16() float16.Float16 {
	return float16.Fromfloat32(e.Float16OneTwo().Float32() - 1)
}
