package seedrand

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// Bit layouts for building narrow floats in [1,2) from raw 128-bit words.
const (
	float32Mantissa = 0x007fffff
	float32One      = 0x3f800000
	float16Mantissa = 0x03ff
	float16One      = 0x3c00

	// boolMask keeps the low bit of every byte.
	boolMask = 0x0101010101010101
)

var (
	float32WordMask = Uint128{Lo: 0x007fffff007fffff, Hi: 0x007fffff007fffff}
	float32WordOne  = Uint128{Lo: 0x3f8000003f800000, Hi: 0x3f8000003f800000}
	float16WordMask = Uint128{Lo: 0x03ff03ff03ff03ff, Hi: 0x03ff03ff03ff03ff}
	float16WordOne  = Uint128{Lo: 0x3c003c003c003c00, Hi: 0x3c003c003c003c00}
)

// FillFloat64 fills dst with uniform values in the given interval.
//
// Arrays of at least MinArraySize elements are filled directly by the
// core generator, bypassing the float cache except for an odd trailing
// element. Shorter arrays are copied out of the cache.
func (e *Engine) FillFloat64(dst []float64, iv Interval) {
	n := len(dst)
	if n < MinArraySize {
		e.fillFromCache(dst, iv)
		return
	}
	n2 := n &^ 1
	e.core.Fill(dst[:n2], iv)
	e.adv += int64(n2)
	if n2 < n {
		dst[n-1] = e.float(iv)
	}
}

// fillFromCache copies len(dst) < MinArraySize values out of the float
// cache, refilling at most once after any initial refill.
func (e *Engine) fillFromCache(dst []float64, iv Interval) {
	n := len(dst)
	if n == 0 {
		return
	}
	if e.availableFloats() == 0 {
		e.refillFloats()
	}
	m := copy(dst, e.vals[e.idxF:])
	if m == n {
		e.idxF += m
	} else {
		e.refillFloats()
		copy(dst[m:], e.vals[:n-m])
		e.idxF = n - m
	}
	if iv == CloseOpen01 {
		for i := range dst {
			dst[i] -= 1.0
		}
	}
}

// FillFloat32 fills dst with uniform float32 values in the given interval.
//
// Each raw 128-bit word yields four values: the word is XOR-folded with
// itself shifted left by 26 bits so the otherwise fixed bits near each
// exponent field receive random bits, then the mantissas are kept and
// every exponent is forced to that of 1.0.
func (e *Engine) FillFloat32(dst []float32, iv Interval) {
	n128 := len(dst) / 4
	if n128 > 0 {
		raw := make([]float64, 2*n128)
		e.FillFloat64(raw, CloseOpen12)
		for i := 0; i < n128; i++ {
			u := uint128FromFloats(raw[2*i], raw[2*i+1])
			u = u.xor(u.shl(26)).and(float32WordMask).or(float32WordOne)
			out := dst[4*i : 4*i+4]
			out[0] = math.Float32frombits(uint32(u.Lo))
			out[1] = math.Float32frombits(uint32(u.Lo >> 32))
			out[2] = math.Float32frombits(uint32(u.Hi))
			out[3] = math.Float32frombits(uint32(u.Hi >> 32))
		}
	}
	for i := 4 * n128; i < len(dst); i++ {
		dst[i] = e.Float32OneTwo()
	}
	if iv == CloseOpen01 {
		for i := range dst {
			dst[i] -= 1
		}
	}
}

// FillFloat16 fills dst with uniform half-precision values in the given
// interval, eight per raw 128-bit word, folded like FillFloat32.
func (e *Engine) FillFloat16(dst []float16.Float16, iv Interval) {
	n128 := len(dst) / 8
	if n128 > 0 {
		raw := make([]float64, 2*n128)
		e.FillFloat64(raw, CloseOpen12)
		for i := 0; i < n128; i++ {
			u := uint128FromFloats(raw[2*i], raw[2*i+1])
			u = u.xor(u.shl(26)).and(float16WordMask).or(float16WordOne)
			out := dst[8*i : 8*i+8]
			for j := 0; j < 4; j++ {
				out[j] = float16.Frombits(uint16(u.Lo >> (16 * uint(j))))
				out[4+j] = float16.Frombits(uint16(u.Hi >> (16 * uint(j))))
			}
		}
	}
	for i := 8 * n128; i < len(dst); i++ {
		dst[i] = e.Float16OneTwo()
	}
	if iv == CloseOpen01 {
		for i := range dst {
			dst[i] = float16.Fromfloat32(dst[i].Float32() - 1)
		}
	}
}

// foldLowBits moves bit 7 of every byte onto bit 0 of the same byte and
// clears everything else, leaving one random bit per byte.
func foldLowBits(v uint64) uint64 {
	return (v ^ v>>7) & boolMask
}

// FillBoolBytes fills dst with 0 or 1 bytes, one bit of entropy each.
// Whole 16-byte groups come from one integer cache block; the tail uses
// scalar draws.
func (e *Engine) FillBoolBytes(dst []byte) {
	n16 := len(dst) / 16
	for i := 0; i < n16; i++ {
		u := e.Uint128()
		binary.LittleEndian.PutUint64(dst[16*i:], foldLowBits(u.Lo))
		binary.LittleEndian.PutUint64(dst[16*i+8:], foldLowBits(u.Hi))
	}
	for i := 16 * n16; i < len(dst); i++ {
		dst[i] = byte(e.popBits(1) & 1)
	}
}

// FillBools fills dst with uniform booleans.
func (e *Engine) FillBools(dst []bool) {
	buf := getByteBuffer(len(dst))
	defer putByteBuffer(buf)
	e.FillBoolBytes(buf)
	for i, b := range buf {
		dst[i] = b == 1
	}
}

// FillUint64 fills dst from the integer cache.
func (e *Engine) FillUint64(dst []uint64) {
	for i := range dst {
		dst[i] = e.popBits(8)
	}
}

// FillUint32 fills dst from the integer cache.
func (e *Engine) FillUint32(dst []uint32) {
	for i := range dst {
		dst[i] = uint32(e.popBits(4))
	}
}

// Read implements io.Reader over the integer cache. It always fills p
// completely and never returns an error.
func (e *Engine) Read(p []byte) (int, error) {
	n8 := len(p) / 8
	for i := 0; i < n8; i++ {
		binary.LittleEndian.PutUint64(p[8*i:], e.popBits(8))
	}
	for i := 8 * n8; i < len(p); i++ {
		p[i] = byte(e.popBits(1))
	}
	return len(p), nil
}
