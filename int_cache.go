package seedrand

import (
	"math/bits"
)

// refillInts regenerates the integer cache.
//
// The core only randomizes the low 52 bits of each 64-bit unit, i.e.
// 104 of every 128 bits. 627 raw words are generated and the last 126
// are folded into the first 501 so that every output bit depends on at
// least one random raw bit: each overflow word is XORed into four base
// words shifted by 48, 36, 24 and 12 bits.
func (e *Engine) refillInts() {
	bufp := getRawIntBuffer()
	defer putRawIntBuffer(bufp)
	raw := *bufp

	e.advInts = e.adv
	e.core.Fill(raw, CloseOpen12)
	e.adv += rawIntUnits

	for i := range e.ints {
		e.ints[i] = uint128FromFloats(raw[2*i], raw[2*i+1])
	}

	k := IntCacheBlocks
	n := 0
	for n+3 < IntCacheBlocks {
		u := uint128FromFloats(raw[2*k], raw[2*k+1])
		k++
		e.ints[n] = e.ints[n].xor(u.shl(48))
		e.ints[n+1] = e.ints[n+1].xor(u.shl(36))
		e.ints[n+2] = e.ints[n+2].xor(u.shl(24))
		e.ints[n+3] = e.ints[n+3].xor(u.shl(12))
		n += 4
	}
	last := uint128FromFloats(raw[2*k], raw[2*k+1])
	e.ints[IntCacheBlocks-1] = e.ints[IntCacheBlocks-1].xor(last.shl(12))
	e.idxI = IntCacheBytes

	log().Trace().Int64("adv", e.advInts).Msg("int cache refilled")
}

// popBits consumes w bytes, w in {1, 2, 4, 8}, from the integer cache.
//
// idxI counts remaining bytes down; the byte offset handed out mirrors
// it so the first value after a refill comes from the lowest-order bytes
// of block 0 and consecutive narrow draws concatenate, little-endian,
// into the value one wider draw would have produced.
func (e *Engine) popBits(w int) uint64 {
	if e.idxI < w {
		e.refillInts()
	}
	e.idxI -= w

	i := IntCacheBytes - w - (e.idxI &^ (w - 1))
	block := e.ints[i>>4]
	sub := (i >> uint(bits.TrailingZeros(uint(w)))) & (16/w - 1)
	v := block.shr64(uint(sub * w * 8))
	if w == 8 {
		return v
	}
	return v & (1<<(uint(w)*8) - 1)
}

// Uint8 returns a uniform uint8.
func (e *Engine) Uint8() uint8 {
	return uint8(e.popBits(1))
}

// Uint16 returns a uniform uint16.
func (e *Engine) Uint16() uint16 {
	return uint16(e.popBits(2))
}

// Uint32 returns a uniform uint32.
func (e *Engine) Uint32() uint32 {
	return uint32(e.popBits(4))
}

// Uint64 returns a uniform uint64.
func (e *Engine) Uint64() uint64 {
	return e.popBits(8)
}

// Int32 returns a uniform int32 over the full range.
func (e *Engine) Int32() int32 {
	return int32(e.popBits(4))
}

// Int64 returns a uniform int64 over the full range.
func (e *Engine) Int64() int64 {
	return int64(e.popBits(8))
}

// Uint128 returns one whole block from the integer cache. Bytes left in
// a partially consumed block are skipped.
func (e *Engine) Uint128() Uint128 {
	if e.idxI < 16 {
		e.refillInts()
	}
	r := e.idxI &^ 15
	e.idxI = r - 16
	return e.ints[(IntCacheBytes-r)>>4]
}

// Bool returns a uniform boolean from the low bit of one cached byte.
func (e *Engine) Bool() bool {
	return e.popBits(1)&1 == 1
}
