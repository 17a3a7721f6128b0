package seedrand

import (
	"encoding/binary"
	"math"
	"math/big"
)

// Uint128 is an unsigned 128-bit integer. Viewed as 16 bytes it is
// little-endian: bytes 0-7 hold Lo, bytes 8-15 hold Hi.
type Uint128 struct {
	Lo, Hi uint64
}

// uint128FromFloats reinterprets two consecutive doubles as one 128-bit
// word, the first double providing the low half.
func uint128FromFloats(lo, hi float64) Uint128 {
	return Uint128{Lo: math.Float64bits(lo), Hi: math.Float64bits(hi)}
}

// shl returns u shifted left by n bits, 0 < n < 64.
func (u Uint128) shl(n uint) Uint128 {
	return Uint128{Lo: u.Lo << n, Hi: u.Hi<<n | u.Lo>>(64-n)}
}

// xor returns u ^ v.
func (u Uint128) xor(v Uint128) Uint128 {
	return Uint128{Lo: u.Lo ^ v.Lo, Hi: u.Hi ^ v.Hi}
}

// and returns u & v.
func (u Uint128) and(v Uint128) Uint128 {
	return Uint128{Lo: u.Lo & v.Lo, Hi: u.Hi & v.Hi}
}

// or returns u | v.
func (u Uint128) or(v Uint128) Uint128 {
	return Uint128{Lo: u.Lo | v.Lo, Hi: u.Hi | v.Hi}
}

// shr64 returns the 64 bits of u starting at bit n, n < 128.
func (u Uint128) shr64(n uint) uint64 {
	switch {
	case n == 0:
		return u.Lo
	case n < 64:
		return u.Lo>>n | u.Hi<<(64-n)
	default:
		return u.Hi >> (n - 64)
	}
}

// PutBytes writes the little-endian encoding of u into b[:16].
func (u Uint128) PutBytes(b []byte) {
	binary.LittleEndian.PutUint64(b[0:8], u.Lo)
	binary.LittleEndian.PutUint64(b[8:16], u.Hi)
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

// String returns the decimal representation of u.
func (u Uint128) String() string {
	return u.Big().String()
}
