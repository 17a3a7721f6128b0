package seedrand

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"slices"
)

// Trailing discriminators keep the encodings of different seed kinds
// from colliding.
const (
	discInteger  byte = 0x10
	discWords    byte = 0x20
	discString   byte = 0x30
	markNegative byte = 0x01
)

// appendCanonical appends the canonical byte encoding of seed material.
func appendCanonical(dst []byte, seed any) ([]byte, error) {
	switch v := seed.(type) {
	case int:
		return appendInt(dst, int64(v)), nil
	case int8:
		return appendInt(dst, int64(v)), nil
	case int16:
		return appendInt(dst, int64(v)), nil
	case int32:
		return appendInt(dst, int64(v)), nil
	case int64:
		return appendInt(dst, v), nil
	case uint:
		return appendMagnitude(dst, uint64(v), false), nil
	case uint8:
		return appendMagnitude(dst, uint64(v), false), nil
	case uint16:
		return appendMagnitude(dst, uint64(v), false), nil
	case uint32:
		return appendMagnitude(dst, uint64(v), false), nil
	case uint64:
		return appendMagnitude(dst, v, false), nil
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrUnsupportedSeed)
		}
		return appendBig(dst, v), nil
	case string:
		return appendString(dst, v), nil
	case []uint32:
		for _, w := range v {
			dst = binary.LittleEndian.AppendUint64(dst, uint64(w))
		}
		return append(dst, discWords), nil
	case []int32:
		for _, w := range v {
			dst = binary.LittleEndian.AppendUint64(dst, uint64(int64(w)))
		}
		return append(dst, discWords), nil
	case []uint64:
		for _, w := range v {
			dst = binary.LittleEndian.AppendUint64(dst, w)
		}
		return append(dst, discWords), nil
	case []int64:
		for _, w := range v {
			dst = binary.LittleEndian.AppendUint64(dst, uint64(w))
		}
		return append(dst, discWords), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSeed, seed)
	}
}

// canonicalBytes returns the canonical encoding of seed material.
func canonicalBytes(seed any) ([]byte, error) {
	return appendCanonical(make([]byte, 0, 64), seed)
}

func appendInt(dst []byte, v int64) []byte {
	if v < 0 {
		// Two's complement negation yields the magnitude even for MinInt64.
		return appendMagnitude(dst, uint64(-v), true)
	}
	return appendMagnitude(dst, uint64(v), false)
}

// appendMagnitude emits 32-bit little-endian words, low word first,
// until the magnitude is exhausted. Zero emits a single zero word.
func appendMagnitude(dst []byte, mag uint64, neg bool) []byte {
	for {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(mag))
		mag >>= 32
		if mag == 0 {
			break
		}
	}
	dst = append(dst, discInteger)
	if neg {
		dst = append(dst, markNegative)
	}
	return dst
}

func appendBig(dst []byte, v *big.Int) []byte {
	mag := new(big.Int).Abs(v)
	mask := new(big.Int).SetUint64(0xFFFFFFFF)
	word := new(big.Int)
	for {
		word.And(mag, mask)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(word.Uint64()))
		mag.Rsh(mag, 32)
		if mag.Sign() == 0 {
			break
		}
	}
	dst = append(dst, discInteger)
	if v.Sign() < 0 {
		dst = append(dst, markNegative)
	}
	return dst
}

// appendString emits the UTF-8 bytes padded to a multiple of four with
// k bytes of value k, k in [1,4].
func appendString(dst []byte, s string) []byte {
	dst = append(dst, s...)
	k := 4 - len(s)%4
	for i := 0; i < k; i++ {
		dst = append(dst, byte(k))
	}
	return append(dst, discString)
}

// cloneSeed returns a deep copy of seed material so the engine never
// aliases caller memory.
func cloneSeed(seed any) any {
	switch v := seed.(type) {
	case *big.Int:
		return new(big.Int).Set(v)
	case []uint32:
		return slices.Clone(v)
	case []int32:
		return slices.Clone(v)
	case []uint64:
		return slices.Clone(v)
	case []int64:
		return slices.Clone(v)
	default:
		return v
	}
}

// sameSeed reports whether two seeds have the same canonical encoding.
func sameSeed(a, b any) bool {
	ea, errA := canonicalBytes(a)
	eb, errB := canonicalBytes(b)
	if errA != nil || errB != nil {
		return false
	}
	return slices.Equal(ea, eb)
}
