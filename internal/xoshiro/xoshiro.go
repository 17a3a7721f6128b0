// Package xoshiro implements the core generator used by seedrand.
//
// The generator is xoshiro256++ with its 64-bit outputs mapped onto
// doubles in [1,2): the top 52 bits of every output become the mantissa
// and the exponent field is fixed to that of 1.0. Each float therefore
// carries exactly 52 random bits, which is the contract the integer cache
// in the parent package relies on.
//
// The state transition is linear over GF(2), so the generator can be
// advanced by an arbitrary number of steps with a jump polynomial
// (see JumpPoly).
package xoshiro

import (
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
)

const (
	// MinArraySize is the smallest buffer length the parent package
	// hands to Fill when filling caller arrays directly.
	MinArraySize = 382

	// StateSize is the serialized size of a State in bytes.
	StateSize = 32

	// oneExponent is the bit pattern of 1.0 with an empty mantissa.
	oneExponent = 0x3FF0000000000000
)

// Interval selects the output range of Fill.
type Interval uint8

const (
	// CloseOpen01 yields values in [0,1).
	CloseOpen01 Interval = iota
	// CloseOpen12 yields values in [1,2), the native output.
	CloseOpen12
)

// String returns the string representation of the interval.
func (iv Interval) String() string {
	switch iv {
	case CloseOpen01:
		return "[0,1)"
	case CloseOpen12:
		return "[1,2)"
	default:
		return "Interval(?)"
	}
}

// State is the 256-bit xoshiro256++ state.
type State struct {
	s [4]uint64
}

// Init sets the state from 32-bit seed words, two words per state lane,
// low word first. Missing words are treated as zero. An all-zero state
// is replaced by a fixed nonzero one since it is a fixed point.
func (st *State) Init(words []uint32) {
	st.s = [4]uint64{}
	for i, w := range words {
		if i >= 8 {
			break
		}
		st.s[i/2] |= uint64(w) << (32 * uint(i%2))
	}
	if st.s == [4]uint64{} {
		st.s[0] = 1
	}
}

// Next advances the state by one step and returns the raw 64-bit output.
func (st *State) Next() uint64 {
	s := &st.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// step advances the state without computing an output.
func (st *State) step() {
	s := &st.s
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)
}

// Float returns the next value in [1,2).
func (st *State) Float() float64 {
	return math.Float64frombits(oneExponent | st.Next()>>12)
}

// Fill overwrites dst with len(dst) fresh values of the requested
// interval, advancing the state by exactly len(dst) units.
// The length must be even.
func (st *State) Fill(dst []float64, iv Interval) {
	if len(dst)&1 != 0 {
		panic("xoshiro: Fill requires an even length")
	}
	if iv == CloseOpen12 {
		for i := range dst {
			dst[i] = st.Float()
		}
		return
	}
	for i := range dst {
		dst[i] = st.Float() - 1.0
	}
}

// Equal reports whether two states are identical.
func (st *State) Equal(other *State) bool {
	return st.s == other.s
}

// AppendBinary appends the little-endian encoding of the state to b.
func (st *State) AppendBinary(b []byte) []byte {
	for _, v := range st.s {
		b = binary.LittleEndian.AppendUint64(b, v)
	}
	return b
}

// SetBinary restores a state encoded by AppendBinary.
func (st *State) SetBinary(b []byte) error {
	if len(b) != StateSize {
		return errors.New("xoshiro: state must be 32 bytes")
	}
	var s [4]uint64
	for i := range s {
		s[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	if s == [4]uint64{} {
		return errors.New("xoshiro: all-zero state")
	}
	st.s = s
	return nil
}
