package seedrand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// EntropySource draws bytes from the operating system's random source.
// It has no state: every instance behaves identically and successive
// draws never repeat. It is safe for concurrent use.
type EntropySource struct{}

// randReader is the OS entropy primitive. Tests may replace it.
var randReader io.Reader = rand.Reader

// Fill fills p with OS random bytes. A failure of the OS source is
// fatal and panics; there is no retry.
func (EntropySource) Fill(p []byte) {
	if _, err := io.ReadFull(randReader, p); err != nil {
		panic(fmt.Errorf("seedrand: entropy source failed: %w", err))
	}
}

// Read implements io.Reader. It always fills p completely.
func (s EntropySource) Read(p []byte) (int, error) {
	s.Fill(p)
	return len(p), nil
}

// Uint32 returns a random native 32-bit word.
func (s EntropySource) Uint32() uint32 {
	var b [4]byte
	s.Fill(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns a random native 64-bit word.
func (s EntropySource) Uint64() uint64 {
	var b [8]byte
	s.Fill(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Uint128 returns a random 128-bit word.
func (s EntropySource) Uint128() Uint128 {
	var b [16]byte
	s.Fill(b[:])
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: binary.LittleEndian.Uint64(b[8:16]),
	}
}

// Bool draws one byte and returns its low bit.
func (s EntropySource) Bool() bool {
	var b [1]byte
	s.Fill(b[:])
	return b[0]&1 == 1
}

// FillBoolBytes fills p with random bytes and masks every byte to its
// low bit in place, leaving only 0 or 1 values.
func (s EntropySource) FillBoolBytes(p []byte) {
	s.Fill(p)
	for i := range p {
		p[i] &= 1
	}
}

// FillBools fills dst with random booleans.
func (s EntropySource) FillBools(dst []bool) {
	buf := getByteBuffer(len(dst))
	defer putByteBuffer(buf)
	s.FillBoolBytes(buf)
	for i, b := range buf {
		dst[i] = b == 1
	}
}
