package seedrand

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/opd-ai/go-seedrand/internal/xoshiro"
)

// snapshotMagic identifies the binary engine encoding.
const snapshotMagic = "SRE1"

// MarshalBinary encodes the complete engine state, including both
// caches, so that UnmarshalBinary yields an engine equal to e.
//
// Layout, little-endian: magic, core state, adv, advJump, advVals,
// advInts, idxF, idxI, float cache length and values, integer cache
// length and blocks, then the length-prefixed JSON seed.
func (e *Engine) MarshalBinary() ([]byte, error) {
	seed, err := encodeJSONSeed(e.seed)
	if err != nil {
		return nil, err
	}
	seedJSON, err := json.Marshal(seed)
	if err != nil {
		return nil, err
	}

	size := len(snapshotMagic) + xoshiro.StateSize + 4*8 + 2*4 +
		4 + 8*FloatCacheLen + 4 + 16*IntCacheBlocks + 4 + len(seedJSON)
	b := make([]byte, 0, size)

	b = append(b, snapshotMagic...)
	b = e.core.AppendBinary(b)
	b = binary.LittleEndian.AppendUint64(b, uint64(e.adv))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.advJump))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.advVals))
	b = binary.LittleEndian.AppendUint64(b, uint64(e.advInts))
	b = binary.LittleEndian.AppendUint32(b, uint32(e.idxF))
	b = binary.LittleEndian.AppendUint32(b, uint32(e.idxI))

	b = binary.LittleEndian.AppendUint32(b, FloatCacheLen)
	for _, v := range e.vals {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	b = binary.LittleEndian.AppendUint32(b, IntCacheBlocks)
	for _, u := range e.ints {
		b = binary.LittleEndian.AppendUint64(b, u.Lo)
		b = binary.LittleEndian.AppendUint64(b, u.Hi)
	}

	b = binary.LittleEndian.AppendUint32(b, uint32(len(seedJSON)))
	b = append(b, seedJSON...)
	return b, nil
}

// snapshotReader consumes a binary snapshot front to back.
type snapshotReader struct {
	b   []byte
	err error
}

func (r *snapshotReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.b) < n {
		r.err = fmt.Errorf("%w: truncated snapshot", ErrInvalidState)
		return nil
	}
	p := r.b[:n]
	r.b = r.b[n:]
	return p
}

func (r *snapshotReader) uint32() uint32 {
	p := r.next(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (r *snapshotReader) uint64() uint64 {
	p := r.next(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

// UnmarshalBinary restores an engine encoded by MarshalBinary. Snapshots
// whose cache lengths or indices are inconsistent are rejected with
// ErrInvalidState and leave e unchanged.
func (e *Engine) UnmarshalBinary(data []byte) error {
	r := &snapshotReader{b: data}
	if string(r.next(len(snapshotMagic))) != snapshotMagic {
		if r.err != nil {
			return r.err
		}
		return fmt.Errorf("%w: bad magic", ErrInvalidState)
	}

	var s Engine
	if p := r.next(xoshiro.StateSize); p != nil {
		if err := s.core.SetBinary(p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}
	s.adv = int64(r.uint64())
	s.advJump = int64(r.uint64())
	s.advVals = int64(r.uint64())
	s.advInts = int64(r.uint64())
	s.idxF = int(r.uint32())
	s.idxI = int(r.uint32())

	if n := r.uint32(); r.err == nil && n != FloatCacheLen {
		return fmt.Errorf("%w: float cache length %d, want %d", ErrInvalidState, n, FloatCacheLen)
	}
	for i := range s.vals {
		s.vals[i] = math.Float64frombits(r.uint64())
	}
	if n := r.uint32(); r.err == nil && n != IntCacheBlocks {
		return fmt.Errorf("%w: int cache length %d, want %d", ErrInvalidState, n, IntCacheBlocks)
	}
	for i := range s.ints {
		s.ints[i].Lo = r.uint64()
		s.ints[i].Hi = r.uint64()
	}

	seedJSON := r.next(int(r.uint32()))
	if r.err != nil {
		return r.err
	}
	if len(r.b) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidState, len(r.b))
	}

	var js jsonSeed
	if err := json.Unmarshal(seedJSON, &js); err != nil {
		return fmt.Errorf("%w: seed: %w", ErrInvalidState, err)
	}
	seed, err := decodeJSONSeed(js)
	if err != nil {
		return fmt.Errorf("%w: seed: %w", ErrInvalidState, err)
	}
	s.seed = seed

	if err := s.checkState(); err != nil {
		return err
	}
	*e = s
	return nil
}

// checkState verifies the cursor and counter invariants of a decoded
// engine.
func (e *Engine) checkState() error {
	switch {
	case e.idxF < 0 || e.idxF > FloatCacheLen:
		return fmt.Errorf("%w: float cache index %d", ErrInvalidState, e.idxF)
	case e.idxI < 0 || e.idxI > IntCacheBytes:
		return fmt.Errorf("%w: int cache index %d", ErrInvalidState, e.idxI)
	case e.adv < 0 || e.advJump < 0:
		return fmt.Errorf("%w: negative counters", ErrInvalidState)
	case e.advVals == unfilled && e.idxF != FloatCacheLen:
		return fmt.Errorf("%w: unfilled float cache has index %d", ErrInvalidState, e.idxF)
	case e.advInts == unfilled && e.idxI != 0:
		return fmt.Errorf("%w: unfilled int cache has index %d", ErrInvalidState, e.idxI)
	case e.advVals < unfilled || e.advVals > e.adv:
		return fmt.Errorf("%w: float cache position %d", ErrInvalidState, e.advVals)
	case e.advInts < unfilled || e.advInts > e.adv:
		return fmt.Errorf("%w: int cache position %d", ErrInvalidState, e.advInts)
	}
	return nil
}
