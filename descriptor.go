package seedrand

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// CachePos records where a cache was last filled and how far it has
// been consumed.
type CachePos struct {
	Adv int64 `json:"adv"` // Core units consumed before the fill
	Idx int   `json:"idx"` // idxF for the float cache, idxI for the integer cache
}

// Descriptor is the compact position of an engine. Restore rebuilds an
// engine from it that produces bit-identical output to the one it was
// taken from.
//
// Vals and Ints are nil when the corresponding cache has not been filled
// since the engine was seeded or last jumped.
type Descriptor struct {
	Seed    any
	AdvJump int64
	Adv     int64
	Vals    *CachePos
	Ints    *CachePos
}

// Descriptor captures the current position of the engine.
func (e *Engine) Descriptor() Descriptor {
	d := Descriptor{
		Seed:    cloneSeed(e.seed),
		AdvJump: e.advJump,
		Adv:     e.adv,
	}
	if e.advVals != unfilled {
		d.Vals = &CachePos{Adv: e.advVals, Idx: e.idxF}
	}
	if e.advInts != unfilled {
		d.Ints = &CachePos{Adv: e.advInts, Idx: e.idxI}
	}
	return d
}

// Validate checks that the descriptor is internally consistent. It does
// not detect positions that would require moving backwards; Restore
// reports those as ErrBackwardAdvance.
func (d Descriptor) Validate() error {
	switch d.Seed.(type) {
	case nil, *Engine, *SeedHasher:
		return fmt.Errorf("%w: seed must be concrete material, got %T", ErrInvalidDescriptor, d.Seed)
	}
	if _, err := canonicalBytes(d.Seed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if err := checkUnits("jump", d.AdvJump); err != nil {
		return err
	}
	if err := checkUnits("advance", d.Adv); err != nil {
		return err
	}
	if d.Vals != nil {
		if err := checkUnits("float cache advance", d.Vals.Adv); err != nil {
			return err
		}
		if d.Vals.Idx < 0 || d.Vals.Idx > FloatCacheLen {
			return fmt.Errorf("%w: float cache index %d out of range [0,%d]",
				ErrInvalidDescriptor, d.Vals.Idx, FloatCacheLen)
		}
	}
	if d.Ints != nil {
		if err := checkUnits("int cache advance", d.Ints.Adv); err != nil {
			return err
		}
		if d.Ints.Idx < 0 || d.Ints.Idx > IntCacheBytes {
			return fmt.Errorf("%w: int cache index %d out of range [0,%d]",
				ErrInvalidDescriptor, d.Ints.Idx, IntCacheBytes)
		}
	}
	if d.Vals != nil && d.Ints != nil && d.Vals.Adv == d.Ints.Adv {
		return fmt.Errorf("%w: both caches filled at %d", ErrInvalidDescriptor, d.Vals.Adv)
	}
	return nil
}

// checkUnits rejects negative or odd core unit counts. Every operation
// that moves the core does so by an even number of units.
func checkUnits(what string, n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: negative %s %d", ErrInvalidDescriptor, what, n)
	}
	if n%2 != 0 {
		return fmt.Errorf("%w: odd %s %d", ErrInvalidDescriptor, what, n)
	}
	return nil
}

// String renders the descriptor as
// Engine(seed, (advJump, adv[, advVals, idxF[, advInts, idxI]])).
// When only the integer cache is present the float pair reads -1, 0.
func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString("Engine(")
	sb.WriteString(formatSeed(d.Seed))
	sb.WriteString(", (")
	sb.WriteString(strconv.FormatInt(d.AdvJump, 10))
	sb.WriteString(", ")
	sb.WriteString(strconv.FormatInt(d.Adv, 10))
	switch {
	case d.Vals != nil:
		fmt.Fprintf(&sb, ", %d, %d", d.Vals.Adv, d.Vals.Idx)
	case d.Ints != nil:
		sb.WriteString(", -1, 0")
	}
	if d.Ints != nil {
		fmt.Fprintf(&sb, ", %d, %d", d.Ints.Adv, d.Ints.Idx)
	}
	sb.WriteString("))")
	return sb.String()
}

// formatSeed renders seed material for display.
func formatSeed(seed any) string {
	switch v := seed.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case *big.Int:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Restore builds an engine positioned exactly where the engine that
// produced d was.
//
// The engine is seeded from d.Seed and jumped by d.AdvJump. The caches
// present in d are then regenerated in ascending order of their fill
// positions by advancing the core to each position and refilling, and
// the core is finally advanced to d.Adv.
func Restore(d Descriptor) (*Engine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	e, err := New(d.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if d.AdvJump != 0 {
		if err := e.Jump(d.AdvJump); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
		}
	}

	type target struct {
		pos  CachePos
		ints bool
	}
	targets := make([]target, 0, 2)
	if d.Vals != nil {
		targets = append(targets, target{pos: *d.Vals})
	}
	if d.Ints != nil {
		targets = append(targets, target{pos: *d.Ints, ints: true})
	}
	slices.SortFunc(targets, func(a, b target) int {
		return cmp.Compare(a.pos.Adv, b.pos.Adv)
	})

	for _, t := range targets {
		if err := e.advanceTo(t.pos.Adv); err != nil {
			return nil, err
		}
		if t.ints {
			e.refillInts()
			e.idxI = t.pos.Idx
		} else {
			e.refillFloats()
			e.idxF = t.pos.Idx
		}
	}
	if err := e.advanceTo(d.Adv); err != nil {
		return nil, err
	}

	log().Debug().Str("descriptor", d.String()).Msg("engine restored")
	return e, nil
}

// advanceTo moves the core forward to adv units, discarding the output.
func (e *Engine) advanceTo(adv int64) error {
	delta := adv - e.adv
	if delta < 0 {
		return fmt.Errorf("%w: from %d to %d", ErrBackwardAdvance, e.adv, adv)
	}
	if delta%2 != 0 {
		return fmt.Errorf("%w: odd advance %d", ErrInvalidDescriptor, delta)
	}
	if delta == 0 {
		return nil
	}

	bufp := getAdvanceBuffer()
	defer putAdvanceBuffer(bufp)
	buf := *bufp

	for delta >= int64(len(buf)) {
		e.core.Fill(buf[:MinArraySize], CloseOpen12)
		e.core.Fill(buf[MinArraySize:], CloseOpen12)
		delta -= int64(len(buf))
		e.adv += int64(len(buf))
	}
	if delta > 0 {
		e.core.Fill(buf[:delta], CloseOpen12)
		e.adv += delta
	}
	return nil
}

// Seed kinds in the JSON encoding.
const (
	jsonSeedInt     = "int"
	jsonSeedString  = "string"
	jsonSeedUint32s = "uint32s"
	jsonSeedInt32s  = "int32s"
	jsonSeedUint64s = "uint64s"
	jsonSeedInt64s  = "int64s"
)

type jsonSeed struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type jsonDescriptor struct {
	Seed    jsonSeed  `json:"seed"`
	AdvJump int64     `json:"adv_jump"`
	Adv     int64     `json:"adv"`
	Vals    *CachePos `json:"vals,omitempty"`
	Ints    *CachePos `json:"ints,omitempty"`
}

// MarshalJSON encodes the descriptor with a tagged seed. Integer seeds
// of every width are written as decimal strings.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	seed, err := encodeJSONSeed(d.Seed)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonDescriptor{
		Seed:    seed,
		AdvJump: d.AdvJump,
		Adv:     d.Adv,
		Vals:    d.Vals,
		Ints:    d.Ints,
	})
}

// UnmarshalJSON decodes a descriptor written by MarshalJSON. Integer
// seeds decode to int64 when they fit and to *big.Int otherwise; both
// seed an engine identically.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var jd jsonDescriptor
	if err := json.Unmarshal(data, &jd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	seed, err := decodeJSONSeed(jd.Seed)
	if err != nil {
		return err
	}
	*d = Descriptor{
		Seed:    seed,
		AdvJump: jd.AdvJump,
		Adv:     jd.Adv,
		Vals:    jd.Vals,
		Ints:    jd.Ints,
	}
	return nil
}

func encodeJSONSeed(seed any) (jsonSeed, error) {
	var (
		kind  string
		value any
	)
	switch v := seed.(type) {
	case int:
		kind, value = jsonSeedInt, strconv.FormatInt(int64(v), 10)
	case int8:
		kind, value = jsonSeedInt, strconv.FormatInt(int64(v), 10)
	case int16:
		kind, value = jsonSeedInt, strconv.FormatInt(int64(v), 10)
	case int32:
		kind, value = jsonSeedInt, strconv.FormatInt(int64(v), 10)
	case int64:
		kind, value = jsonSeedInt, strconv.FormatInt(v, 10)
	case uint:
		kind, value = jsonSeedInt, strconv.FormatUint(uint64(v), 10)
	case uint8:
		kind, value = jsonSeedInt, strconv.FormatUint(uint64(v), 10)
	case uint16:
		kind, value = jsonSeedInt, strconv.FormatUint(uint64(v), 10)
	case uint32:
		kind, value = jsonSeedInt, strconv.FormatUint(uint64(v), 10)
	case uint64:
		kind, value = jsonSeedInt, strconv.FormatUint(v, 10)
	case *big.Int:
		if v == nil {
			return jsonSeed{}, fmt.Errorf("%w: nil *big.Int", ErrUnsupportedSeed)
		}
		kind, value = jsonSeedInt, v.String()
	case string:
		kind, value = jsonSeedString, v
	case []uint32:
		kind, value = jsonSeedUint32s, v
	case []int32:
		kind, value = jsonSeedInt32s, v
	case []uint64:
		kind, value = jsonSeedUint64s, v
	case []int64:
		kind, value = jsonSeedInt64s, v
	default:
		return jsonSeed{}, fmt.Errorf("%w: %T", ErrUnsupportedSeed, seed)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return jsonSeed{}, err
	}
	return jsonSeed{Type: kind, Value: raw}, nil
}

func decodeJSONSeed(js jsonSeed) (any, error) {
	var err error
	switch js.Type {
	case jsonSeedInt:
		var s string
		if err = json.Unmarshal(js.Value, &s); err != nil {
			break
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: bad integer seed %q", ErrInvalidDescriptor, s)
		}
		if n.IsInt64() {
			return n.Int64(), nil
		}
		return n, nil
	case jsonSeedString:
		var s string
		err = json.Unmarshal(js.Value, &s)
		return s, wrapDecode(err)
	case jsonSeedUint32s:
		v := []uint32{}
		err = json.Unmarshal(js.Value, &v)
		return v, wrapDecode(err)
	case jsonSeedInt32s:
		v := []int32{}
		err = json.Unmarshal(js.Value, &v)
		return v, wrapDecode(err)
	case jsonSeedUint64s:
		v := []uint64{}
		err = json.Unmarshal(js.Value, &v)
		return v, wrapDecode(err)
	case jsonSeedInt64s:
		v := []int64{}
		err = json.Unmarshal(js.Value, &v)
		return v, wrapDecode(err)
	default:
		return nil, fmt.Errorf("%w: unknown seed type %q", ErrInvalidDescriptor, js.Type)
	}
	return nil, wrapDecode(err)
}

func wrapDecode(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
}
