package seedrand

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
)

// SeedVector is a fixed-seed reference case: the values drawn with
// scalar calls of one kind after skipping a number of draws.
type SeedVector struct {
	Name     string          `json:"name"`
	Seed     json.RawMessage `json:"seed"` // Tagged seed, as in the descriptor JSON
	Kind     string          `json:"kind"`
	Skip     int             `json:"skip"`
	Expected []string        `json:"expected"`
}

// HasherVector is a reference prefix of a SeedHasher byte stream.
type HasherVector struct {
	Name     string          `json:"name"`
	Seed     json.RawMessage `json:"seed"`
	Expected string          `json:"expected"` // Hex-encoded bytes
}

// SeedVectorSuite contains all reference vectors with metadata.
type SeedVectorSuite struct {
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Vectors     []SeedVector   `json:"vectors"`
	Hasher      []HasherVector `json:"hasher"`
}

// LoadSeedVectors loads reference vectors from a JSON file.
//
// This is used internally for testing but exported for external
// validation tools.
func LoadSeedVectors(path string) (*SeedVectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed vectors: %w", err)
	}

	var suite SeedVectorSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse seed vectors: %w", err)
	}

	return &suite, nil
}

// decodeVectorSeed decodes a tagged seed.
func decodeVectorSeed(raw json.RawMessage) (any, error) {
	var js jsonSeed
	if err := json.Unmarshal(raw, &js); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return decodeJSONSeed(js)
}

// GetSeed returns the decoded seed material.
func (sv *SeedVector) GetSeed() (any, error) {
	return decodeVectorSeed(sv.Seed)
}

// Run draws the vector's values from a fresh engine and returns them in
// the encoding of Expected.
func (sv *SeedVector) Run() ([]string, error) {
	seed, err := sv.GetSeed()
	if err != nil {
		return nil, err
	}
	kind, err := ParseKind(sv.Kind)
	if err != nil {
		return nil, err
	}
	e, err := New(seed)
	if err != nil {
		return nil, err
	}

	for i := 0; i < sv.Skip; i++ {
		if _, err := e.drawVectorValue(kind); err != nil {
			return nil, err
		}
	}
	out := make([]string, len(sv.Expected))
	for i := range out {
		if out[i], err = e.drawVectorValue(kind); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// drawVectorValue makes one scalar draw of kind k, formatted the way the
// vector file stores it.
func (e *Engine) drawVectorValue(k Kind) (string, error) {
	switch k {
	case KindFloat64:
		return fmt.Sprintf("0x%016x", math.Float64bits(e.Float64())), nil
	case KindFloat64OneTwo:
		return fmt.Sprintf("0x%016x", math.Float64bits(e.Float64OneTwo())), nil
	case KindUint8:
		return strconv.FormatUint(uint64(e.Uint8()), 10), nil
	case KindUint16:
		return strconv.FormatUint(uint64(e.Uint16()), 10), nil
	case KindUint32:
		return strconv.FormatUint(uint64(e.Uint32()), 10), nil
	case KindUint64:
		return strconv.FormatUint(e.Uint64(), 10), nil
	case KindUint128:
		u := e.Uint128()
		return fmt.Sprintf("0x%016x%016x", u.Hi, u.Lo), nil
	default:
		return "", fmt.Errorf("no vector encoding for kind %s", k)
	}
}

// GetExpected returns the decoded expected bytes.
func (hv *HasherVector) GetExpected() ([]byte, error) {
	expected, err := hex.DecodeString(hv.Expected)
	if err != nil {
		return nil, fmt.Errorf("invalid expected bytes: %w", err)
	}
	return expected, nil
}

// Run reads len(Expected) bytes from a SeedHasher for the vector's seed.
func (hv *HasherVector) Run() ([]byte, error) {
	seed, err := decodeVectorSeed(hv.Seed)
	if err != nil {
		return nil, err
	}
	h, err := NewSeedHasher(seed)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(hv.Expected)/2)
	_, _ = h.Read(out)
	return out, nil
}
