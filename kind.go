package seedrand

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// Kind names an output type of the engine.
type Kind uint8

const (
	// KindFloat64 is a float64 in [0,1).
	KindFloat64 Kind = iota
	// KindFloat64OneTwo is a float64 in [1,2), the core's native range.
	KindFloat64OneTwo
	// KindFloat32 is a float32 in [0,1).
	KindFloat32
	// KindFloat16 is a half-precision float in [0,1).
	KindFloat16
	// KindUint8 is one byte from the integer cache.
	KindUint8
	// KindUint16 is two bytes from the integer cache.
	KindUint16
	// KindUint32 is four bytes from the integer cache.
	KindUint32
	// KindUint64 is eight bytes from the integer cache.
	KindUint64
	// KindUint128 is a full 128-bit block.
	KindUint128
	// KindInt64 is a uint64 draw reinterpreted as signed.
	KindInt64
	// KindBool is a single random bit.
	KindBool

	numKinds
)

var kindNames = [numKinds]string{
	KindFloat64:       "float64",
	KindFloat64OneTwo: "float64-12",
	KindFloat32:       "float32",
	KindFloat16:       "float16",
	KindUint8:         "uint8",
	KindUint16:        "uint16",
	KindUint32:        "uint32",
	KindUint64:        "uint64",
	KindUint128:       "uint128",
	KindInt64:         "int64",
	KindBool:          "bool",
}

// String returns the name accepted by ParseKind.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("seedrand: unknown kind %q", name)
}

// IsFloat reports whether k produces floating-point values.
func (k Kind) IsFloat() bool {
	switch k {
	case KindFloat64, KindFloat64OneTwo, KindFloat32, KindFloat16:
		return true
	}
	return false
}

// textHandlers holds one handler per kind. Each appends n values, one
// per line.
var textHandlers = [numKinds]func(e *Engine, dst []byte, n int) []byte{
	KindFloat64: func(e *Engine, dst []byte, n int) []byte {
		return appendFloats(dst, e.float64s(n, CloseOpen01))
	},
	KindFloat64OneTwo: func(e *Engine, dst []byte, n int) []byte {
		return appendFloats(dst, e.float64s(n, CloseOpen12))
	},
	KindFloat32: func(e *Engine, dst []byte, n int) []byte {
		vs := make([]float32, n)
		e.FillFloat32(vs, CloseOpen01)
		for _, v := range vs {
			dst = strconv.AppendFloat(dst, float64(v), 'g', -1, 32)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindFloat16: func(e *Engine, dst []byte, n int) []byte {
		vs := make([]float16.Float16, n)
		e.FillFloat16(vs, CloseOpen01)
		for _, v := range vs {
			dst = strconv.AppendFloat(dst, float64(v.Float32()), 'g', -1, 32)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindUint8: func(e *Engine, dst []byte, n int) []byte {
		for i := 0; i < n; i++ {
			dst = strconv.AppendUint(dst, uint64(e.Uint8()), 10)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindUint16: func(e *Engine, dst []byte, n int) []byte {
		for i := 0; i < n; i++ {
			dst = strconv.AppendUint(dst, uint64(e.Uint16()), 10)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindUint32: func(e *Engine, dst []byte, n int) []byte {
		for i := 0; i < n; i++ {
			dst = strconv.AppendUint(dst, uint64(e.Uint32()), 10)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindUint64: func(e *Engine, dst []byte, n int) []byte {
		for i := 0; i < n; i++ {
			dst = strconv.AppendUint(dst, e.Uint64(), 10)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindUint128: func(e *Engine, dst []byte, n int) []byte {
		for i := 0; i < n; i++ {
			dst = append(dst, e.Uint128().String()...)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindInt64: func(e *Engine, dst []byte, n int) []byte {
		for i := 0; i < n; i++ {
			dst = strconv.AppendInt(dst, e.Int64(), 10)
			dst = append(dst, '\n')
		}
		return dst
	},
	KindBool: func(e *Engine, dst []byte, n int) []byte {
		bs := getByteBuffer(n)
		defer putByteBuffer(bs)
		e.FillBoolBytes(bs)
		for _, b := range bs {
			dst = strconv.AppendBool(dst, b == 1)
			dst = append(dst, '\n')
		}
		return dst
	},
}

// AppendText draws n values of kind k and appends them to dst as text,
// one per line. Floats use the shortest representation that round-trips.
//
// Values are drawn with the bulk fill of each kind, so the output for
// one call of n values can differ from n calls of one value: large
// float batches are generated directly by the core instead of through
// the float cache.
func (e *Engine) AppendText(dst []byte, k Kind, n int) ([]byte, error) {
	if k >= numKinds {
		return dst, fmt.Errorf("seedrand: unknown kind %d", k)
	}
	if n < 0 {
		return dst, fmt.Errorf("seedrand: negative count %d", n)
	}
	return textHandlers[k](e, dst, n), nil
}

func (e *Engine) float64s(n int, iv Interval) []float64 {
	vs := make([]float64, n)
	e.FillFloat64(vs, iv)
	return vs
}

func appendFloats(dst []byte, vs []float64) []byte {
	for _, v := range vs {
		dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
		dst = append(dst, '\n')
	}
	return dst
}
