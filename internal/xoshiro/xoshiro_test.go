package xoshiro

import (
	"math"
	"testing"
)

func TestNextReferenceOutput(t *testing.T) {
	st := State{s: [4]uint64{1, 2, 3, 4}}
	want := []uint64{41943041, 58720359, 3588806011781223, 3591011842654386}
	for i, w := range want {
		if got := st.Next(); got != w {
			t.Fatalf("Next() #%d = %d, want %d", i, got, w)
		}
	}
}

func TestInit(t *testing.T) {
	var st State
	st.Init([]uint32{1, 2, 3, 4, 5, 6, 7, 8})
	want := [4]uint64{2<<32 | 1, 4<<32 | 3, 6<<32 | 5, 8<<32 | 7}
	if st.s != want {
		t.Errorf("Init() state = %x, want %x", st.s, want)
	}

	st.Init(nil)
	if st.s == [4]uint64{} {
		t.Error("Init(nil) left an all-zero state")
	}
}

func TestFillIntervals(t *testing.T) {
	var a, b State
	a.Init([]uint32{42})
	b.Init([]uint32{42})

	hi := make([]float64, 64)
	lo := make([]float64, 64)
	a.Fill(hi, CloseOpen12)
	b.Fill(lo, CloseOpen01)

	for i := range hi {
		if hi[i] < 1 || hi[i] >= 2 {
			t.Fatalf("[1,2) value %d out of range: %v", i, hi[i])
		}
		if lo[i] < 0 || lo[i] >= 1 {
			t.Fatalf("[0,1) value %d out of range: %v", i, lo[i])
		}
		if hi[i]-1 != lo[i] {
			t.Fatalf("value %d: %v - 1 != %v", i, hi[i], lo[i])
		}
		if math.Float64bits(hi[i])>>52 != 0x3FF {
			t.Fatalf("value %d has exponent %x", i, math.Float64bits(hi[i])>>52)
		}
	}
}

func TestFillOddLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Fill() with odd length should panic")
		}
	}()
	var st State
	st.Init([]uint32{1})
	st.Fill(make([]float64, 3), CloseOpen12)
}

func TestFillMatchesFloat(t *testing.T) {
	var a, b State
	a.Init([]uint32{7, 7})
	b.Init([]uint32{7, 7})

	buf := make([]float64, MinArraySize)
	a.Fill(buf, CloseOpen12)
	for i, v := range buf {
		if got := b.Float(); got != v {
			t.Fatalf("Float() #%d = %v, Fill gave %v", i, got, v)
		}
	}
}

// The published xoshiro256 jump polynomials are x^(2^128) and x^(2^192)
// modulo the characteristic polynomial.
func TestCharPolyMatchesPublishedJumps(t *testing.T) {
	charOnce.Do(computeCharPoly)

	tests := []struct {
		name string
		exp  int
		want Poly
	}{
		{"jump", 128, Poly{0x180ec6d33cfd0aba, 0xd5a61266f0c9392c, 0xa9582618e03fc9aa, 0x39abdc4529b1661c}},
		{"long jump", 192, Poly{0x76e15d3efefdcbbf, 0xc5004e441c522fb3, 0x77710069854ee241, 0x39109bb02acbe635}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Poly{2}
			for i := 0; i < tt.exp; i++ {
				p = mulMod(p, p)
			}
			if p != tt.want {
				t.Errorf("x^(2^%d) = %x, want %x", tt.exp, p, tt.want)
			}
		})
	}
}

func TestJumpMatchesStepping(t *testing.T) {
	for _, steps := range []uint64{0, 1, 2, 255, 256, 1000, 12345} {
		var jumped, stepped State
		jumped.Init([]uint32{9, 8, 7, 6, 5, 4, 3, 2})
		stepped = jumped

		jumped.Jump(JumpPoly(steps))
		for i := uint64(0); i < steps; i++ {
			stepped.Next()
		}
		if !jumped.Equal(&stepped) {
			t.Errorf("Jump(%d) state differs from %d steps", steps, steps)
		}
	}
}

func TestJumpPolyZeroIsIdentity(t *testing.T) {
	if p := JumpPoly(0); p != (Poly{1}) {
		t.Errorf("JumpPoly(0) = %x, want 1", p)
	}
}

func TestJumpComposes(t *testing.T) {
	var a, b State
	a.Init([]uint32{1, 2, 3})
	b = a

	a.Jump(JumpPoly(1 << 40))
	a.Jump(JumpPoly(1 << 40))
	b.Jump(JumpPoly(1 << 41))
	if !a.Equal(&b) {
		t.Error("two jumps of 2^40 differ from one jump of 2^41")
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	var a, b State
	a.Init([]uint32{11, 22, 33, 44})
	enc := a.AppendBinary(nil)
	if len(enc) != StateSize {
		t.Fatalf("encoded length = %d, want %d", len(enc), StateSize)
	}
	if err := b.SetBinary(enc); err != nil {
		t.Fatalf("SetBinary() error = %v", err)
	}
	if !a.Equal(&b) {
		t.Error("state changed across binary round trip")
	}
	if err := b.SetBinary(enc[:5]); err == nil {
		t.Error("SetBinary() with short input should fail")
	}
	if err := b.SetBinary(make([]byte, StateSize)); err == nil {
		t.Error("SetBinary() with zero state should fail")
	}
}

func TestBerlekampMasseyShortSequence(t *testing.T) {
	// s_i = s_{i-1} xor s_{i-2}: period-3 sequence 1,1,0,...
	seq := []uint8{1, 1, 0, 1, 1, 0, 1, 1, 0, 1}
	c := berlekampMassey(seq)
	want := []uint8{1, 1, 1}
	if len(c) != len(want) {
		t.Fatalf("berlekampMassey() = %v, want %v", c, want)
	}
	for i := range want {
		if c[i] != want[i] {
			t.Fatalf("berlekampMassey() = %v, want %v", c, want)
		}
	}
}
