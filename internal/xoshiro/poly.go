package xoshiro

import (
	"math/bits"
	"sync"
)

// degree is the degree of the characteristic polynomial of the
// xoshiro256 transition, equal to the state size in bits.
const degree = 256

// Poly is a polynomial over GF(2) of degree below 256. Coefficient k is
// bit k%64 of word k/64.
type Poly [4]uint64

var (
	charOnce sync.Once
	// charLow holds the low 256 coefficients of the monic degree-256
	// characteristic polynomial.
	charLow Poly
)

// bit reports coefficient i.
func (p *Poly) bit(i int) bool {
	return p[i>>6]>>(uint(i)&63)&1 == 1
}

// mulX multiplies p by x modulo the characteristic polynomial.
func (p Poly) mulX() Poly {
	carry := p[3] >> 63
	p[3] = p[3]<<1 | p[2]>>63
	p[2] = p[2]<<1 | p[1]>>63
	p[1] = p[1]<<1 | p[0]>>63
	p[0] <<= 1
	if carry != 0 {
		p[0] ^= charLow[0]
		p[1] ^= charLow[1]
		p[2] ^= charLow[2]
		p[3] ^= charLow[3]
	}
	return p
}

// mulMod returns a*b modulo the characteristic polynomial.
func mulMod(a, b Poly) Poly {
	var r Poly
	for i := degree - 1; i >= 0; i-- {
		r = r.mulX()
		if a.bit(i) {
			r[0] ^= b[0]
			r[1] ^= b[1]
			r[2] ^= b[2]
			r[3] ^= b[3]
		}
	}
	return r
}

// JumpPoly returns x^steps modulo the characteristic polynomial of the
// transition. Applying it with State.Jump advances a state by steps.
func JumpPoly(steps uint64) Poly {
	charOnce.Do(computeCharPoly)

	r := Poly{1}
	for i := 63 - bits.LeadingZeros64(steps); i >= 0; i-- {
		r = mulMod(r, r)
		if steps>>uint(i)&1 == 1 {
			r = r.mulX()
		}
	}
	return r
}

// Jump replaces the state s with p(T)·s where T is the one-step
// transition.
func (st *State) Jump(p Poly) {
	var acc [4]uint64
	for i := 0; i < degree; i++ {
		if p.bit(i) {
			acc[0] ^= st.s[0]
			acc[1] ^= st.s[1]
			acc[2] ^= st.s[2]
			acc[3] ^= st.s[3]
		}
		st.step()
	}
	st.s = acc
}

// computeCharPoly recovers the characteristic polynomial from the bit
// sequence of one state bit using Berlekamp-Massey. The transition has a
// primitive characteristic polynomial, so any nonzero start state yields
// a sequence whose minimal polynomial has full degree.
func computeCharPoly() {
	st := State{s: [4]uint64{1, 0, 0, 0}}
	seq := make([]uint8, 2*degree)
	for i := range seq {
		seq[i] = uint8(st.s[0] & 1)
		st.step()
	}

	c := berlekampMassey(seq)
	if len(c) != degree+1 {
		panic("xoshiro: characteristic polynomial has unexpected degree")
	}

	// The minimal polynomial is the reciprocal of the connection
	// polynomial: coefficient k is c[degree-k].
	var low Poly
	for k := 0; k < degree; k++ {
		if c[degree-k] == 1 {
			low[k>>6] |= 1 << (uint(k) & 63)
		}
	}
	charLow = low
}

// berlekampMassey returns the shortest connection polynomial
// c[0] + c[1]x + ... + c[L]x^L, c[0] = 1, generating seq over GF(2).
func berlekampMassey(seq []uint8) []uint8 {
	n := len(seq)
	c := make([]uint8, n+1)
	b := make([]uint8, n+1)
	c[0], b[0] = 1, 1
	l, m := 0, 1

	for i := 0; i < n; i++ {
		d := seq[i]
		for j := 1; j <= l; j++ {
			d ^= c[j] & seq[i-j]
		}
		if d == 0 {
			m++
			continue
		}
		t := append([]uint8(nil), c...)
		for j := 0; j+m <= n; j++ {
			c[j+m] ^= b[j]
		}
		if 2*l <= i {
			l = i + 1 - l
			b = t
			m = 1
		} else {
			m++
		}
	}
	return c[:l+1]
}
