package internal

import (
	"encoding/hex"
	"testing"
)

func TestBlake2b256EmptyInput(t *testing.T) {
	got := Blake2b256()
	want := "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
	if hex.EncodeToString(got[:]) != want {
		t.Errorf("Blake2b256() = %x, want %s", got, want)
	}
}

func TestBlake2bPartsConcatenate(t *testing.T) {
	whole := Blake2b512([]byte("hello world"))
	split := Blake2b512([]byte("hello"), []byte(" "), []byte("world"))
	if whole != split {
		t.Error("Blake2b512 over parts differs from hash of the concatenation")
	}

	w256 := Blake2b256([]byte("abc"))
	s256 := Blake2b256([]byte("a"), []byte("bc"))
	if w256 != s256 {
		t.Error("Blake2b256 over parts differs from hash of the concatenation")
	}
}
