// Package internal provides the hash primitives used for seed expansion.
// This package wraps golang.org/x/crypto/blake2b.
package internal

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

const (
	// Size256 is the digest size of the fast first-expansion hash.
	Size256 = blake2b.Size256
	// Size512 is the digest size of the rehash.
	Size512 = blake2b.Size
)

// Blake2b256 computes a 256-bit Blake2b hash (32 bytes) over the
// concatenation of parts.
func Blake2b256(parts ...[]byte) [Size256]byte {
	var out [Size256]byte
	h := newStream(Size256)
	for _, p := range parts {
		h.Write(p)
	}
	h.Sum(out[:0])
	return out
}

// Blake2b512 computes a 512-bit Blake2b hash (64 bytes) over the
// concatenation of parts.
func Blake2b512(parts ...[]byte) [Size512]byte {
	var out [Size512]byte
	h := newStream(Size512)
	for _, p := range parts {
		h.Write(p)
	}
	h.Sum(out[:0])
	return out
}

func newStream(size int) hash.Hash {
	var (
		h   hash.Hash
		err error
	)
	switch size {
	case Size256:
		h, err = blake2b.New256(nil)
	default:
		h, err = blake2b.New512(nil)
	}
	if err != nil {
		// Unkeyed construction cannot fail.
		panic(err)
	}
	return h
}
