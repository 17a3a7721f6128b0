package seedrand

import (
	"sync"
)

const (
	// advanceBufferSize is the working buffer length used to advance
	// the core generator: one minimum chunk plus room for an even
	// remainder shorter than a chunk.
	advanceBufferSize = 2 * MinArraySize
)

// Global pools for scratch buffers to minimize allocations

var (
	// Raw float units for one integer cache refill
	rawIntPool = sync.Pool{
		New: func() interface{} {
			buf := make([]float64, rawIntUnits)
			return &buf
		},
	}

	// Discarded output while advancing during reconstruction
	advancePool = sync.Pool{
		New: func() interface{} {
			buf := make([]float64, advanceBufferSize)
			return &buf
		},
	}

	// Byte scratch for boolean fills
	bytePool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 0, 1024)
			return &buf
		},
	}
)

// getRawIntBuffer acquires a buffer of rawIntUnits doubles.
func getRawIntBuffer() *[]float64 {
	return rawIntPool.Get().(*[]float64)
}

// putRawIntBuffer returns a raw buffer to the pool.
func putRawIntBuffer(buf *[]float64) {
	if buf != nil && len(*buf) == rawIntUnits {
		rawIntPool.Put(buf)
	}
}

// getAdvanceBuffer acquires a working buffer for advancing.
func getAdvanceBuffer() *[]float64 {
	return advancePool.Get().(*[]float64)
}

// putAdvanceBuffer returns a working buffer to the pool.
func putAdvanceBuffer(buf *[]float64) {
	if buf != nil && len(*buf) == advanceBufferSize {
		advancePool.Put(buf)
	}
}

// getByteBuffer returns a byte slice of length n. Small requests are
// served from the pool.
func getByteBuffer(n int) []byte {
	p := bytePool.Get().(*[]byte)
	if cap(*p) < n {
		bytePool.Put(p)
		return make([]byte, n)
	}
	return (*p)[:n]
}

// putByteBuffer returns a slice obtained from getByteBuffer.
func putByteBuffer(b []byte) {
	if cap(b) == 0 || cap(b) > 1<<16 {
		return
	}
	b = b[:0]
	bytePool.Put(&b)
}

// zeroFloats clears a float slice.
func zeroFloats(b []float64) {
	for i := range b {
		b[i] = 0
	}
}
