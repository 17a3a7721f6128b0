package seedrand

import (
	"context"
	"sync"
)

// Locked is an Engine guarded by a mutex, safe for concurrent use.
type Locked struct {
	mu sync.Mutex
	e  *Engine
}

// NewLocked wraps e. The caller must not use e directly afterwards.
func NewLocked(e *Engine) *Locked {
	return &Locked{e: e}
}

// Do runs fn with exclusive access to the engine. fn must not retain e.
func (l *Locked) Do(fn func(e *Engine)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.e)
}

// Float64 returns a uniform value in [0,1).
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Float64()
}

// Uint64 returns a uniform uint64.
func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Uint64()
}

// Uint32 returns a uniform uint32.
func (l *Locked) Uint32() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Uint32()
}

// Bool returns a uniform boolean.
func (l *Locked) Bool() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Bool()
}

// Read implements io.Reader.
func (l *Locked) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Read(p)
}

// Descriptor captures the position of the wrapped engine.
func (l *Locked) Descriptor() Descriptor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Descriptor()
}

var (
	defaultOnce   sync.Once
	defaultEngine *Locked
)

// Default returns the process-wide engine. It is seeded from OS entropy
// on first use and lives for the rest of the process.
func Default() *Locked {
	defaultOnce.Do(func() {
		defaultEngine = NewLocked(MustNew(nil))
	})
	return defaultEngine
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying e.
func NewContext(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// FromContext returns the engine carried by ctx, if any.
func FromContext(ctx context.Context) (*Engine, bool) {
	e, ok := ctx.Value(ctxKey{}).(*Engine)
	return e, ok && e != nil
}

// Use runs fn with the engine carried by ctx, or with the default
// engine under its lock when ctx carries none.
func Use(ctx context.Context, fn func(e *Engine)) {
	if e, ok := FromContext(ctx); ok {
		fn(e)
		return
	}
	Default().Do(fn)
}
