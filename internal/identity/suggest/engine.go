// Package suggest generates available username candidates when a requested
// username is taken or otherwise unusable.
package suggest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Numeric suffixes are probed in ascending order starting at 2 ("bob2") and
// the scan gives up after suffix 100.
const (
	firstSuffix = 2
	lastSuffix  = 100
)

// Oracle answers case-insensitive username uniqueness checks, typically
// backed by the identity repository.
type Oracle interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

// Engine probes candidate usernames against an availability oracle. One
// engine is constructed per composition root; its fallback counter is the
// only mutable state and is safe for concurrent use.
type Engine struct {
	oracle Oracle
	seq    atomic.Uint64
	now    func() time.Time
}

// NewEngine returns an Engine backed by oracle.
func NewEngine(oracle Oracle) *Engine {
	return &Engine{oracle: oracle, now: time.Now}
}

// IsAvailable reports whether candidate is free. An oracle error counts as
// unavailable: a transient storage failure must never be read as "available".
func (e *Engine) IsAvailable(ctx context.Context, candidate string) bool {
	taken, err := e.oracle.IsUsernameTaken(ctx, candidate)
	if err != nil {
		return false
	}
	return !taken
}

// Suggest returns up to count available candidates derived from base, in
// ascending suffix order (base2, base3, …). It stops after collecting count
// candidates or exhausting the probe budget. A non-positive count returns an
// empty list without probing. An empty base is suffixed like any other.
func (e *Engine) Suggest(ctx context.Context, base string, count int) []string {
	if count <= 0 {
		return nil
	}
	out := make([]string, 0, count)
	for suffix := firstSuffix; suffix <= lastSuffix; suffix++ {
		candidate := fmt.Sprintf("%s%d", base, suffix)
		if e.IsAvailable(ctx, candidate) {
			out = append(out, candidate)
			if len(out) == count {
				break
			}
		}
	}
	return out
}

// FirstAvailable returns the first available suffixed candidate for base.
// When the probe budget is exhausted without a hit it falls back to a
// time-derived disambiguator. The fallback is best-effort unique: two calls
// in the same millisecond still differ via the engine's counter, but callers
// needing a hard guarantee must validate before commit.
func (e *Engine) FirstAvailable(ctx context.Context, base string) string {
	if s := e.Suggest(ctx, base, 1); len(s) > 0 {
		return s[0]
	}
	return fmt.Sprintf("%s%d%03d", base, e.now().UnixMilli(), e.seq.Add(1)%1000)
}
