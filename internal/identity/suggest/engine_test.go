package suggest

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// memOracle is a map-backed oracle; errOn returns an error for the named
// candidates to simulate transient storage failures.
type memOracle struct {
	mu    sync.Mutex
	taken map[string]bool
	errOn map[string]bool
	calls int
}

func (o *memOracle) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.errOn[strings.ToLower(username)] {
		return false, errors.New("storage unavailable")
	}
	return o.taken[strings.ToLower(username)], nil
}

func TestEngine_SuggestAscendingOrder(t *testing.T) {
	oracle := &memOracle{taken: map[string]bool{"bob": true, "bob2": true}}
	e := NewEngine(oracle)

	got := e.Suggest(context.Background(), "bob", 3)
	want := []string{"bob3", "bob4", "bob5"}
	if len(got) != len(want) {
		t.Fatalf("Suggest: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Suggest: got %v, want %v", got, want)
		}
	}
}

func TestEngine_SuggestNeverReturnsTaken(t *testing.T) {
	taken := map[string]bool{}
	for i := 2; i <= 50; i += 2 {
		taken["bob"+strconv.Itoa(i)] = true
	}
	e := NewEngine(&memOracle{taken: taken})

	for _, candidate := range e.Suggest(context.Background(), "bob", 10) {
		if taken[candidate] {
			t.Errorf("suggested taken candidate %q", candidate)
		}
	}
}

func TestEngine_SuggestNonPositiveCount(t *testing.T) {
	oracle := &memOracle{taken: map[string]bool{}}
	e := NewEngine(oracle)

	if got := e.Suggest(context.Background(), "bob", 0); len(got) != 0 {
		t.Errorf("count 0: got %v", got)
	}
	if got := e.Suggest(context.Background(), "bob", -3); len(got) != 0 {
		t.Errorf("negative count: got %v", got)
	}
	if oracle.calls != 0 {
		t.Errorf("non-positive count should not probe, got %d calls", oracle.calls)
	}
}

func TestEngine_SuggestProbeBudget(t *testing.T) {
	taken := map[string]bool{}
	for i := 2; i <= 100; i++ {
		taken["bob"+strconv.Itoa(i)] = true
	}
	oracle := &memOracle{taken: taken}
	e := NewEngine(oracle)

	if got := e.Suggest(context.Background(), "bob", 3); len(got) != 0 {
		t.Errorf("exhausted budget: got %v, want empty", got)
	}
	if oracle.calls != 99 {
		t.Errorf("expected 99 probes (suffixes 2..100), got %d", oracle.calls)
	}
}

func TestEngine_OracleErrorFailsClosed(t *testing.T) {
	// bob2 is free but errors; the scan must skip it, not suggest it.
	oracle := &memOracle{
		taken: map[string]bool{"bob3": true},
		errOn: map[string]bool{"bob2": true},
	}
	e := NewEngine(oracle)

	got := e.Suggest(context.Background(), "bob", 1)
	if len(got) != 1 || got[0] != "bob4" {
		t.Errorf("fail-closed scan: got %v, want [bob4]", got)
	}
}

func TestEngine_EmptyBase(t *testing.T) {
	e := NewEngine(&memOracle{taken: map[string]bool{"2": true}})
	got := e.Suggest(context.Background(), "", 2)
	if len(got) != 2 || got[0] != "3" || got[1] != "4" {
		t.Errorf("empty base: got %v, want [3 4]", got)
	}
}

func TestEngine_FirstAvailable(t *testing.T) {
	e := NewEngine(&memOracle{taken: map[string]bool{"bob2": true}})
	if got := e.FirstAvailable(context.Background(), "bob"); got != "bob3" {
		t.Errorf("FirstAvailable: got %q, want bob3", got)
	}
}

func TestEngine_FirstAvailableFallback(t *testing.T) {
	taken := map[string]bool{}
	for i := 2; i <= 100; i++ {
		taken["bob"+strconv.Itoa(i)] = true
	}
	e := NewEngine(&memOracle{taken: taken})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	a := e.FirstAvailable(context.Background(), "bob")
	b := e.FirstAvailable(context.Background(), "bob")
	if !strings.HasPrefix(a, "bob") || !strings.HasPrefix(b, "bob") {
		t.Fatalf("fallback candidates should keep the base: %q %q", a, b)
	}
	if a == b {
		t.Errorf("two fallbacks in the same instant must differ: %q", a)
	}
}

func TestEngine_FallbackConcurrentUnique(t *testing.T) {
	taken := map[string]bool{}
	for i := 2; i <= 100; i++ {
		taken["bob"+strconv.Itoa(i)] = true
	}
	e := NewEngine(&memOracle{taken: taken})
	fixed := time.Now()
	e.now = func() time.Time { return fixed }

	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.FirstAvailable(context.Background(), "bob")
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for r := range results {
		if seen[r] {
			t.Fatalf("duplicate fallback candidate %q", r)
		}
		seen[r] = true
	}
}
