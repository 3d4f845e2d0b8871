package density

import (
	"math/rand"
	"testing"

	"mini-terrain-router/internal/noise"
)

func newTestOctaves(seed int64) *noise.Octaves {
	return noise.NewOctaves(rand.New(rand.NewSource(seed)), 4)
}

func TestNewRouterRejectsUnknownPrimaryRoot(t *testing.T) {
	_, err := NewRouter(map[string]Desc{"terrain": ConstDesc{Value: 1}}, "nonexistent")
	if err == nil {
		t.Error("NewRouter with a primaryRoot not present in roots: want error, got nil")
	}
}

func TestNewRouterTrivialGraph(t *testing.T) {
	r, err := NewRouter(map[string]Desc{"terrain": ConstDesc{Value: 1}}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter on a trivial valid graph: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("router has %d components, want 1", r.Len())
	}
}

func TestRouterSampleGradientMatchesDirectEval(t *testing.T) {
	grad := GradientParams{FromY: 0, ToY: 256, FromValue: -1, ToValue: 1}
	r, err := NewRouter(map[string]Desc{"terrain": GradientDesc{Params: grad}}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	cache := r.NewCache()
	for _, y := range []float64{-10, 0, 64, 128, 255, 300} {
		got, err := r.Sample("terrain", cache, 0, y, 0)
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		want := grad.Eval(y)
		if got != want {
			t.Errorf("Sample(y=%v) = %v, want %v", y, got, want)
		}
	}
}

func TestRouterSampleUnknownRootErrors(t *testing.T) {
	r, err := NewRouter(map[string]Desc{"terrain": ConstDesc{Value: 1}}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	if _, err := r.Sample("missing", r.NewCache(), 0, 0, 0); err == nil {
		t.Error("Sample with an unknown root name: want error, got nil")
	}
}

func TestRouterZoneAValuesAreYIndependent(t *testing.T) {
	// A column-only (PerBlock=false) root must return the same value at any
	// Y for a fixed (x,z) — the whole point of Zone A caching.
	r, err := NewRouter(map[string]Desc{"surface": ConstDesc{Value: 42}}, "surface")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	cache := r.NewCache()
	cache.BeginColumn(5, 5)
	for _, y := range []float64{0, 50, 200} {
		got, err := r.Sample("surface", cache, 5, y, 5)
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		if got != 42 {
			t.Errorf("Sample(y=%v) = %v, want 42", y, got)
		}
	}
}

func TestRouterSharedRootAcrossTwoNamesEvaluatesOnce(t *testing.T) {
	src := newTestOctaves(17)
	noiseDesc := NoiseDesc{Source: src, XZScale: 0.01, YScale: 0.01}
	r, err := NewRouter(map[string]Desc{"terrain": noiseDesc, "surface": noiseDesc}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	cache := r.NewCache()
	a, err := r.Sample("terrain", cache, 10, 20, 30)
	if err != nil {
		t.Fatalf("Sample(terrain): %v", err)
	}
	b, err := r.Sample("surface", cache, 10, 20, 30)
	if err != nil {
		t.Fatalf("Sample(surface): %v", err)
	}
	if a != b {
		t.Errorf("two roots hash-consed to the same Noise component diverged: %v != %v", a, b)
	}
}

func TestRouterLazyBranchMatchesNonLazyEvaluation(t *testing.T) {
	selector := GradientDesc{Params: GradientParams{FromY: 0, ToY: 256, FromValue: -1, ToValue: 1}}
	whenIn := ConstDesc{Value: 1000}
	whenOut := ConstDesc{Value: -1000}
	rc := RangeChoiceDesc{Selector: selector, WhenIn: whenIn, WhenOut: whenOut, Min: -0.2, Max: 0.2}

	r, err := NewRouter(map[string]Desc{"terrain": rc}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	cache := r.NewCache()
	for _, y := range []float64{0, 10, 25.6, 90, 200, 255} {
		got, err := r.Sample("terrain", cache, 0, y, 0)
		if err != nil {
			t.Fatalf("Sample(y=%v): %v", y, err)
		}
		selVal := selector.Params.Eval(y)
		want := -1000.0
		if selVal >= rc.Min && selVal < rc.Max {
			want = 1000
		}
		if got != want {
			t.Errorf("Sample(y=%v) = %v, want %v (selector=%v)", y, got, want, selVal)
		}
	}
}

func TestRouterDeterministicAcrossIndependentCaches(t *testing.T) {
	src := newTestOctaves(4)
	r, err := NewRouter(map[string]Desc{"terrain": NoiseDesc{Source: src, XZScale: 0.05, YScale: 0.05}}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	positions := [][3]float64{{1, 2, 3}, {-5, 60, 12}, {100, 0, -100}}
	first := make([]float64, len(positions))
	cacheA := r.NewCache()
	for i, p := range positions {
		v, err := r.Sample("terrain", cacheA, p[0], p[1], p[2])
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		first[i] = v
	}

	cacheB := r.NewCache()
	for i, p := range positions {
		v, err := r.Sample("terrain", cacheB, p[0], p[1], p[2])
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		if v != first[i] {
			t.Errorf("position %v: cacheA gave %v, cacheB gave %v (cache must not leak state across callers)", p, first[i], v)
		}
	}
}
