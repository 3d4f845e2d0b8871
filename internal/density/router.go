package density

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"mini-terrain-router/internal/config"
	"mini-terrain-router/internal/profiling"
)

// NoiseRouter is the immutable, compiled, optimized, zone-partitioned
// evaluation engine the rest of this package builds toward: a set of named
// density roots sharing one flat Component stack (spec.md §5). Build once
// per seed with NewRouter; Sample is safe to call concurrently as long as
// each caller uses its own DensityCache.
type NoiseRouter struct {
	stack       Stack
	roots       map[string]int
	plans       []LazyBranchPlan
	primaryRoot string
}

// NewRouter compiles a set of named Desc trees into a single optimized,
// zone-partitioned NoiseRouter. primaryRoot names the root the lazy-branch
// planner treats as the hot evaluation path (ordinarily the terrain's
// final density function); every other entry in roots is a secondary root
// (surface-height estimation, biome placement, and the like).
func NewRouter(roots map[string]Desc, primaryRoot string) (*NoiseRouter, error) {
	defer profiling.Track("density.NewRouter")()

	compiler := NewCompiler()
	idxByName := make(map[string]int, len(roots))
	for name, d := range roots {
		idx, err := compiler.Emit(d)
		if err != nil {
			return nil, fmt.Errorf("compiling root %q: %w", name, err)
		}
		idxByName[name] = idx
	}

	stack := compiler.Stack()
	if err := ValidateStack(stack); err != nil {
		return nil, err
	}

	optStack, optRoots, err := Optimize(stack, idxByName)
	if err != nil {
		return nil, err
	}

	if _, ok := optRoots[primaryRoot]; !ok {
		return nil, errUnknownRoot(primaryRoot)
	}

	zoned, zonedRoots := AssignZones(optStack, optRoots, primaryRoot)
	var plans []LazyBranchPlan
	if config.GetLazyRangeChoice() {
		plans = PlanLazyBranches(zoned)
	}

	return &NoiseRouter{stack: zoned, roots: zonedRoots, plans: plans, primaryRoot: primaryRoot}, nil
}

// NewCache allocates a per-goroutine DensityCache sized for this router.
func (r *NoiseRouter) NewCache() *DensityCache {
	return NewDensityCache(len(r.stack))
}

// Sample evaluates the named root at (x, y, z) using cache for scratch
// space. cache must not be shared across goroutines. Each call invalidates
// its own Zone B/C scratch; Zone A values are reused while consecutive calls
// stay in the same (int(x), int(z)) column and are recomputed when a call
// lands in a different column.
func (r *NoiseRouter) Sample(name string, cache *DensityCache, x, y, z float64) (float64, error) {
	idx, ok := r.roots[name]
	if !ok {
		return 0, errUnknownRoot(name)
	}
	return evaluateForward(r.stack, cache, r.plans, idx, x, y, z)
}

// SampleVec3 is Sample with the position expressed as a double-precision
// vector, matching how the rest of the world-generation pipeline carries
// block and column positions.
func (r *NoiseRouter) SampleVec3(name string, cache *DensityCache, pos mgl64.Vec3) (float64, error) {
	return r.Sample(name, cache, pos.X(), pos.Y(), pos.Z())
}

// RootNames returns every named root the router can evaluate.
func (r *NoiseRouter) RootNames() []string {
	names := make([]string, 0, len(r.roots))
	for name := range r.roots {
		names = append(names, name)
	}
	return names
}

// Len returns the compiled stack's component count, mainly useful for
// tests asserting on optimizer/zone-partitioner shrinkage.
func (r *NoiseRouter) Len() int { return len(r.stack) }

// Component returns a copy of the compiled component at i, for tests that
// assert on zone assignment or fusion shape.
func (r *NoiseRouter) Component(i int) Component { return r.stack[i] }
