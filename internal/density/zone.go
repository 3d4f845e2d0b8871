package density

// AssignZones classifies every component in s by coordinate dependency
// (spec.md §4.3) and returns a new Stack physically reordered so the three
// zones are contiguous: all Zone A entries first, then Zone B, then Zone C.
// primaryRoot is the name of the root the lazy-branch planner treats as the
// "hot" evaluation path (typically the final density root); every other
// root in roots is a "secondary" root consulted for surface estimation,
// biome placement, and similar one-off queries.
//
// A component forced into Zone A by a cache barrier (FlatCacheBarrier,
// Cache2dBarrier — see graph.go's CacheDesc handling) may still depend on a
// Zone B/C child: the barrier is exactly the seam where a per-Y value gets
// collapsed into a column-stable one. So physical placement cannot simply
// concatenate the three zones in rank order; instead each component gets an
// "effective rank" equal to the max of its own zone rank and every input's
// effective rank, and the stack is stable-sorted by (effective rank,
// original index). That keeps the classification in Component.Zone exactly
// matching spec.md's column/primary-only/everything-else rule while
// guaranteeing the physical order stays topological.
func AssignZones(s Stack, roots map[string]int, primaryRoot string) (Stack, map[string]int) {
	classifyZones(s, roots, primaryRoot)

	rank := make([]int, len(s))
	computed := make([]bool, len(s))
	var effectiveRank func(i int) int
	effectiveRank = func(i int) int {
		if computed[i] {
			return rank[i]
		}
		r := zoneRank(s[i].Zone)
		for _, in := range s[i].Inputs {
			if ir := effectiveRank(in); ir > r {
				r = ir
			}
		}
		rank[i] = r
		computed[i] = true
		return r
	}
	for i := range s {
		effectiveRank(i)
	}

	order := make([]int, len(s))
	for i := range order {
		order[i] = i
	}
	// Stable insertion sort on (rank, original index): len(s) is bounded by
	// the generation graph's component count, never large enough to need
	// anything fancier, and stability is what makes the topological
	// argument above hold.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && rank[order[j-1]] > rank[order[j]] {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}

	oldToNew := make([]int, len(s))
	out := make(Stack, len(s))
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = newIdx
		out[newIdx] = s[oldIdx]
	}
	for i := range out {
		remapped := make([]int, len(out[i].Inputs))
		for k, in := range out[i].Inputs {
			remapped[k] = oldToNew[in]
		}
		out[i].Inputs = remapped
	}

	newRoots := make(map[string]int, len(roots))
	for name, idx := range roots {
		newRoots[name] = oldToNew[idx]
	}
	return out, newRoots
}

func zoneRank(z Zone) int {
	switch z {
	case ZoneA:
		return 0
	case ZoneB:
		return 1
	default:
		return 2
	}
}

// classifyZones sets Component.Zone in place for every entry in s.
func classifyZones(s Stack, roots map[string]int, primaryRoot string) {
	primaryIdx, hasPrimary := roots[primaryRoot]

	var primaryOnly, anySecondary []bool
	if hasPrimary {
		primaryOnly = ancestorsOf(s, primaryIdx)
	} else {
		primaryOnly = make([]bool, len(s))
	}
	anySecondary = make([]bool, len(s))
	for name, idx := range roots {
		if name == primaryRoot {
			continue
		}
		marks := ancestorsOf(s, idx)
		for i, m := range marks {
			if m {
				anySecondary[i] = true
			}
		}
	}

	for i := range s {
		switch {
		case !s[i].PerBlock:
			s[i].Zone = ZoneA
		case primaryOnly[i] && !anySecondary[i]:
			s[i].Zone = ZoneB
		default:
			s[i].Zone = ZoneC
		}
	}
}

// ancestorsOf marks every component root transitively depends on
// (including root itself).
func ancestorsOf(s Stack, root int) []bool {
	marked := make([]bool, len(s))
	var visit func(i int)
	visit = func(i int) {
		if marked[i] {
			return
		}
		marked[i] = true
		for _, in := range s[i].Inputs {
			visit(in)
		}
	}
	visit(root)
	return marked
}
