package density

// reachable walks backward from every named root (resolved through the
// redirect table) and marks every component index the router could ever
// need to evaluate. Anything the forward pass orphaned — a node replaced
// by a redirect, or a Slide fusion's now-unreferenced intermediate chain —
// never gets marked and is dropped by renumber.
func reachable(work Stack, redirect []int, roots map[string]int) []bool {
	resolve := func(i int) int {
		for redirect[i] != i {
			i = redirect[i]
		}
		return i
	}

	marked := make([]bool, len(work))
	var visit func(i int)
	visit = func(i int) {
		i = resolve(i)
		if marked[i] {
			return
		}
		marked[i] = true
		for _, in := range work[i].Inputs {
			visit(resolve(in))
		}
	}
	for _, idx := range roots {
		visit(idx)
	}
	return marked
}

// renumber compacts work down to its reachable components, preserving
// relative order, and remaps every Inputs reference (through the redirect
// table) and every root to the new, dense index space.
func renumber(work Stack, redirect []int, roots map[string]int, marked []bool) (Stack, map[string]int, error) {
	resolve := func(i int) int {
		for redirect[i] != i {
			i = redirect[i]
		}
		return i
	}

	oldToNew := make([]int, len(work))
	out := make(Stack, 0, len(work))
	for i, keep := range marked {
		if !keep {
			continue
		}
		oldToNew[i] = len(out)
		out = append(out, work[i])
	}
	for i := range out {
		remapped := make([]int, len(out[i].Inputs))
		for k, in := range out[i].Inputs {
			remapped[k] = oldToNew[resolve(in)]
		}
		out[i].Inputs = remapped
	}

	newRoots := make(map[string]int, len(roots))
	for name, idx := range roots {
		r := resolve(idx)
		if !marked[r] {
			return nil, nil, errUnknownRoot(name)
		}
		newRoots[name] = oldToNew[r]
	}

	if err := ValidateStack(out); err != nil {
		return nil, nil, err
	}
	return out, newRoots, nil
}
