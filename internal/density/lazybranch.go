package density

// LazyBranchPlan records, for one Zone B RangeChoice component, which other
// components are needed only if the selector lands in-range, only if it
// lands out-of-range, or either way — so the evaluator can skip a whole
// branch's dependency subtree on the common case where the selector's
// value doesn't straddle the boundary for most columns (spec.md §4.4).
type LazyBranchPlan struct {
	RangeChoiceIndex int
	InOnly           []bool
	OutOnly          []bool
	Common           []bool
}

// PlanLazyBranches finds every RangeChoice assigned to Zone B and computes
// its in_only/out_only/common sets. Zone A and Zone C RangeChoices are left
// alone: Zone A's column-only values are cheap enough that branch skipping
// isn't worth the bookkeeping, and Zone C already mixes zones in ways that
// make a clean common/only split meaningless.
func PlanLazyBranches(s Stack) []LazyBranchPlan {
	var plans []LazyBranchPlan
	for i, c := range s {
		if c.Tag != TagRangeChoice || c.Zone != ZoneB {
			continue
		}
		selAnc := ancestorsOf(s, c.Inputs[0])
		inAnc := ancestorsOf(s, c.Inputs[1])
		outAnc := ancestorsOf(s, c.Inputs[2])

		// Anything reached from outside both branches, other than through
		// this RangeChoice, is needed whichever branch is taken.
		bypass := make([]bool, len(s))
		var visit func(k int)
		visit = func(k int) {
			if k == i || bypass[k] {
				return
			}
			bypass[k] = true
			for _, in := range s[k].Inputs {
				visit(in)
			}
		}
		for k := range s {
			if k != i && !inAnc[k] && !outAnc[k] {
				visit(k)
			}
		}

		common := make([]bool, len(s))
		inOnly := make([]bool, len(s))
		outOnly := make([]bool, len(s))
		for j := range s {
			switch {
			case selAnc[j] || bypass[j]:
				common[j] = true
			case inAnc[j] && outAnc[j]:
				common[j] = true
			case inAnc[j]:
				inOnly[j] = true
			case outAnc[j]:
				outOnly[j] = true
			}
		}
		plans = append(plans, LazyBranchPlan{RangeChoiceIndex: i, InOnly: inOnly, OutOnly: outOnly, Common: common})
	}
	return plans
}
