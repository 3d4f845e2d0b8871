package density

import "math"

// Optimize runs the single forward peephole pass of spec.md §4.2 over s,
// then sweeps for reachability from roots and renumbers the surviving
// components. It never mutates s; it returns a new Stack and a root table
// remapped to the new indices.
//
// The eleven numbered passes plus the Slide/PiecewiseAffine/Square fusions
// are all applied while visiting a single component — "forward pass"
// means one left-to-right walk of the stack, not eleven separate walks.
func Optimize(s Stack, roots map[string]int) (Stack, map[string]int, error) {
	work := make(Stack, len(s))
	copy(work, s)
	redirect := make([]int, len(work))
	for i := range redirect {
		redirect[i] = i
	}

	resolve := func(i int) int {
		for redirect[i] != i {
			i = redirect[i]
		}
		return i
	}

	for i := range work {
		c := work[i]
		resolvedInputs := make([]int, len(c.Inputs))
		for k, in := range c.Inputs {
			resolvedInputs[k] = resolve(in)
		}
		c.Inputs = resolvedInputs
		work[i] = optimizeComponent(i, c, work, redirect)
	}

	reached := reachable(work, redirect, roots)
	newStack, newRoots, err := renumber(work, redirect, roots, reached)
	if err != nil {
		return nil, nil, err
	}
	return newStack, newRoots, nil
}

// optimizeComponent applies the ordered rules to component c (already
// sitting at index i in work, with Inputs already resolved through the
// redirect table). It returns the rewritten component to store at i; if the
// component becomes purely a passthrough, it also sets redirect[i].
func optimizeComponent(i int, c Component, work Stack, redirect []int) Component {
	switch c.Tag {
	case TagCacheOnce, TagCacheAllInCell:
		// Pass 1: the flat stack already evaluates each entry once per
		// sweep, so these wrappers are pure passthroughs.
		redirect[i] = c.Inputs[0]
		return c
	case TagFlatCacheBarrier, TagCache2dBarrier:
		// Retained as zone barriers; nothing else to rewrite.
		return c
	}

	if c.Tag == TagBinaryAdd || c.Tag == TagBinaryMul || c.Tag == TagBinaryMin || c.Tag == TagBinaryMax {
		c = optimizeBinary(c, work)
	}

	if c.Tag == TagUnaryAbs || c.Tag == TagUnarySquare || c.Tag == TagUnaryCube ||
		c.Tag == TagUnaryHalfNeg || c.Tag == TagUnaryQuarterNeg || c.Tag == TagUnarySqueeze {
		c = optimizeUnary(c, work)
	}

	if c.Tag == TagClamp {
		c = optimizeClamp(c, work, redirect, i)
	}

	if c.Tag == TagRangeChoice {
		c = optimizeRangeChoice(c, work, redirect, i)
	}

	if c.Tag == TagLinear {
		c = promoteLinearToAffine(c)
	}

	if c.Tag == TagAffine {
		if inner := work[c.Inputs[0]]; inner.Tag == TagAffine {
			c = affineFuse(c, inner)
		}
	}

	if c.Tag == TagAffine {
		if red, ok := tryIdentityAffine(c); ok {
			redirect[i] = red
			return c
		}
		if slide, ok := trySlideFusion(c, work); ok {
			return slide
		}
	}

	return c
}

// optimizeBinary implements passes 2 (constant folding), 3 (binary-to-linear
// demotion), 4 (min/max domination), and the Square fusion.
func optimizeBinary(c Component, work Stack) Component {
	l, r := work[c.Inputs[0]], work[c.Inputs[1]]

	// Pass 2: constant folding.
	if l.Tag == TagConstant && r.Tag == TagConstant {
		v := applyBinaryOp(c.Tag, l.ConstValue, r.ConstValue)
		return Component{Tag: TagConstant, ConstValue: v, Min: v, Max: v}
	}

	switch c.Tag {
	case TagBinaryAdd:
		if r.Tag == TagConstant {
			return Component{Tag: TagLinear, Inputs: []int{c.Inputs[0]}, LinearScale: 1, LinearOffset: r.ConstValue,
				LinearOp: TagBinaryAdd, Min: c.Min, Max: c.Max, PerBlock: c.PerBlock}
		}
		if l.Tag == TagConstant {
			return Component{Tag: TagLinear, Inputs: []int{c.Inputs[1]}, LinearScale: 1, LinearOffset: l.ConstValue,
				LinearOp: TagBinaryAdd, Min: c.Min, Max: c.Max, PerBlock: c.PerBlock}
		}
	case TagBinaryMul:
		// Square fusion: Mul(x, x) -> Square(x).
		if c.Inputs[0] == c.Inputs[1] {
			lo, hi := squareEnvelope(l.Min, l.Max)
			return Component{Tag: TagSquare, Inputs: []int{c.Inputs[0]}, Min: lo, Max: hi, PerBlock: l.PerBlock}
		}
		if r.Tag == TagConstant {
			if r.ConstValue == 0 {
				return Component{Tag: TagConstant, ConstValue: 0, Min: 0, Max: 0}
			}
			return Component{Tag: TagLinear, Inputs: []int{c.Inputs[0]}, LinearScale: r.ConstValue, LinearOffset: 0,
				LinearOp: TagBinaryMul, Min: c.Min, Max: c.Max, PerBlock: c.PerBlock}
		}
		if l.Tag == TagConstant {
			if l.ConstValue == 0 {
				return Component{Tag: TagConstant, ConstValue: 0, Min: 0, Max: 0}
			}
			return Component{Tag: TagLinear, Inputs: []int{c.Inputs[1]}, LinearScale: l.ConstValue, LinearOffset: 0,
				LinearOp: TagBinaryMul, Min: c.Min, Max: c.Max, PerBlock: c.PerBlock}
		}
	case TagBinaryMin:
		// Pass 4: domination.
		if l.Max <= r.Min {
			return l
		}
		if r.Max <= l.Min {
			return r
		}
	case TagBinaryMax:
		if l.Min >= r.Max {
			return l
		}
		if r.Min >= l.Max {
			return r
		}
	}
	return c
}

func applyBinaryOp(tag Tag, a, b float64) float64 {
	switch tag {
	case TagBinaryAdd:
		return a + b
	case TagBinaryMul:
		return a * b
	case TagBinaryMin:
		return math.Min(a, b)
	case TagBinaryMax:
		return math.Max(a, b)
	}
	return 0
}

// optimizeUnary implements pass 5 (unary-on-constant folds to a constant)
// and the PiecewiseAffine fusion: HalfNeg/QuarterNeg directly over an
// Affine(scale=s, offset=o) input collapses the pair into one
// PiecewiseAffine, since HalfNeg/QuarterNeg are themselves piecewise-affine
// in their own input.
func optimizeUnary(c Component, work Stack) Component {
	x := work[c.Inputs[0]]
	if x.Tag == TagConstant {
		v, err := evalUnary(c.Tag, x.ConstValue)
		if err == nil {
			return Component{Tag: TagConstant, ConstValue: v, Min: v, Max: v}
		}
	}

	if (c.Tag == TagUnaryHalfNeg || c.Tag == TagUnaryQuarterNeg) && x.Tag == TagAffine {
		k := 0.5
		if c.Tag == TagUnaryQuarterNeg {
			k = 0.25
		}
		return Component{
			Tag: TagPiecewiseAffine, Inputs: x.Inputs,
			PosScale: x.AffineScale, NegScale: x.AffineScale * k, PiecewiseOffset: x.AffineOffset,
			Min: c.Min, Max: c.Max, PerBlock: x.PerBlock,
		}
	}

	return c
}

// optimizeClamp implements pass 5 (clamp-on-constant) and pass 9
// (clamp elimination when the input envelope already fits).
func optimizeClamp(c Component, work Stack, redirect []int, i int) Component {
	x := work[c.Inputs[0]]
	if x.Tag == TagConstant {
		v := clampTo(x.ConstValue, c.ClampMin, c.ClampMax)
		return Component{Tag: TagConstant, ConstValue: v, Min: v, Max: v}
	}
	if x.Min >= c.ClampMin && x.Max <= c.ClampMax {
		redirect[i] = c.Inputs[0]
		return c
	}
	return c
}

// optimizeRangeChoice implements pass 5 (constant selector) and pass 10
// (static resolution from the selector's envelope).
func optimizeRangeChoice(c Component, work Stack, redirect []int, i int) Component {
	sel := work[c.Inputs[0]]
	inBranch, outBranch := c.Inputs[1], c.Inputs[2]

	inRange := func(v float64) bool { return v >= c.RangeMin && v < c.RangeMax }

	if sel.Tag == TagConstant {
		if inRange(sel.ConstValue) {
			redirect[i] = inBranch
		} else {
			redirect[i] = outBranch
		}
		return c
	}

	if sel.Min >= c.RangeMin && sel.Max < c.RangeMax {
		redirect[i] = inBranch
		return c
	}
	if sel.Max < c.RangeMin || sel.Min >= c.RangeMax {
		redirect[i] = outBranch
		return c
	}
	return c
}

// promoteLinearToAffine implements pass 7: every remaining Linear becomes
// Affine, uniformly.
func promoteLinearToAffine(c Component) Component {
	return Component{
		Tag: TagAffine, Inputs: c.Inputs,
		AffineScale: c.LinearScale, AffineOffset: c.LinearOffset,
		Min: c.Min, Max: c.Max, PerBlock: c.PerBlock,
	}
}

// tryIdentityAffine implements pass 8: Affine(1, 0) is the identity.
func tryIdentityAffine(c Component) (int, bool) {
	if c.AffineScale == 1 && c.AffineOffset == 0 {
		return c.Inputs[0], true
	}
	return 0, false
}

// affineFuse implements pass 6: Affine(a2,b2) composed with Affine(a1,b1)
// folds to Affine(a1*a2, b1*a2+b2). Exposed for the optimizer's generic
// binary/linear rewrite to call whenever an Affine's single input is
// itself an Affine.
func affineFuse(outer, inner Component) Component {
	scale := inner.AffineScale * outer.AffineScale
	offset := inner.AffineOffset*outer.AffineScale + outer.AffineOffset
	return Component{
		Tag: TagAffine, Inputs: inner.Inputs,
		AffineScale: scale, AffineOffset: offset,
		Min: outer.Min, Max: outer.Max, PerBlock: inner.PerBlock,
	}
}
