package density

import "math"

// evaluateForward computes the value of component root at (x, y, z),
// walking only the components root actually depends on (spec.md §4.4's
// evaluate_forward). Indices not in that ancestor set are left untouched in
// cache — the flat, topologically-sorted Stack means "walk forward,
// compute only what's needed" is a single linear scan, not a tree
// recursion.
func evaluateForward(s Stack, cache *DensityCache, plans []LazyBranchPlan, root int, x, y, z float64) (float64, error) {
	// Zone B/C scratch must never survive from a previous call: Sample's
	// contract lets callers sample the same cache repeatedly (e.g. at
	// different y) without an intervening BeginColumn, and a stale valid[i]
	// would otherwise short-circuit evalComponent and return the prior
	// call's value forever. Zone A values are kept only while the call stays
	// in the cache's current (int(x), int(z)) column; BeginColumn drops them
	// when the column changes.
	cache.BeginColumn(int(x), int(z))

	need := ancestorsOf(s, root)

	selectorOf := make(map[int]*LazyBranchPlan, len(plans))
	for k := range plans {
		p := &plans[k]
		if p.RangeChoiceIndex > root {
			continue
		}
		selectorOf[s[p.RangeChoiceIndex].Inputs[0]] = p
	}

	for i := 0; i <= root; i++ {
		if !need[i] || cache.skip[i] {
			continue
		}
		c := s[i]
		if _, ok := cache.get(i, c.Zone); ok {
			applyLazyBranchSkip(cache, s, selectorOf, i)
			continue
		}
		v, err := evalComponent(s, cache, &c, x, y, z)
		if err != nil {
			return 0, err
		}
		cache.set(i, c.Zone, v)
		applyLazyBranchSkip(cache, s, selectorOf, i)
	}

	v, _ := cache.get(root, s[root].Zone)
	return v, nil
}

// applyLazyBranchSkip marks the not-taken branch of a just-resolved
// RangeChoice selector as skippable, so the forward scan never computes
// components only that branch needs.
func applyLazyBranchSkip(cache *DensityCache, s Stack, selectorOf map[int]*LazyBranchPlan, justComputed int) {
	p, ok := selectorOf[justComputed]
	if !ok {
		return
	}
	rc := s[p.RangeChoiceIndex]
	selVal, _ := cache.get(justComputed, s[justComputed].Zone)
	inRange := selVal >= rc.RangeMin && selVal < rc.RangeMax
	dead := p.OutOnly
	if !inRange {
		dead = p.InOnly
	}
	for j, skip := range dead {
		if skip {
			cache.skip[j] = true
		}
	}
}

// evalComponent computes one component's value given its already-cached
// inputs. Callers guarantee every entry in c.Inputs has already been
// computed this sweep.
func evalComponent(s Stack, cache *DensityCache, c *Component, x, y, z float64) (float64, error) {
	in := func(k int) float64 {
		idx := c.Inputs[k]
		v, _ := cache.get(idx, s[idx].Zone)
		return v
	}

	switch c.Tag {
	case TagConstant:
		return c.ConstValue, nil

	case TagYClampedGradient:
		return c.Gradient.Eval(y), nil

	case TagNoise:
		return c.NoiseSource.Sample3D(x*c.NoiseXZScale, y*c.NoiseYScale, z*c.NoiseXZScale), nil

	case TagBlendedNoise:
		return c.BlendedSource.Sample(x, y, z), nil

	case TagWeirdScaled:
		return c.WeirdSource.Sample(x, y, z, in(0)), nil

	case TagShiftedNoise:
		return c.ShiftedSource.Sample(x, y, z, in(0), in(1), in(2)), nil

	case TagBinaryAdd:
		return in(0) + in(1), nil
	case TagBinaryMul:
		return in(0) * in(1), nil
	case TagBinaryMin:
		return math.Min(in(0), in(1)), nil
	case TagBinaryMax:
		return math.Max(in(0), in(1)), nil

	case TagUnaryAbs:
		return math.Abs(in(0)), nil
	case TagUnarySquare, TagSquare:
		v := in(0)
		return v * v, nil
	case TagUnaryCube:
		v := in(0)
		return v * v * v, nil
	case TagUnaryHalfNeg:
		return branchValue(in(0), 1, 0.5), nil
	case TagUnaryQuarterNeg:
		return branchValue(in(0), 1, 0.25), nil
	case TagUnarySqueeze:
		return squeeze(clampTo(in(0), -1, 1)), nil

	case TagClamp:
		return clampTo(in(0), c.ClampMin, c.ClampMax), nil

	case TagRangeChoice:
		if in(0) >= c.RangeMin && in(0) < c.RangeMax {
			return in(1), nil
		}
		return in(2), nil

	case TagFlatCacheBarrier, TagCache2dBarrier:
		return in(0), nil

	case TagLinear:
		v := in(0)
		if c.LinearOp == TagBinaryMul {
			return v * c.LinearScale, nil
		}
		return v + c.LinearOffset, nil

	case TagAffine:
		return in(0)*c.AffineScale + c.AffineOffset, nil

	case TagPiecewiseAffine:
		yv := in(0)*c.PosScale + c.PiecewiseOffset
		if yv >= 0 {
			return yv, nil
		}
		if c.PosScale == 0 {
			return yv, nil
		}
		return yv * (c.NegScale / c.PosScale), nil

	case TagSlide:
		base := in(0)
		if y >= c.SlideFastMinY && y <= c.SlideFastMaxY {
			return base + c.SlideCombinedOffset, nil
		}
		inner := (base+c.SlideOffsetA)*c.SlideGrad1.Eval(y) + c.SlideOffsetB
		return inner*c.SlideGrad2.Eval(y) + c.SlideOffsetC, nil

	case TagSpline:
		return evalSpline(c.SplinePoints, in(0)), nil

	case TagBlend:
		total, weightSum := 0.0, 0.0
		for k := range c.Inputs {
			w := 1.0
			if k < len(c.Weights) {
				w = c.Weights[k]
			}
			total += in(k) * w
			weightSum += w
		}
		if weightSum == 0 {
			return 0, nil
		}
		return total / weightSum, nil

	default:
		return 0, errUnknownTag(c.Tag)
	}
}

// evalSpline evaluates a one-dimensional monotone-cubic-Hermite spline.
// Outside the control points' range the two endpoint segments extrapolate
// linearly using their boundary derivative.
func evalSpline(points []SplinePoint, x float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if len(points) == 1 {
		return points[0].Value
	}
	if x <= points[0].Location {
		p := points[0]
		return p.Value + p.DerivativeLeft*(x-p.Location)
	}
	last := points[len(points)-1]
	if x >= last.Location {
		return last.Value + last.DerivativeRight*(x-last.Location)
	}

	lo := 0
	for lo < len(points)-2 && points[lo+1].Location <= x {
		lo++
	}
	a, b := points[lo], points[lo+1]
	h := b.Location - a.Location
	t := (x - a.Location) / h

	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return h00*a.Value + h10*h*a.DerivativeRight + h01*b.Value + h11*h*b.DerivativeLeft
}
