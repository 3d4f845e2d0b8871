package density

import (
	"fmt"
	"math"
)

// evalUnary folds a unary op over a constant — used by pass 5's
// unary-on-constant rule. It mirrors evaluate.go's dispatch exactly so that
// folding a constant never changes what evaluation would have produced.
func evalUnary(tag Tag, x float64) (float64, error) {
	switch tag {
	case TagUnaryAbs:
		return math.Abs(x), nil
	case TagUnarySquare, TagSquare:
		return x * x, nil
	case TagUnaryCube:
		return x * x * x, nil
	case TagUnaryHalfNeg:
		return branchValue(x, 1, 0.5), nil
	case TagUnaryQuarterNeg:
		return branchValue(x, 1, 0.25), nil
	case TagUnarySqueeze:
		return squeeze(clampTo(x, -1, 1)), nil
	default:
		return 0, fmt.Errorf("density: %s is not foldable over a constant", tag)
	}
}

// trySlideFusion recognizes the five-node pencil pattern from spec.md §4.2's
// Slide fusion:
//
//	Affine(+c) <- Mul(ygrad2, Affine(+b) <- Mul(ygrad1, Affine(+a, base)))
//
// where each Affine in the chain has Scale==1 (pure offset), and each Mul's
// other operand is a YClampedGradient. When matched, the three Affine/Mul
// layers collapse into a single Slide component whose only input is base,
// orphaning the four intermediate nodes for the reachability sweep to drop.
func trySlideFusion(outer Component, work Stack) (Component, bool) {
	if outer.AffineScale != 1 || len(outer.Inputs) != 1 {
		return Component{}, false
	}
	mul2 := work[outer.Inputs[0]]
	grad2, innerB, ok := matchGradientMul(mul2, work)
	if !ok {
		return Component{}, false
	}
	if innerB.AffineScale != 1 {
		return Component{}, false
	}
	mul1 := work[innerB.Inputs[0]]
	grad1, innerA, ok := matchGradientMul(mul1, work)
	if !ok {
		return Component{}, false
	}
	if innerA.AffineScale != 1 {
		return Component{}, false
	}

	base := innerA.Inputs[0]
	minY, maxY := combinedSaturation(grad1.Gradient, grad2.Gradient)

	return Component{
		Tag:      TagSlide,
		Inputs:   []int{base},
		SlideGrad1: grad1.Gradient,
		SlideGrad2: grad2.Gradient,
		SlideOffsetA:        innerA.AffineOffset,
		SlideOffsetB:        innerB.AffineOffset,
		SlideOffsetC:        outer.AffineOffset,
		SlideCombinedOffset: innerA.AffineOffset + innerB.AffineOffset + outer.AffineOffset,
		SlideFastMinY:       minY,
		SlideFastMaxY:       maxY,
		Min:      outer.Min,
		Max:      outer.Max,
		PerBlock: true,
	}, true
}

// matchGradientMul checks whether c is Mul(grad, affine) or Mul(affine,
// grad) where grad is a YClampedGradient leaf; it returns the gradient
// component and the other operand in a fixed order.
func matchGradientMul(c Component, work Stack) (grad, other Component, ok bool) {
	if c.Tag != TagBinaryMul || len(c.Inputs) != 2 {
		return Component{}, Component{}, false
	}
	a, b := work[c.Inputs[0]], work[c.Inputs[1]]
	if a.Tag == TagYClampedGradient && b.Tag == TagAffine {
		return a, b, true
	}
	if b.Tag == TagYClampedGradient && a.Tag == TagAffine {
		return b, a, true
	}
	return Component{}, Component{}, false
}

// saturationRange returns the Y-interval over which g's clamped ramp has
// already reached one of its saturated (flat) endpoints, if that endpoint
// value is exactly 1 — the only case the Slide fast path can exploit,
// since the fused Mul(grad, ...) term becomes a pure passthrough there.
func saturationRange(g GradientParams) (lo, hi float64, ok bool) {
	loY, loV := g.FromY, g.FromValue
	hiY, hiV := g.ToY, g.ToValue
	if loY > hiY {
		loY, hiY = hiY, loY
		loV, hiV = hiV, loV
	}
	switch {
	case loV == 1 && hiV == 1:
		return math.Inf(-1), math.Inf(1), true
	case loV == 1:
		return math.Inf(-1), loY, true
	case hiV == 1:
		return hiY, math.Inf(1), true
	default:
		return 0, 0, false
	}
}

func combinedSaturation(g1, g2 GradientParams) (minY, maxY float64) {
	lo1, hi1, ok1 := saturationRange(g1)
	lo2, hi2, ok2 := saturationRange(g2)
	if !ok1 || !ok2 {
		// No fast path: make the range empty so evaluate.go never takes it.
		return math.Inf(1), math.Inf(-1)
	}
	lo, hi := math.Max(lo1, lo2), math.Min(hi1, hi2)
	if lo > hi {
		return math.Inf(1), math.Inf(-1)
	}
	return lo, hi
}
