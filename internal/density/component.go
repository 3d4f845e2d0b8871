// Package density implements the density-function evaluation engine: the
// graph compiler, peephole optimizer, zone partitioner, lazy-branch
// planner, and evaluator described in spec.md. A compiled NoiseRouter is an
// immutable, topologically-sorted stack of Components; evaluation walks
// that stack instead of a tree of polymorphic nodes.
package density

import (
	"math"

	"mini-terrain-router/internal/noise"
)

// Tag identifies a Component's operation. The zero value (TagConstant) is
// never a valid unset sentinel on its own — every Component built by the
// compiler sets Tag explicitly.
type Tag int

const (
	TagConstant Tag = iota
	TagYClampedGradient
	TagNoise
	TagBlendedNoise
	TagWeirdScaled
	TagShiftedNoise
	TagBinaryAdd
	TagBinaryMul
	TagBinaryMin
	TagBinaryMax
	TagUnaryAbs
	TagUnarySquare
	TagUnaryCube
	TagUnaryHalfNeg
	TagUnaryQuarterNeg
	TagUnarySqueeze
	TagClamp
	TagRangeChoice
	TagFlatCacheBarrier
	TagCache2dBarrier
	TagCacheOnce
	TagCacheAllInCell
	TagLinear
	TagAffine
	TagPiecewiseAffine
	TagSlide
	TagSquare
	TagSpline
	TagBlend
)

func (t Tag) String() string {
	switch t {
	case TagConstant:
		return "Constant"
	case TagYClampedGradient:
		return "YClampedGradient"
	case TagNoise:
		return "Noise"
	case TagBlendedNoise:
		return "BlendedNoise"
	case TagWeirdScaled:
		return "WeirdScaled"
	case TagShiftedNoise:
		return "ShiftedNoise"
	case TagBinaryAdd:
		return "Add"
	case TagBinaryMul:
		return "Mul"
	case TagBinaryMin:
		return "Min"
	case TagBinaryMax:
		return "Max"
	case TagUnaryAbs:
		return "Abs"
	case TagUnarySquare:
		return "UnarySquare"
	case TagUnaryCube:
		return "Cube"
	case TagUnaryHalfNeg:
		return "HalfNeg"
	case TagUnaryQuarterNeg:
		return "QuarterNeg"
	case TagUnarySqueeze:
		return "Squeeze"
	case TagClamp:
		return "Clamp"
	case TagRangeChoice:
		return "RangeChoice"
	case TagFlatCacheBarrier:
		return "FlatCacheBarrier"
	case TagCache2dBarrier:
		return "Cache2dBarrier"
	case TagCacheOnce:
		return "CacheOnce"
	case TagCacheAllInCell:
		return "CacheAllInCell"
	case TagLinear:
		return "Linear"
	case TagAffine:
		return "Affine"
	case TagPiecewiseAffine:
		return "PiecewiseAffine"
	case TagSlide:
		return "Slide"
	case TagSquare:
		return "Square"
	case TagSpline:
		return "Spline"
	case TagBlend:
		return "Blend"
	default:
		return "Unknown"
	}
}

// Zone classifies a Component by coordinate dependency, per spec.md §3/§4.3.
type Zone int

const (
	// ZoneUnset marks a Component that has not yet been assigned a zone
	// (valid only mid-compile, never in a finished Stack).
	ZoneUnset Zone = iota
	ZoneA                 // column-only: depends on (x,z), ignores y
	ZoneB                 // per-y, reachable only from the primary root
	ZoneC                 // everything else
)

// GradientParams bundles the four scalars a YClampedGradient (or the
// gradient half of a fused Slide) needs.
type GradientParams struct {
	FromY, ToY       float64
	FromValue, ToValue float64
}

// Eval returns the gradient's value at y.
func (g GradientParams) Eval(y float64) float64 {
	return noise.YClampedGradient(y, g.FromY, g.ToY, g.FromValue, g.ToValue)
}

// SplinePoint is one monotone-cubic-Hermite control point of a Spline
// component, keyed on the component's single coordinate input.
type SplinePoint struct {
	Location                float64
	Value                   float64
	DerivativeLeft, DerivativeRight float64
}

// Component is one entry in a compiled Stack: a tagged record whose Inputs
// reference strictly earlier entries (the topological invariant in
// spec.md §3). Fields unused by a given Tag are left zero; see graph.go for
// construction and evaluate.go for which fields each Tag reads.
type Component struct {
	Tag    Tag
	Inputs []int

	Min, Max float64 // statically computed output envelope
	PerBlock bool    // true if the output may depend on Y
	Zone     Zone

	// Constant
	ConstValue float64

	// YClampedGradient
	Gradient GradientParams

	// Noise / BlendedNoise / WeirdScaled / ShiftedNoise — Source is a
	// pointer into the router's shared, read-only noise field table, never
	// owned or mutated by the Component itself.
	NoiseSource  *noise.Octaves
	BlendedSource *noise.Blended
	WeirdSource  *noise.WeirdScaled
	ShiftedSource *noise.ShiftedNoise
	NoiseXZScale, NoiseYScale float64

	// Clamp
	ClampMin, ClampMax float64

	// RangeChoice: Inputs = [selector, whenInRange, whenOutRange]
	RangeMin, RangeMax float64

	// Linear (transient, promoted to Affine before optimize returns)
	LinearScale, LinearOffset float64
	LinearOp                  Tag // TagBinaryAdd or TagBinaryMul

	// Affine: Inputs = [x]; value = x*Scale + Offset
	AffineScale, AffineOffset float64

	// PiecewiseAffine: Inputs = [x]
	PosScale, NegScale, PiecewiseOffset float64

	// Slide: Inputs = [baseInput]
	SlideGrad1, SlideGrad2         GradientParams
	SlideOffsetA, SlideOffsetB, SlideOffsetC float64
	SlideCombinedOffset            float64
	SlideFastMinY, SlideFastMaxY   float64

	// Spline: Inputs = [coordinate]
	SplinePoints []SplinePoint

	// Blend: Inputs = value components, parallel Weights slice
	Weights []float64
}

// Stack is an ordered, topologically-sorted sequence of Components.
type Stack []Component

// EnvelopeContains reports whether v lies within [c.Min, c.Max], allowing a
// small absolute slop for floating-point accumulation — used by property
// tests validating the envelope contract (spec.md §8).
func (c *Component) EnvelopeContains(v float64) bool {
	const slop = 1e-6
	return v >= c.Min-slop && v <= c.Max+slop
}

// ValidateStack checks the topological and envelope invariants of spec.md
// §3 against a Stack built by any path — the Compiler (which cannot violate
// them by construction) or a hand-assembled Stack in a test. NewRouter runs
// it on the compiled Stack, and the post-optimization renumbering in
// sweep.go runs it again on its output.
func ValidateStack(s Stack) error {
	for i, c := range s {
		for _, in := range c.Inputs {
			if in < 0 || in >= len(s) {
				return errIndexOutOfBounds(i, in, len(s))
			}
			if in >= i {
				return errCyclicInput(i, in)
			}
		}
		if math.IsNaN(c.Min) || math.IsNaN(c.Max) || math.IsInf(c.Min, 0) || math.IsInf(c.Max, 0) || c.Min > c.Max {
			return errInvalidEnvelope(i, c.Min, c.Max)
		}
	}
	return nil
}
