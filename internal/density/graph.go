package density

import (
	"fmt"
	"math"

	"mini-terrain-router/internal/noise"
)

// Desc is the parsed density-function description tree the core accepts
// from its external collaborator (spec.md §6: "a tagged ADT of node
// descriptions + constants + noise seeds"). It is a tree, not a DAG — the
// compiler's hash-consing is what turns repeated identical subtrees into a
// single shared Component.
type Desc interface {
	isDesc()
	children() []Desc
}

type baseDesc struct{}

func (baseDesc) isDesc() {}

// ConstDesc is a literal scalar.
type ConstDesc struct {
	baseDesc
	Value float64
}

func (ConstDesc) children() []Desc { return nil }

// GradientDesc describes a YClampedGradient leaf.
type GradientDesc struct {
	baseDesc
	Params GradientParams
}

func (GradientDesc) children() []Desc { return nil }

// NoiseDesc samples an octave field directly at the evaluation position.
type NoiseDesc struct {
	baseDesc
	Source          *noise.Octaves
	XZScale, YScale float64
}

func (NoiseDesc) children() []Desc { return nil }

// BlendedNoiseDesc samples the bounded BlendedNoise field.
type BlendedNoiseDesc struct {
	baseDesc
	Source *noise.Blended
}

func (BlendedNoiseDesc) children() []Desc { return nil }

// WeirdScaledDesc samples a rarity-scaled field, driven by another subgraph.
type WeirdScaledDesc struct {
	baseDesc
	Source  *noise.WeirdScaled
	Driving Desc
}

func (d WeirdScaledDesc) children() []Desc { return []Desc{d.Driving} }

// ShiftedNoiseDesc samples a field at a position displaced by three
// subgraphs.
type ShiftedNoiseDesc struct {
	baseDesc
	Source             *noise.ShiftedNoise
	ShiftX, ShiftY, ShiftZ Desc
}

func (d ShiftedNoiseDesc) children() []Desc {
	return []Desc{d.ShiftX, d.ShiftY, d.ShiftZ}
}

// BinaryDesc is Add/Mul/Min/Max of two subgraphs. Op must be one of
// TagBinaryAdd, TagBinaryMul, TagBinaryMin, TagBinaryMax.
type BinaryDesc struct {
	baseDesc
	Op          Tag
	Left, Right Desc
}

func (d BinaryDesc) children() []Desc { return []Desc{d.Left, d.Right} }

// UnaryDesc is a single-input transform: Op is one of TagUnaryAbs,
// TagUnarySquare, TagUnaryCube, TagUnaryHalfNeg, TagUnaryQuarterNeg,
// TagUnarySqueeze.
type UnaryDesc struct {
	baseDesc
	Op    Tag
	Input Desc
}

func (d UnaryDesc) children() []Desc { return []Desc{d.Input} }

// ClampDesc clamps a subgraph's output to [Min, Max].
type ClampDesc struct {
	baseDesc
	Input    Desc
	Min, Max float64
}

func (d ClampDesc) children() []Desc { return []Desc{d.Input} }

// RangeChoiceDesc selects WhenIn or WhenOut based on whether Selector's
// value lies in [Min, Max).
type RangeChoiceDesc struct {
	baseDesc
	Selector, WhenIn, WhenOut Desc
	Min, Max                  float64
}

func (d RangeChoiceDesc) children() []Desc {
	return []Desc{d.Selector, d.WhenIn, d.WhenOut}
}

// CacheDesc wraps a subgraph in one of the source model's caching
// wrappers. Kind is one of TagFlatCacheBarrier, TagCache2dBarrier,
// TagCacheOnce, TagCacheAllInCell — the compiler emits it verbatim and
// leaves removal to the optimizer (spec.md §4.1/§4.2 pass 1).
type CacheDesc struct {
	baseDesc
	Kind  Tag
	Input Desc
}

func (d CacheDesc) children() []Desc { return []Desc{d.Input} }

// SplineDesc is a one-dimensional monotone-cubic-Hermite spline over a
// single coordinate subgraph (spec.md §9's open question: the direct
// recursive form, not the flattened 3D LUT).
type SplineDesc struct {
	baseDesc
	Coordinate Desc
	Points     []SplinePoint
}

func (d SplineDesc) children() []Desc { return []Desc{d.Coordinate} }

// BlendDesc is the weighted-average biome height-blend accumulator
// (SPEC_FULL.md §4's supplemented Blend* family).
type BlendDesc struct {
	baseDesc
	Inputs  []Desc
	Weights []float64
}

func (d BlendDesc) children() []Desc { return d.Inputs }

// Compiler converts a Desc tree into a topologically-sorted Stack,
// hash-consing identical subtrees to a single Component (spec.md §4.1).
type Compiler struct {
	stack Stack
	memo  map[string]int
}

// NewCompiler creates an empty compiler.
func NewCompiler() *Compiler {
	return &Compiler{memo: make(map[string]int)}
}

// Emit compiles d (and any shared subtrees) into the compiler's stack and
// returns the stack index of its root.
func (c *Compiler) Emit(d Desc) (int, error) {
	childIdx := make([]int, 0, 4)
	for _, ch := range d.children() {
		idx, err := c.Emit(ch)
		if err != nil {
			return 0, err
		}
		childIdx = append(childIdx, idx)
	}

	key := signature(d, childIdx)
	if idx, ok := c.memo[key]; ok {
		return idx, nil
	}

	comp, err := build(d, childIdx, c.stack)
	if err != nil {
		return 0, err
	}
	for _, in := range comp.Inputs {
		if in < 0 || in >= len(c.stack) {
			return 0, errIndexOutOfBounds(len(c.stack), in, len(c.stack))
		}
	}
	if math.IsNaN(comp.Min) || math.IsNaN(comp.Max) || comp.Min > comp.Max {
		return 0, errInvalidEnvelope(len(c.stack), comp.Min, comp.Max)
	}

	idx := len(c.stack)
	c.stack = append(c.stack, comp)
	c.memo[key] = idx
	return idx, nil
}

// Stack returns the stack built so far.
func (c *Compiler) Stack() Stack { return c.stack }

func signature(d Desc, childIdx []int) string {
	switch v := d.(type) {
	case ConstDesc:
		return fmt.Sprintf("const:%v", v.Value)
	case GradientDesc:
		return fmt.Sprintf("grad:%v", v.Params)
	case NoiseDesc:
		return fmt.Sprintf("noise:%p:%v:%v", v.Source, v.XZScale, v.YScale)
	case BlendedNoiseDesc:
		return fmt.Sprintf("blended:%p", v.Source)
	case WeirdScaledDesc:
		return fmt.Sprintf("weird:%p:%v", v.Source, childIdx)
	case ShiftedNoiseDesc:
		return fmt.Sprintf("shifted:%p:%v", v.Source, childIdx)
	case BinaryDesc:
		return fmt.Sprintf("bin:%v:%v", v.Op, childIdx)
	case UnaryDesc:
		return fmt.Sprintf("un:%v:%v", v.Op, childIdx)
	case ClampDesc:
		return fmt.Sprintf("clamp:%v:%v:%v", v.Min, v.Max, childIdx)
	case RangeChoiceDesc:
		return fmt.Sprintf("range:%v:%v:%v", v.Min, v.Max, childIdx)
	case CacheDesc:
		return fmt.Sprintf("cache:%v:%v", v.Kind, childIdx)
	case SplineDesc:
		return fmt.Sprintf("spline:%v:%v", v.Points, childIdx)
	case BlendDesc:
		return fmt.Sprintf("blend:%v:%v", v.Weights, childIdx)
	default:
		return fmt.Sprintf("unknown:%T:%v", d, childIdx)
	}
}

func build(d Desc, in []int, stack Stack) (Component, error) {
	switch v := d.(type) {
	case ConstDesc:
		return Component{Tag: TagConstant, ConstValue: v.Value, Min: v.Value, Max: v.Value}, nil

	case GradientDesc:
		lo, hi := v.Params.FromValue, v.Params.ToValue
		if lo > hi {
			lo, hi = hi, lo
		}
		return Component{Tag: TagYClampedGradient, Gradient: v.Params, Min: lo, Max: hi, PerBlock: true}, nil

	case NoiseDesc:
		// An octave sum with halving amplitudes stays within (-2, 2).
		return Component{Tag: TagNoise, NoiseSource: v.Source, NoiseXZScale: v.XZScale, NoiseYScale: v.YScale,
			Min: -2, Max: 2, PerBlock: v.YScale != 0}, nil

	case BlendedNoiseDesc:
		return Component{Tag: TagBlendedNoise, BlendedSource: v.Source,
			Min: -noise.MaxBlendedMagnitude, Max: noise.MaxBlendedMagnitude, PerBlock: true}, nil

	case WeirdScaledDesc:
		// The octave sum times half a rarity factor of at most 2.
		return Component{Tag: TagWeirdScaled, WeirdSource: v.Source, Inputs: in,
			Min: -2, Max: 2, PerBlock: true}, nil

	case ShiftedNoiseDesc:
		return Component{Tag: TagShiftedNoise, ShiftedSource: v.Source, Inputs: in,
			Min: -2, Max: 2, PerBlock: true}, nil

	case BinaryDesc:
		return buildBinary(v, in, stack)

	case UnaryDesc:
		return buildUnary(v, in, stack)

	case ClampDesc:
		if v.Min > v.Max {
			return Component{}, errInvalidEnvelope(-1, v.Min, v.Max)
		}
		child := stack[in[0]]
		lo := math.Max(v.Min, math.Min(child.Min, v.Max))
		hi := math.Min(v.Max, math.Max(child.Max, v.Min))
		return Component{Tag: TagClamp, Inputs: in, ClampMin: v.Min, ClampMax: v.Max,
			Min: lo, Max: hi, PerBlock: child.PerBlock}, nil

	case RangeChoiceDesc:
		whenIn, whenOut := stack[in[1]], stack[in[2]]
		return Component{
			Tag: TagRangeChoice, Inputs: in, RangeMin: v.Min, RangeMax: v.Max,
			Min:      math.Min(whenIn.Min, whenOut.Min),
			Max:      math.Max(whenIn.Max, whenOut.Max),
			PerBlock: stack[in[0]].PerBlock || whenIn.PerBlock || whenOut.PerBlock,
		}, nil

	case CacheDesc:
		child := stack[in[0]]
		forcesColumn := v.Kind == TagFlatCacheBarrier || v.Kind == TagCache2dBarrier
		return Component{
			Tag: v.Kind, Inputs: in, Min: child.Min, Max: child.Max,
			PerBlock: child.PerBlock && !forcesColumn,
		}, nil

	case SplineDesc:
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range v.Points {
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
		return Component{Tag: TagSpline, Inputs: in, SplinePoints: v.Points, Min: lo, Max: hi, PerBlock: stack[in[0]].PerBlock}, nil

	case BlendDesc:
		lo, hi := math.Inf(1), math.Inf(-1)
		perBlock := false
		for _, idx := range in {
			lo = math.Min(lo, stack[idx].Min)
			hi = math.Max(hi, stack[idx].Max)
			perBlock = perBlock || stack[idx].PerBlock
		}
		return Component{Tag: TagBlend, Inputs: in, Weights: v.Weights, Min: lo, Max: hi, PerBlock: perBlock}, nil

	default:
		return Component{}, fmt.Errorf("density: unsupported desc type %T", d)
	}
}

// buildBinary computes the Add/Mul/Min/Max envelope from the two input
// envelopes — the interval arithmetic the optimizer's constant-folding and
// domination rules (spec.md §4.2 passes 2/4) rely on being sound.
func buildBinary(v BinaryDesc, in []int, stack Stack) (Component, error) {
	l, r := stack[in[0]], stack[in[1]]
	perBlock := l.PerBlock || r.PerBlock
	switch v.Op {
	case TagBinaryAdd:
		return Component{Tag: TagBinaryAdd, Inputs: in, Min: l.Min + r.Min, Max: l.Max + r.Max, PerBlock: perBlock}, nil
	case TagBinaryMul:
		lo, hi := mulEnvelope(l.Min, l.Max, r.Min, r.Max)
		return Component{Tag: TagBinaryMul, Inputs: in, Min: lo, Max: hi, PerBlock: perBlock}, nil
	case TagBinaryMin:
		return Component{Tag: TagBinaryMin, Inputs: in, Min: math.Min(l.Min, r.Min), Max: math.Min(l.Max, r.Max), PerBlock: perBlock}, nil
	case TagBinaryMax:
		return Component{Tag: TagBinaryMax, Inputs: in, Min: math.Max(l.Min, r.Min), Max: math.Max(l.Max, r.Max), PerBlock: perBlock}, nil
	default:
		return Component{}, fmt.Errorf("density: unknown binary op %v", v.Op)
	}
}

func mulEnvelope(lLo, lHi, rLo, rHi float64) (float64, float64) {
	p := [4]float64{lLo * rLo, lLo * rHi, lHi * rLo, lHi * rHi}
	lo, hi := p[0], p[0]
	for _, x := range p[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

// buildUnary computes the Abs/Square/Cube/HalfNeg/QuarterNeg/Squeeze
// envelope from the input envelope.
func buildUnary(v UnaryDesc, in []int, stack Stack) (Component, error) {
	x := stack[in[0]]
	base := Component{Tag: v.Op, Inputs: in, PerBlock: x.PerBlock}
	switch v.Op {
	case TagUnaryAbs:
		base.Min, base.Max = absEnvelope(x.Min, x.Max)
	case TagUnarySquare:
		base.Min, base.Max = squareEnvelope(x.Min, x.Max)
	case TagUnaryCube:
		lo, hi := x.Min*x.Min*x.Min, x.Max*x.Max*x.Max
		if lo > hi {
			lo, hi = hi, lo
		}
		base.Min, base.Max = lo, hi
	case TagUnaryHalfNeg:
		base.Min, base.Max = piecewiseEnvelope(x.Min, x.Max, 1, 0.5)
	case TagUnaryQuarterNeg:
		base.Min, base.Max = piecewiseEnvelope(x.Min, x.Max, 1, 0.25)
	case TagUnarySqueeze:
		// Minecraft's squeeze: clamp(x,-1,1) then x/2 - x^3/24, monotone on
		// [-1,1] so the envelope is the image of the clamped endpoints.
		clampLo := clampTo(x.Min, -1, 1)
		clampHi := clampTo(x.Max, -1, 1)
		base.Min, base.Max = squeeze(clampLo), squeeze(clampHi)
		if base.Min > base.Max {
			base.Min, base.Max = base.Max, base.Min
		}
	default:
		return Component{}, fmt.Errorf("density: unknown unary op %v", v.Op)
	}
	return base, nil
}

func absEnvelope(lo, hi float64) (float64, float64) {
	if lo <= 0 && hi >= 0 {
		return 0, math.Max(-lo, hi)
	}
	a, b := math.Abs(lo), math.Abs(hi)
	if a > b {
		a, b = b, a
	}
	return a, b
}

func squareEnvelope(lo, hi float64) (float64, float64) {
	if lo <= 0 && hi >= 0 {
		return 0, math.Max(lo*lo, hi*hi)
	}
	a, b := lo*lo, hi*hi
	if a > b {
		a, b = b, a
	}
	return a, b
}

// piecewiseEnvelope bounds HalfNeg/QuarterNeg: value = x*posScale if x>=0,
// else x*posScale*negFactor.
func piecewiseEnvelope(lo, hi, posScale, negFactor float64) (float64, float64) {
	candidates := []float64{
		branchValue(lo, posScale, negFactor),
		branchValue(hi, posScale, negFactor),
		branchValue(0, posScale, negFactor),
	}
	mn, mx := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		mn = math.Min(mn, c)
		mx = math.Max(mx, c)
	}
	return mn, mx
}

func branchValue(x, posScale, negFactor float64) float64 {
	if x >= 0 {
		return x * posScale
	}
	return x * posScale * negFactor
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func squeeze(x float64) float64 {
	return x/2 - x*x*x/24
}
