package noise

import "math/rand"

// Blended combines three octave stacks — min-limit, max-limit, and main —
// into the single scalar field Minecraft calls BlendedNoise, the backbone
// of the vanilla overworld density graph. It is grounded on the min/max/main
// noise combination in ChunkProvider189.generateDensityField, generalized
// from that grid-sampling loop into a pure per-point function so the graph
// compiler can wire it in as one Noise component.
//
// Output bound: empirically the blend stays within [-2.0, 2.0] for the
// default octave counts and scales below, the same bound
// OldBlendedNoise::sample carries in the source engine. The surface-skip
// optimization (spec.md §4.8 step 2) depends on this literal; per spec.md
// §9's open question, treat it as asserted-but-unverified for any gradient
// table or octave weighting other than the defaults constructed here.
const MaxBlendedMagnitude = 2.0

// Blended holds the three noise stacks and the scale factors Minecraft's
// default overworld settings use.
type Blended struct {
	minLimit *Octaves
	maxLimit *Octaves
	main     *Octaves

	xzScale, yScale       float64
	xzFactor, yFactor     float64
	smearScaleMultiplier  float64
}

// BlendedConfig carries the tunable scales. NewBlended replaces a config
// whose MinLimitOctaves and XZScale are both zero (such as the zero value)
// with DefaultBlendedConfig(); any other config is used as given, and its
// zero fields are not filled in.
type BlendedConfig struct {
	XZScale, YScale               float64
	XZFactor, YFactor             float64
	SmearScaleMultiplier          float64
	MinLimitOctaves, MaxLimitOctaves, MainOctaves int
}

// DefaultBlendedConfig mirrors the constants ChunkProvider189 uses
// (coordinateScale/heightScale 684.412, main noise scale 80/160/80).
func DefaultBlendedConfig() BlendedConfig {
	return BlendedConfig{
		XZScale:              684.412 / 80.0,
		YScale:               684.412 / 160.0,
		XZFactor:              80.0,
		YFactor:               160.0,
		SmearScaleMultiplier:  8.25585,
		MinLimitOctaves:       16,
		MaxLimitOctaves:       16,
		MainOctaves:           8,
	}
}

// NewBlended seeds three independent octave stacks from a single world seed,
// reusing a single rand.Rand the way ChunkProvider189's constructor does —
// all three stacks draw from the same sequential stream so changing one
// octave count shifts every stack after it, matching the teacher exactly.
func NewBlended(seed int64, cfg BlendedConfig) *Blended {
	if cfg.MinLimitOctaves == 0 {
		d := DefaultBlendedConfig()
		if cfg.XZScale == 0 {
			cfg = d
		}
	}
	rnd := rand.New(rand.NewSource(seed))
	return &Blended{
		minLimit:             NewOctaves(rnd, cfg.MinLimitOctaves),
		maxLimit:             NewOctaves(rnd, cfg.MaxLimitOctaves),
		main:                 NewOctaves(rnd, cfg.MainOctaves),
		xzScale:              cfg.XZScale,
		yScale:               cfg.YScale,
		xzFactor:             cfg.XZFactor,
		yFactor:              cfg.YFactor,
		smearScaleMultiplier: cfg.SmearScaleMultiplier,
	}
}

// Sample evaluates the blended field at a single world position.
func (b *Blended) Sample(x, y, z float64) float64 {
	xzs := x * b.xzScale
	ys := y * b.yScale
	zzs := z * b.xzScale

	xzsm := xzs / b.smearScaleMultiplier
	ysm := ys / b.smearScaleMultiplier
	zzsm := zzs / b.smearScaleMultiplier

	mainVal := b.main.Sample3D(xzsm, ysm, zzsm)
	minVal := b.minLimit.Sample3D(xzs, ys, zzs)
	maxVal := b.maxLimit.Sample3D(xzs, ys, zzs)

	t := clamp01((mainVal*0.1 + 1.0) / 2.0)
	result := minVal + (maxVal-minVal)*t
	if result > MaxBlendedMagnitude {
		result = MaxBlendedMagnitude
	} else if result < -MaxBlendedMagnitude {
		result = -MaxBlendedMagnitude
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
