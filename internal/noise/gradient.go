package noise

// YClampedGradient implements the Y-clamped linear gradient primitive: a
// ramp from fromValue at y<=fromY to toValue at y>=toY, linearly
// interpolated in between. It underlies both the compiled graph's
// YClampedGradient component and the teacher's simpler
// "(baseHeight-y)/gradientStrength" altitude term in DensityGenerator,
// generalized to an arbitrary clamped range instead of a fixed pivot.
func YClampedGradient(y, fromY, toY, fromValue, toValue float64) float64 {
	if toY == fromY {
		if y < fromY {
			return fromValue
		}
		return toValue
	}
	t := (y - fromY) / (toY - fromY)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return fromValue + (toValue-fromValue)*t
}

// RarityMapper selects the coordinate scale a WeirdScaled sampler applies,
// keyed off another density component's value. Type1/Type2 mirror
// Minecraft's two rarity-value-mapper curves used for pillar/spaghetti
// caves.
type RarityMapper func(value float64) float64

// RarityType1 is Minecraft's "type1" rarity curve (used for noodle caves).
func RarityType1(value float64) float64 {
	switch {
	case value < -0.5:
		return 0.75
	case value < 0:
		return 1.0
	case value < 0.5:
		return 1.5
	default:
		return 2.0
	}
}

// RarityType2 is Minecraft's "type2" rarity curve (used for pillars).
func RarityType2(value float64) float64 {
	switch {
	case value < -0.75:
		return 0.5
	case value < -0.5:
		return 0.75
	case value < 0.5:
		return 1.0
	case value < 0.75:
		return 1.5
	default:
		return 2.0
	}
}

// WeirdScaled samples an underlying octave field at a coordinate scale
// chosen per-point by a RarityMapper applied to a driving value (typically
// another compiled component's output), then multiplies the result by half
// that factor — MC's "weirdScaledSampler" density function.
type WeirdScaled struct {
	source *Octaves
	mapper RarityMapper
}

// NewWeirdScaled binds an octave source to a rarity curve.
func NewWeirdScaled(source *Octaves, mapper RarityMapper) *WeirdScaled {
	return &WeirdScaled{source: source, mapper: mapper}
}

// Sample evaluates the weird-scaled field at (x,y,z) given the driving
// value that selects the rarity factor.
func (w *WeirdScaled) Sample(x, y, z, drivingValue float64) float64 {
	scale := w.mapper(drivingValue)
	if scale == 0 {
		return 0
	}
	return w.source.Sample3D(x/scale, y/scale, z/scale) * scale / 2.0
}

// ShiftedNoise samples an octave field at a position displaced by three
// other density values (shiftX, shiftY, shiftZ), each divided by the given
// xz/y scale — MC's "shiftedNoise" density function, used to warp coherent
// noise by other compiled components instead of sampling at raw coordinates.
type ShiftedNoise struct {
	source          *Octaves
	xzScale, yScale float64
}

// NewShiftedNoise binds an octave source to the scale the shift is measured in.
func NewShiftedNoise(source *Octaves, xzScale, yScale float64) *ShiftedNoise {
	return &ShiftedNoise{source: source, xzScale: xzScale, yScale: yScale}
}

// Sample evaluates the shifted field given the raw position and the three
// shift values produced by upstream components.
func (s *ShiftedNoise) Sample(x, y, z, shiftX, shiftY, shiftZ float64) float64 {
	return s.source.Sample3D(
		x*s.xzScale+shiftX,
		y*s.yScale+shiftY,
		z*s.xzScale+shiftZ,
	)
}
