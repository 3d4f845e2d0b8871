package noise

import "math"

// Octaves stacks several Improved generators at halving amplitude, exactly
// as Minecraft's NoiseGeneratorOctaves does, including the 16,777,216-unit
// coordinate wrap that keeps large world coordinates from losing float
// precision in the lattice hash.
type Octaves struct {
	generators []*Improved
}

// NewOctaves builds a stack of n octaves, each consuming its own slice of
// randomness from rnd (so construction order matters and must match the
// teacher's field declaration order when porting a fixed seed).
func NewOctaves(rnd Rand, n int) *Octaves {
	o := &Octaves{generators: make([]*Improved, n)}
	for i := 0; i < n; i++ {
		o.generators[i] = NewImproved(rnd)
	}
	return o
}

// Octaves reports how many octaves this stack holds.
func (o *Octaves) Octaves() int { return len(o.generators) }

// Generate3D is a 1:1 port of generateNoiseOctaves's 3D form. noiseArray is
// reused if non-nil and sized xSize*ySize*zSize; otherwise it's allocated.
func (o *Octaves) Generate3D(
	noiseArray []float64,
	xOffset, yOffset, zOffset int,
	xSize, ySize, zSize int,
	xScale, yScale, zScale float64,
) []float64 {
	if noiseArray == nil {
		noiseArray = make([]float64, xSize*ySize*zSize)
	} else {
		for i := range noiseArray {
			noiseArray[i] = 0
		}
	}

	amplitudeInv := 1.0
	for _, gen := range o.generators {
		dx := float64(xOffset) * amplitudeInv * xScale
		dy := float64(yOffset) * amplitudeInv * yScale
		dz := float64(zOffset) * amplitudeInv * zScale

		k := int64(math.Floor(dx))
		l := int64(math.Floor(dz))
		dx -= float64(k)
		dz -= float64(l)
		k %= 16777216
		l %= 16777216
		dx += float64(k)
		dz += float64(l)

		gen.PopulateNoiseArray(
			noiseArray,
			dx, dy, dz,
			xSize, ySize, zSize,
			xScale*amplitudeInv, yScale*amplitudeInv, zScale*amplitudeInv,
			amplitudeInv,
		)
		amplitudeInv /= 2.0
	}

	return noiseArray
}

// Generate2D is the depth-noise bouncer: a 3D call with ySize=1, yOffset=10.
func (o *Octaves) Generate2D(
	noiseArray []float64,
	xOffset, zOffset int,
	xSize, zSize int,
	xScale, zScale float64,
) []float64 {
	return o.Generate3D(noiseArray, xOffset, 10, zOffset, xSize, 1, zSize, xScale, 1.0, zScale)
}

// Sample3D evaluates a single point through every octave.
func (o *Octaves) Sample3D(x, y, z float64) float64 {
	sum := 0.0
	for i, gen := range o.generators {
		scale := 1.0 / math.Pow(2, float64(i))
		sum += gen.Sample3D(x*scale, y*scale, z*scale) * scale
	}
	return sum
}
