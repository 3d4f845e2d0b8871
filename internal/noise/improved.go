// Package noise implements the deterministic 3D scalar noise primitives the
// density graph compiles against: an authentic port of Minecraft 1.8.9's
// NoiseGeneratorImproved/NoiseGeneratorOctaves, plus the blended, weird-
// scaled, shifted, and Y-clamped-gradient fields layered on top of it.
//
// Every generator here is a pure function of position and seed once
// constructed; none hold mutable state after NewImproved/NewOctaves return.
package noise

// Gradient lookup tables, ported verbatim from NoiseGeneratorImproved.java.
var (
	gradX = [16]float64{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	gradY = [16]float64{1, 1, -1, -1, 0, 0, 0, 0, 1, -1, 1, -1, 1, -1, 1, -1}
	gradZ = [16]float64{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
	grad2X = [16]float64{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	grad2Z = [16]float64{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
)

// Rand is the minimal interface the permutation shuffle needs, satisfied by
// *rand.Rand. Accepting an interface keeps this package decoupled from a
// particular PRNG choice and lets callers seed deterministically.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Improved is a single octave of 3D/2D gradient noise: a permutation table
// plus a per-octave coordinate offset, identical in behavior to Minecraft
// 1.8.9's NoiseGeneratorImproved.
type Improved struct {
	permutations [512]int
	xCoord       float64
	yCoord       float64
	zCoord       float64
}

// NewImproved builds one octave, consuming randomness from rnd to pick the
// coordinate offset and shuffle the permutation table (a Fisher-Yates
// shuffle in the same swap order MC uses).
func NewImproved(rnd Rand) *Improved {
	n := &Improved{
		xCoord: rnd.Float64() * 256.0,
		yCoord: rnd.Float64() * 256.0,
		zCoord: rnd.Float64() * 256.0,
	}

	for i := 0; i < 256; i++ {
		n.permutations[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rnd.Intn(256-i) + i
		n.permutations[i], n.permutations[j] = n.permutations[j], n.permutations[i]
		n.permutations[i+256] = n.permutations[i]
	}
	return n
}

func lerpN(t, a, b float64) float64 { return a + t*(b-a) }

func (n *Improved) grad3d(hash int, x, y, z float64) float64 {
	i := hash & 15
	return gradX[i]*x + gradY[i]*y + gradZ[i]*z
}

func (n *Improved) grad2d(hash int, x, z float64) float64 {
	i := hash & 15
	return grad2X[i]*x + grad2Z[i]*z
}

// floorToInt floors d the way MC does: Java's truncating (int)d cast, minus
// one when d lies below the truncated value.
func floorToInt(d float64) int {
	i := int(d)
	if d < float64(i) {
		i--
	}
	return i
}

// PopulateNoiseArray is a 1:1 port of NoiseGeneratorImproved.populateNoiseArray,
// additively accumulating into noiseArray (the caller zeroes it between
// octave-0 calls). When ySize == 1 it takes the 2D branch used for depth
// noise; otherwise it walks the full X/Y/Z grid, recomputing the four
// X-edge gradients only when the Y lattice cell changes.
func (n *Improved) PopulateNoiseArray(
	noiseArray []float64,
	xOffset, yOffset, zOffset float64,
	xSize, ySize, zSize int,
	xScale, yScale, zScale, noiseScale float64,
) {
	scaleInv := 1.0 / noiseScale

	if ySize == 1 {
		idx := 0
		for ix := 0; ix < xSize; ix++ {
			fx := xOffset + float64(ix)*xScale + n.xCoord
			flx := floorToInt(fx)
			permX := flx & 255
			fx -= float64(flx)
			fadeX := fx * fx * fx * (fx*(fx*6.0-15.0) + 10.0)

			for iz := 0; iz < zSize; iz++ {
				fz := zOffset + float64(iz)*zScale + n.zCoord
				flz := floorToInt(fz)
				permZ := flz & 255
				fz -= float64(flz)
				fadeZ := fz * fz * fz * (fz*(fz*6.0-15.0) + 10.0)

				i5 := n.permutations[permX] + 0
				j5 := n.permutations[i5] + permZ
				j := n.permutations[permX+1] + 0
				k5 := n.permutations[j] + permZ

				d14 := lerpN(fadeX, n.grad2d(n.permutations[j5], fx, fz), n.grad3d(n.permutations[k5], fx-1.0, 0.0, fz))
				d15 := lerpN(fadeX, n.grad3d(n.permutations[j5+1], fx, 0.0, fz-1.0), n.grad3d(n.permutations[k5+1], fx-1.0, 0.0, fz-1.0))
				val := lerpN(fadeZ, d14, d15)

				noiseArray[idx] += val * scaleInv
				idx++
			}
		}
		return
	}

	idx := 0
	prevPermY := -1
	var d1, d2, d3, d4 float64
	var l, i1, j1, k1, l1, i2 int

	for ix := 0; ix < xSize; ix++ {
		fx := xOffset + float64(ix)*xScale + n.xCoord
		flx := floorToInt(fx)
		permX := flx & 255
		fx -= float64(flx)
		fadeX := fx * fx * fx * (fx*(fx*6.0-15.0) + 10.0)

		for iz := 0; iz < zSize; iz++ {
			fz := zOffset + float64(iz)*zScale + n.zCoord
			flz := floorToInt(fz)
			permZ := flz & 255
			fz -= float64(flz)
			fadeZ := fz * fz * fz * (fz*(fz*6.0-15.0) + 10.0)

			for iy := 0; iy < ySize; iy++ {
				fy := yOffset + float64(iy)*yScale + n.yCoord
				fly := floorToInt(fy)
				permY := fly & 255
				fy -= float64(fly)
				fadeY := fy * fy * fy * (fy*(fy*6.0-15.0) + 10.0)

				if iy == 0 || permY != prevPermY {
					prevPermY = permY

					l = n.permutations[permX] + permY
					i1 = n.permutations[l] + permZ
					j1 = n.permutations[l+1] + permZ
					k1 = n.permutations[permX+1] + permY
					l1 = n.permutations[k1] + permZ
					i2 = n.permutations[k1+1] + permZ

					d1 = lerpN(fadeX,
						n.grad3d(n.permutations[i1], fx, fy, fz),
						n.grad3d(n.permutations[l1], fx-1.0, fy, fz))
					d2 = lerpN(fadeX,
						n.grad3d(n.permutations[j1], fx, fy-1.0, fz),
						n.grad3d(n.permutations[i2], fx-1.0, fy-1.0, fz))
					d3 = lerpN(fadeX,
						n.grad3d(n.permutations[i1+1], fx, fy, fz-1.0),
						n.grad3d(n.permutations[l1+1], fx-1.0, fy, fz-1.0))
					d4 = lerpN(fadeX,
						n.grad3d(n.permutations[j1+1], fx, fy-1.0, fz-1.0),
						n.grad3d(n.permutations[i2+1], fx-1.0, fy-1.0, fz-1.0))
				}

				d11 := lerpN(fadeY, d1, d2)
				d12 := lerpN(fadeY, d3, d4)
				val := lerpN(fadeZ, d11, d12)

				noiseArray[idx] += val * scaleInv
				idx++
			}
		}
	}
}

// Sample3D evaluates a single point, for callers that don't need the batch
// grid form (the compiled graph's scalar Noise/BlendedNoise components).
//
// This can't delegate to PopulateNoiseArray: that method's ySize==1 branch
// is the dedicated 2D depth-noise path and ignores y entirely, which is
// exactly right for Generate2D's depth map but would silently flatten
// every 3D sample taken one point at a time. So this inlines the 3D
// branch's single-cell body directly.
func (n *Improved) Sample3D(x, y, z float64) float64 {
	fx := x + n.xCoord
	flx := floorToInt(fx)
	permX := flx & 255
	fx -= float64(flx)
	fadeX := fx * fx * fx * (fx*(fx*6.0-15.0) + 10.0)

	fy := y + n.yCoord
	fly := floorToInt(fy)
	permY := fly & 255
	fy -= float64(fly)
	fadeY := fy * fy * fy * (fy*(fy*6.0-15.0) + 10.0)

	fz := z + n.zCoord
	flz := floorToInt(fz)
	permZ := flz & 255
	fz -= float64(flz)
	fadeZ := fz * fz * fz * (fz*(fz*6.0-15.0) + 10.0)

	l := n.permutations[permX] + permY
	i1 := n.permutations[l] + permZ
	j1 := n.permutations[l+1] + permZ
	k1 := n.permutations[permX+1] + permY
	l1 := n.permutations[k1] + permZ
	i2 := n.permutations[k1+1] + permZ

	d1 := lerpN(fadeX, n.grad3d(n.permutations[i1], fx, fy, fz), n.grad3d(n.permutations[l1], fx-1.0, fy, fz))
	d2 := lerpN(fadeX, n.grad3d(n.permutations[j1], fx, fy-1.0, fz), n.grad3d(n.permutations[i2], fx-1.0, fy-1.0, fz))
	d3 := lerpN(fadeX, n.grad3d(n.permutations[i1+1], fx, fy, fz-1.0), n.grad3d(n.permutations[l1+1], fx-1.0, fy, fz-1.0))
	d4 := lerpN(fadeX, n.grad3d(n.permutations[j1+1], fx, fy-1.0, fz-1.0), n.grad3d(n.permutations[i2+1], fx-1.0, fy-1.0, fz-1.0))

	d11 := lerpN(fadeY, d1, d2)
	d12 := lerpN(fadeY, d3, d4)
	return lerpN(fadeZ, d11, d12)
}
