package terrain

import "mini-terrain-router/internal/density"

const (
	// cellXZ and cellY are the sparse noise grid's cell size: the router is
	// sampled every 4 blocks horizontally and every 8 blocks vertically,
	// and everything in between is trilinearly interpolated (spec.md §5's
	// 4x8x4 interpolation cell, grounded on the teacher's DensityGenerator
	// sparse grid).
	cellXZ = 4
	cellY  = 8

	cornersXZ = SizeX/cellXZ + 1 // 5
	cornersY  = SectionHeight/cellY + 1 // 3
)

// yzPlane holds one X-corner's [cornersY][cornersXZ] density samples.
type yzPlane [cornersY][cornersXZ]float64

// topPlane holds the [cornersXZ][cornersXZ] density samples at the top Y
// corner of a section, across every X corner — reused as the bottom plane
// of the section immediately above it.
type topPlane [cornersXZ][cornersXZ]float64

// SectionInterpolator evaluates the primary density root at a 5x3x5 corner
// grid per section and trilinearly interpolates every block in between,
// instead of sampling the router once per block. It keeps only two
// X-corner planes resident at a time (curPlane/nextPlane), swapping as
// generation advances across the section's four X-cells, and reuses the
// previous section's top Y-corner plane as this section's bottom plane
// instead of resampling it.
type SectionInterpolator struct {
	router   *density.NoiseRouter
	rootName string
	cache    *density.DensityCache

	originX, originZ int
	sectionY0        int

	curPlane, nextPlane yzPlane
	curXCorner          int

	topOfSection   topPlane
	savedTop       topPlane
	haveSavedTop   bool
	sectionStarted bool
}

// NewSectionInterpolator binds an interpolator to router's named root.
func NewSectionInterpolator(router *density.NoiseRouter, rootName string) *SectionInterpolator {
	return &SectionInterpolator{router: router, rootName: rootName, cache: router.NewCache()}
}

// BeginColumn resets the interpolator for a new chunk column at world
// (originX, originZ), discarding any saved Y-boundary plane from a
// previous column.
func (si *SectionInterpolator) BeginColumn(originX, originZ int) {
	si.originX, si.originZ = originX, originZ
	si.haveSavedTop = false
	si.sectionStarted = false
}

// NextSection prepares the interpolator to evaluate the section starting
// at world Y y0. If a previous section was evaluated in this column, its
// top Y-corner plane (fully populated by the CellUniformSign/Sample calls
// that walked every X-cell) becomes this section's bottom Y-corner plane
// instead of being resampled from the router.
func (si *SectionInterpolator) NextSection(y0 int) error {
	if si.sectionStarted {
		si.savedTop = si.topOfSection
		si.haveSavedTop = true
	}
	si.sectionStarted = true
	si.sectionY0 = y0
	si.curXCorner = 0

	p0, err := si.computePlane(0)
	if err != nil {
		return err
	}
	si.curPlane = p0
	si.topOfSection[0] = p0[cornersY-1]

	p1, err := si.computePlane(1)
	if err != nil {
		return err
	}
	si.nextPlane = p1
	si.topOfSection[1] = p1[cornersY-1]
	return nil
}

// computePlane samples the router at X corner xCorner (0..cornersXZ-1) for
// every (y, z) corner in the current section.
func (si *SectionInterpolator) computePlane(xCorner int) (yzPlane, error) {
	var p yzPlane
	wx := si.originX + xCorner*cellXZ
	for yc := 0; yc < cornersY; yc++ {
		wy := si.sectionY0 + yc*cellY
		if yc == 0 && si.haveSavedTop {
			for zc := 0; zc < cornersXZ; zc++ {
				p[0][zc] = si.savedTop[xCorner][zc]
			}
			continue
		}
		for zc := 0; zc < cornersXZ; zc++ {
			wz := si.originZ + zc*cellXZ
			si.cache.BeginColumn(wx, wz)
			v, err := si.router.Sample(si.rootName, si.cache, float64(wx), float64(wy), float64(wz))
			if err != nil {
				return yzPlane{}, err
			}
			p[yc][zc] = v
		}
	}
	return p, nil
}

// advanceTo ensures curPlane/nextPlane bracket the X-cell containing
// localX.
func (si *SectionInterpolator) advanceTo(xCellIdx int) error {
	for si.curXCorner < xCellIdx {
		si.curPlane = si.nextPlane
		si.curXCorner++
		p, err := si.computePlane(si.curXCorner + 1)
		if err != nil {
			return err
		}
		si.nextPlane = p
		si.topOfSection[si.curXCorner+1] = p[cornersY-1]
	}
	return nil
}

// Sample returns the trilinearly interpolated density at local block
// coordinates (localX, localY, localZ) within the current section.
func (si *SectionInterpolator) Sample(localX, localY, localZ int) (float64, error) {
	xCellIdx := localX / cellXZ
	if err := si.advanceTo(xCellIdx); err != nil {
		return 0, err
	}
	tx := float64(localX%cellXZ) / float64(cellXZ)

	yCellIdx := localY / cellY
	ty := float64(localY%cellY) / float64(cellY)
	zCellIdx := localZ / cellXZ
	tz := float64(localZ%cellXZ) / float64(cellXZ)

	v000 := si.curPlane[yCellIdx][zCellIdx]
	v001 := si.curPlane[yCellIdx][zCellIdx+1]
	v010 := si.curPlane[yCellIdx+1][zCellIdx]
	v011 := si.curPlane[yCellIdx+1][zCellIdx+1]
	v100 := si.nextPlane[yCellIdx][zCellIdx]
	v101 := si.nextPlane[yCellIdx][zCellIdx+1]
	v110 := si.nextPlane[yCellIdx+1][zCellIdx]
	v111 := si.nextPlane[yCellIdx+1][zCellIdx+1]

	c00 := lerp(v000, v100, tx)
	c01 := lerp(v001, v101, tx)
	c10 := lerp(v010, v110, tx)
	c11 := lerp(v011, v111, tx)
	c0 := lerp(c00, c10, ty)
	c1 := lerp(c01, c11, ty)
	return lerp(c0, c1, tz), nil
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// CellUniformSign reports whether the X-cell containing localX has a
// uniform corner sign, so the generator can fill that 4-block-wide slab
// without interpolating each block individually.
func (si *SectionInterpolator) CellUniformSign(localX int) (uniform, positive bool, err error) {
	xCellIdx := localX / cellXZ
	if err := si.advanceTo(xCellIdx); err != nil {
		return false, false, err
	}
	u, p := cornersUniformSign(si.curPlane, si.nextPlane)
	return u, p, nil
}

// cornersUniformSign reports whether every corner of the current X-cell's
// bracketing planes shares the same sign, letting the generator skip
// per-block interpolation for that 4-block-wide slab and fill it uniformly
// solid or uniformly air instead. A corner counts as positive only when it
// is > 0, the same test the generator applies per block.
func cornersUniformSign(a, b yzPlane) (uniform bool, positive bool) {
	sign := a[0][0] > 0
	for _, plane := range [2]*yzPlane{&a, &b} {
		for _, row := range plane {
			for _, v := range row {
				if (v > 0) != sign {
					return false, false
				}
			}
		}
	}
	return true, sign
}
