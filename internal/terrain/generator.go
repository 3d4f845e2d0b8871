package terrain

import (
	"math"

	"mini-terrain-router/internal/config"
	"mini-terrain-router/internal/density"
	"mini-terrain-router/internal/profiling"
)

// Generator drives a density.NoiseRouter section by section to fill a
// Chunk: corner sampling with an interpolator, a uniform-sign fast path
// per X-cell, an optional surface-height prediction that skips sections
// known to be entirely above the terrain, and a bedrock/sea-level post
// pass (both grounded on the teacher's ChunkProvider189.replaceSurface).
type Generator struct {
	router *density.NoiseRouter

	primaryRoot string
	surfaceRoot string // secondary root estimating top-of-terrain height; "" disables surface-skip

	solidID  BlockID
	waterID  BlockID
	bedrockID BlockID
}

// NewGenerator binds a Generator to router's primary density root
// (evaluated per block) and, optionally, a secondary surfaceRoot used for
// the surface-skip optimization.
func NewGenerator(router *density.NoiseRouter, primaryRoot, surfaceRoot string, solidID BlockID) *Generator {
	return &Generator{
		router:      router,
		primaryRoot: primaryRoot,
		surfaceRoot: surfaceRoot,
		solidID:     solidID,
		waterID:     BlockID(config.GetWaterID()),
		bedrockID:   BlockID(config.GetBedrockID()),
	}
}

// GenerateChunk produces a fully populated chunk column at chunk
// coordinates (cx, cz), spanning sectionCount sections starting at
// minSectionY (in section coordinates).
func (g *Generator) GenerateChunk(cx, cz, minSectionY, sectionCount int) (*Chunk, error) {
	defer profiling.Track("terrain.GenerateChunk")()

	chunk := NewChunk(cx, cz, minSectionY, sectionCount)
	originX, originZ := cx*SizeX, cz*SizeZ

	maxSection := sectionCount
	if config.GetSurfaceSkip() && g.surfaceRoot != "" {
		skip, err := g.estimateMaxSurfaceSection(originX, originZ, minSectionY, sectionCount)
		if err != nil {
			return nil, err
		}
		maxSection = skip
	}

	interp := NewSectionInterpolator(g.router, g.primaryRoot)
	interp.BeginColumn(originX, originZ)

	for secIdx := 0; secIdx < maxSection; secIdx++ {
		y0 := (minSectionY + secIdx) * SectionHeight
		if err := interp.NextSection(y0); err != nil {
			return nil, err
		}
		if err := g.fillSection(chunk, interp, secIdx, y0); err != nil {
			return nil, err
		}
	}

	g.applyBedrockAndWater(chunk, originX, originZ)
	return chunk, nil
}

func (g *Generator) fillSection(chunk *Chunk, interp *SectionInterpolator, secIdx, y0 int) error {
	defer profiling.Track("terrain.fillSection")()

	for lx := 0; lx < SizeX; lx++ {
		uniform, positive, err := interp.CellUniformSign(lx)
		if err != nil {
			return err
		}
		if uniform {
			if !positive {
				continue // whole X-cell slab is air; chunk starts all-air
			}
			zEnd := lx - lx%cellXZ + cellXZ
			for fx := lx - lx%cellXZ; fx < zEnd; fx++ {
				for ly := 0; ly < SectionHeight; ly++ {
					for lz := 0; lz < SizeZ; lz++ {
						chunk.SetBlock(fx, y0+ly, lz, g.solidID)
					}
				}
			}
			lx = zEnd - 1
			continue
		}

		for ly := 0; ly < SectionHeight; ly++ {
			for lz := 0; lz < SizeZ; lz++ {
				v, err := interp.Sample(lx, ly, lz)
				if err != nil {
					return err
				}
				if v > 0 {
					chunk.SetBlock(lx, y0+ly, lz, g.solidID)
				}
			}
		}
	}
	return nil
}

// estimateMaxSurfaceSection samples the secondary surface root across the
// chunk's 17x17 column grid, takes the highest predicted value, and adds
// config.GetNoiseMax() as a conservative slack bound before converting to
// a section count — any section entirely above that bound cannot contain
// solid terrain regardless of what the primary root's per-block noise
// terms do. If any sampled value is NaN or infinite it returns
// sectionCount, so no section is skipped.
func (g *Generator) estimateMaxSurfaceSection(originX, originZ, minSectionY, sectionCount int) (int, error) {
	cc := NewChunkColumnCache(g.router, g.surfaceRoot)
	if err := cc.PopulateColumns(originX, originZ); err != nil {
		return sectionCount, err
	}

	maxY := math.Inf(-1)
	for lx := 0; lx < columnGridSize; lx++ {
		for lz := 0; lz < columnGridSize; lz++ {
			v := cc.At(lx, lz)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return sectionCount, nil
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	if math.IsInf(maxY, -1) || math.IsNaN(maxY) {
		return sectionCount, nil
	}

	safeTop := maxY + config.GetNoiseMax()
	topSection := int(math.Ceil(safeTop/SectionHeight)) - minSectionY
	if topSection < 1 {
		topSection = 1
	}
	if topSection > sectionCount {
		topSection = sectionCount
	}
	return topSection, nil
}

// applyBedrockAndWater writes the hashed bedrock taper at the chunk's
// floor and fills any remaining air below sea level with water, mirroring
// ChunkProvider189.replaceSurface's second pass.
func (g *Generator) applyBedrockAndWater(chunk *Chunk, originX, originZ int) {
	floor := config.GetBedrockFloor()
	seaLevel := config.GetSeaLevel()
	minY := chunk.MinY()

	for lx := 0; lx < SizeX; lx++ {
		worldX := originX + lx
		for lz := 0; lz < SizeZ; lz++ {
			worldZ := originZ + lz
			for i := 0; i < floor; i++ {
				y := minY + i
				if i == 0 {
					chunk.SetBlock(lx, y, lz, g.bedrockID)
					continue
				}
				if bedrockHash(worldX, worldZ, y)%floor <= floor-1-i {
					chunk.SetBlock(lx, y, lz, g.bedrockID)
				}
			}

			if g.waterID == Air {
				continue
			}
			for y := minY; y < seaLevel; y++ {
				if chunk.GetBlock(lx, y, lz) == Air {
					chunk.SetBlock(lx, y, lz, g.waterID)
				}
			}
		}
	}
}

// bedrockHash reproduces the teacher's mixing constants for a
// deterministic, seedless per-block hash used to taper the bedrock layer.
func bedrockHash(x, z, y int) int {
	h := uint64(x)*0x9E3779B9 + uint64(z)*0x517CC1B7 + uint64(y)*0x6C622723
	h = (h ^ (h >> 16)) * 0x45D9F3B
	return int(h % (1 << 32))
}
