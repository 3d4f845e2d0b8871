package terrain

import (
	"mini-terrain-router/internal/density"
	"mini-terrain-router/internal/profiling"
)

// columnGridSize is 16 local columns plus one edge column so neighboring
// chunks agree on the shared boundary sample.
const columnGridSize = 17

// ChunkColumnCache holds one secondary-root density sample (e.g. a
// preliminary surface height or a biome-blend weight) per (x, z) column
// across a chunk plus its edge, computed once per chunk generation instead
// of once per block. Its router.Sample calls stay in Zone A, so a single
// shared DensityCache is enough — there's no per-Y variation to keep
// separate.
type ChunkColumnCache struct {
	router   *density.NoiseRouter
	rootName string
	cache    *density.DensityCache

	originX, originZ int
	values            [columnGridSize][columnGridSize]float64
}

// NewChunkColumnCache builds an empty column cache bound to rootName —
// router must expose that name (one of its secondary roots).
func NewChunkColumnCache(router *density.NoiseRouter, rootName string) *ChunkColumnCache {
	return &ChunkColumnCache{router: router, rootName: rootName, cache: router.NewCache()}
}

// PopulateColumns fills the 17x17 grid anchored at chunk-local world
// coordinates (originX, originZ).
func (cc *ChunkColumnCache) PopulateColumns(originX, originZ int) error {
	defer profiling.Track("terrain.PopulateColumns")()

	cc.originX, cc.originZ = originX, originZ
	for lx := 0; lx < columnGridSize; lx++ {
		wx := originX + lx
		for lz := 0; lz < columnGridSize; lz++ {
			wz := originZ + lz
			cc.cache.BeginColumn(wx, wz)
			v, err := cc.router.Sample(cc.rootName, cc.cache, float64(wx), 0, float64(wz))
			if err != nil {
				return err
			}
			cc.values[lx][lz] = v
		}
	}
	return nil
}

// At returns the cached value at local column (localX, localZ), each in
// [0, 16].
func (cc *ChunkColumnCache) At(localX, localZ int) float64 {
	return cc.values[localX][localZ]
}
