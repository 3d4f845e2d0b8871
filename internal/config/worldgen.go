// Package config holds mutex-guarded, process-wide generation settings,
// following the teacher's RenderSettings/WorldGenSettings pattern: a
// package-level struct behind a sync.RWMutex, with plain Get/Set functions
// as the public surface instead of exposing the struct itself.
package config

import "sync"

// WorldGenSettings holds the feature flags and constants the density
// router and chunk generator consult (spec.md §4.5's "lazy-range-choice"
// and "surface-skip" flags, plus the terrain package's sea level and
// bedrock floor).
type WorldGenSettings struct {
	mu sync.RWMutex

	lazyRangeChoice bool
	surfaceSkip     bool
	noiseMax        float64

	seaLevel    int
	bedrockFloor int
	waterID     uint16
	bedrockID   uint16
}

var globalWorldGenSettings = &WorldGenSettings{
	lazyRangeChoice: true,
	surfaceSkip:     false,
	noiseMax:        2.0,
	seaLevel:        63,
	bedrockFloor:    5,
}

// GetLazyRangeChoice reports whether the lazy-branch planner's in_only/
// out_only skipping is enabled. Disabling it still produces identical
// output — it only trades evaluation cost for simplicity — so it's safe to
// flip off when debugging a suspected fusion or zone bug. NewRouter reads
// it when it builds a router; routers built earlier keep their plans.
func GetLazyRangeChoice() bool {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.lazyRangeChoice
}

// SetLazyRangeChoice sets the lazy-branch planner flag.
func SetLazyRangeChoice(enabled bool) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.lazyRangeChoice = enabled
}

// GetSurfaceSkip reports whether the generator predicts each column's
// surface height before evaluating and skips sections known to be entirely
// above it. It is off by default.
func GetSurfaceSkip() bool {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.surfaceSkip
}

// SetSurfaceSkip sets the surface-skip flag.
func SetSurfaceSkip(enabled bool) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.surfaceSkip = enabled
}

// GetNoiseMax returns the conservative upper bound surface-skip uses to
// translate a preliminary height estimate into a safe section cutoff. It
// must stay >= the true maximum magnitude any per-block density term can
// contribute, or surface-skip can clip terrain (spec.md §9's open question
// on verifying this bound; noise.MaxBlendedMagnitude is its current
// justification).
func GetNoiseMax() float64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.noiseMax
}

// SetNoiseMax overrides the surface-skip bound.
func SetNoiseMax(v float64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.noiseMax = v
}

// GetSeaLevel returns the world Y below which the post-pass fills air with
// water.
func GetSeaLevel() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seaLevel
}

// SetSeaLevel sets the sea level.
func SetSeaLevel(level int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seaLevel = level
}

// GetBedrockFloor returns the thickness, in blocks above the chunk's
// minimum Y, of the hashed bedrock taper.
func GetBedrockFloor() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.bedrockFloor
}

// SetBedrockFloor sets the bedrock taper thickness.
func SetBedrockFloor(thickness int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.bedrockFloor = thickness
}

// GetWaterID returns the block ID the sea-level fill pass writes.
func GetWaterID() uint16 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.waterID
}

// SetWaterID sets the block ID the sea-level fill pass writes.
func SetWaterID(id uint16) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.waterID = id
}

// GetBedrockID returns the block ID the bedrock floor pass writes.
func GetBedrockID() uint16 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.bedrockID
}

// SetBedrockID sets the block ID the bedrock floor pass writes.
func SetBedrockID(id uint16) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.bedrockID = id
}
