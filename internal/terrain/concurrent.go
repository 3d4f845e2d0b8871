package terrain

import "golang.org/x/sync/errgroup"

// ChunkCoord identifies one chunk column to generate.
type ChunkCoord struct {
	X, Z                 int
	MinSectionY, Sections int
}

// GenerateChunks runs Generator.GenerateChunk over every coord
// concurrently. Generator holds no mutable per-call state — each call
// allocates its own interpolator, column cache, and DensityCache — so a
// single Generator and density.NoiseRouter can be shared across the whole
// errgroup safely (spec.md §5's concurrency model: one DensityCache per
// in-flight chunk, never shared across goroutines).
func GenerateChunks(g *Generator, coords []ChunkCoord) ([]*Chunk, error) {
	out := make([]*Chunk, len(coords))
	var eg errgroup.Group
	for i, coord := range coords {
		i, coord := i, coord
		eg.Go(func() error {
			c, err := g.GenerateChunk(coord.X, coord.Z, coord.MinSectionY, coord.Sections)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
