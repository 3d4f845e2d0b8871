package terrain

import (
	"testing"

	"mini-terrain-router/internal/config"
	"mini-terrain-router/internal/density"
)

func TestGenerateChunkFillsBelowZeroCrossing(t *testing.T) {
	grad := density.GradientDesc{Params: density.GradientParams{FromY: 0, ToY: 256, FromValue: 1, ToValue: -1}}
	router, err := density.NewRouter(map[string]density.Desc{"terrain": grad}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	g := NewGenerator(router, "terrain", "", BlockID(1))

	chunk, err := g.GenerateChunk(0, 0, 0, 16)
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}

	// Stay clear of the bedrock taper's y range (the floor's first few
	// blocks get overwritten by applyBedrockAndWater regardless of what
	// the density root says there).
	for _, y := range []int{10, 64, 100} {
		if got := chunk.GetBlock(8, y, 8); got != 1 {
			t.Errorf("GetBlock(8,%d,8) = %d, want solid (1) below the y=128 zero crossing", y, got)
		}
	}
	for _, y := range []int{150, 200, 255} {
		if got := chunk.GetBlock(8, y, 8); got != Air {
			t.Errorf("GetBlock(8,%d,8) = %d, want Air above the y=128 zero crossing", y, got)
		}
	}
}

func TestGenerateChunkSurfaceSkipLeavesHighSectionsAir(t *testing.T) {
	// A terrain root bounded by a low ceiling, plus a secondary surface
	// root reporting that same ceiling, should let surface-skip avoid
	// filling sections that are entirely above it anyway — and the result
	// must be identical air/solid pattern to not skipping at all.
	prev := config.GetSurfaceSkip()
	config.SetSurfaceSkip(true)
	defer config.SetSurfaceSkip(prev)

	grad := density.GradientDesc{Params: density.GradientParams{FromY: 0, ToY: 64, FromValue: 1, ToValue: -1}}
	surface := density.ConstDesc{Value: 32}
	router, err := density.NewRouter(map[string]density.Desc{"terrain": grad, "surface": surface}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	withSkip := NewGenerator(router, "terrain", "surface", BlockID(1))
	skipped, err := withSkip.GenerateChunk(0, 0, 0, 16)
	if err != nil {
		t.Fatalf("GenerateChunk (surface-skip): %v", err)
	}

	withoutSkip := NewGenerator(router, "terrain", "", BlockID(1))
	full, err := withoutSkip.GenerateChunk(0, 0, 0, 16)
	if err != nil {
		t.Fatalf("GenerateChunk (no skip): %v", err)
	}

	for y := 0; y < 256; y += 7 {
		a, b := skipped.GetBlock(3, y, 11), full.GetBlock(3, y, 11)
		if a != b {
			t.Errorf("GetBlock(3,%d,11): surface-skip gave %d, full evaluation gave %d", y, a, b)
		}
	}
}

func TestGenerateChunksConcurrentMatchesSequential(t *testing.T) {
	grad := density.GradientDesc{Params: density.GradientParams{FromY: 0, ToY: 256, FromValue: 1, ToValue: -1}}
	router, err := density.NewRouter(map[string]density.Desc{"terrain": grad}, "terrain")
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	g := NewGenerator(router, "terrain", "", BlockID(1))

	coords := []ChunkCoord{
		{X: 0, Z: 0, MinSectionY: 0, Sections: 4},
		{X: 1, Z: 0, MinSectionY: 0, Sections: 4},
		{X: 0, Z: 1, MinSectionY: 0, Sections: 4},
		{X: -1, Z: -2, MinSectionY: 0, Sections: 4},
	}

	got, err := GenerateChunks(g, coords)
	if err != nil {
		t.Fatalf("GenerateChunks: %v", err)
	}
	if len(got) != len(coords) {
		t.Fatalf("GenerateChunks returned %d chunks, want %d", len(got), len(coords))
	}

	for i, c := range coords {
		want, err := g.GenerateChunk(c.X, c.Z, c.MinSectionY, c.Sections)
		if err != nil {
			t.Fatalf("GenerateChunk: %v", err)
		}
		for y := 0; y < 64; y += 5 {
			if a, b := got[i].GetBlock(4, y, 4), want.GetBlock(4, y, 4); a != b {
				t.Errorf("coord %v: concurrent GetBlock(4,%d,4) = %d, sequential = %d", c, y, a, b)
			}
		}
	}
}
