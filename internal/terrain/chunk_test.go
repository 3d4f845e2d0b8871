package terrain

import "testing"

func TestChunkGetSetRoundTrip(t *testing.T) {
	c := NewChunk(0, 0, -2, 4)
	c.SetBlock(3, -10, 7, 5)
	if got := c.GetBlock(3, -10, 7); got != 5 {
		t.Errorf("GetBlock after SetBlock = %d, want 5", got)
	}
	if got := c.GetBlock(3, -11, 7); got != Air {
		t.Errorf("GetBlock at an untouched position = %d, want Air", got)
	}
}

func TestChunkOutOfRangeReadsReturnAir(t *testing.T) {
	c := NewChunk(0, 0, 0, 2)
	cases := [][3]int{{-1, 0, 0}, {16, 0, 0}, {0, 0, -1}, {0, 0, 16}, {0, -1, 0}, {0, 32, 0}}
	for _, p := range cases {
		if got := c.GetBlock(p[0], p[1], p[2]); got != Air {
			t.Errorf("GetBlock%v = %d, want Air for an out-of-range position", p, got)
		}
	}
}

func TestChunkSetAirOnEmptySectionIsNoop(t *testing.T) {
	c := NewChunk(0, 0, 0, 1)
	c.SetBlock(0, 0, 0, Air) // must not allocate a section
	if got := c.GetBlock(0, 0, 0); got != Air {
		t.Errorf("GetBlock = %d, want Air", got)
	}
}

func TestChunkSectionFreesWhenLastBlockCleared(t *testing.T) {
	c := NewChunk(0, 0, 0, 1)
	c.SetBlock(1, 1, 1, 9)
	c.SetBlock(1, 1, 1, Air)
	if c.sections[0] != nil {
		t.Error("section should be freed once its only block is cleared back to Air")
	}
}

func TestChunkMinMaxY(t *testing.T) {
	c := NewChunk(0, 0, -4, 10)
	if got := c.MinY(); got != -64 {
		t.Errorf("MinY() = %d, want -64", got)
	}
	if got := c.MaxY(); got != 96 {
		t.Errorf("MaxY() = %d, want 96", got)
	}
	if got := c.SectionCount(); got != 10 {
		t.Errorf("SectionCount() = %d, want 10", got)
	}
}

func TestChunkNegativeWorldYWrapsLocalCorrectly(t *testing.T) {
	c := NewChunk(0, 0, -1, 1) // covers world Y in [-16, 0)
	c.SetBlock(0, -1, 0, 3)
	if got := c.GetBlock(0, -1, 0); got != 3 {
		t.Errorf("GetBlock(-1) = %d, want 3", got)
	}
}
