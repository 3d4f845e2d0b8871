package terrain

import "testing"

func TestStoreGetHasPutRoundTrip(t *testing.T) {
	s := NewStore()
	if s.Has(0, 0) {
		t.Fatal("Has on an empty store = true, want false")
	}
	c := NewChunk(2, 3, 0, 4)
	s.Put(c)
	if !s.Has(2, 3) {
		t.Error("Has after Put = false, want true")
	}
	if got := s.Get(2, 3); got != c {
		t.Errorf("Get = %v, want the same chunk pointer put in", got)
	}
	if got := s.Get(5, 5); got != nil {
		t.Errorf("Get at an uncached coordinate = %v, want nil", got)
	}
}

func TestStorePutIncrementsModCount(t *testing.T) {
	s := NewStore()
	if s.ModCount() != 0 {
		t.Fatalf("ModCount on empty store = %d, want 0", s.ModCount())
	}
	s.Put(NewChunk(0, 0, 0, 1))
	s.Put(NewChunk(1, 0, 0, 1))
	if got := s.ModCount(); got != 2 {
		t.Errorf("ModCount after two Puts = %d, want 2", got)
	}
}

func TestStoreColumnsInRadiusUsesCircularCutoff(t *testing.T) {
	s := NewStore()
	s.Put(NewChunk(0, 0, 0, 1))
	s.Put(NewChunk(3, 0, 0, 1)) // distance 3, inside radius 3
	s.Put(NewChunk(3, 3, 0, 1)) // distance sqrt(18) > 3, outside

	got := s.ColumnsInRadius(0, 0, 3, nil)
	if len(got) != 2 {
		t.Fatalf("ColumnsInRadius returned %d columns, want 2", len(got))
	}
	seen := map[ColumnCoord]bool{}
	for _, c := range got {
		seen[ColumnCoord{c.X, c.Z}] = true
	}
	if !seen[(ColumnCoord{0, 0})] || !seen[(ColumnCoord{3, 0})] {
		t.Errorf("ColumnsInRadius result = %v, want (0,0) and (3,0)", got)
	}
	if seen[(ColumnCoord{3, 3})] {
		t.Error("ColumnsInRadius included a column outside the circular cutoff")
	}
}

func TestStoreEvictFarColumnsRemovesOutOfRange(t *testing.T) {
	s := NewStore()
	s.Put(NewChunk(0, 0, 0, 1))
	s.Put(NewChunk(10, 10, 0, 1))

	removed := s.EvictFarColumns(0, 0, 2)
	if removed != 1 {
		t.Fatalf("EvictFarColumns removed %d, want 1", removed)
	}
	if !s.Has(0, 0) {
		t.Error("EvictFarColumns removed a column within radius")
	}
	if s.Has(10, 10) {
		t.Error("EvictFarColumns left a far column cached")
	}
	if s.ModCount() != 3 { // 2 puts + 1 eviction
		t.Errorf("ModCount after evictions = %d, want 3", s.ModCount())
	}
}
