package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetSetRoundTrip(t *testing.T) {
	prev := GetSeaLevel()
	defer SetSeaLevel(prev)

	SetSeaLevel(40)
	if got := GetSeaLevel(); got != 40 {
		t.Errorf("GetSeaLevel() = %d, want 40", got)
	}
}

func TestLoadWorldGenFileOverridesOnlySetFields(t *testing.T) {
	prevSea, prevBedrock, prevSkip := GetSeaLevel(), GetBedrockFloor(), GetSurfaceSkip()
	defer func() {
		SetSeaLevel(prevSea)
		SetBedrockFloor(prevBedrock)
		SetSurfaceSkip(prevSkip)
	}()

	dir := t.TempDir()
	path := filepath.Join(dir, "worldgen.yaml")
	if err := os.WriteFile(path, []byte("sea_level: 50\nbedrock_floor: 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := LoadWorldGenFile(path); err != nil {
		t.Fatalf("LoadWorldGenFile: %v", err)
	}

	if got := GetSeaLevel(); got != 50 {
		t.Errorf("GetSeaLevel() = %d, want 50", got)
	}
	if got := GetBedrockFloor(); got != 3 {
		t.Errorf("GetBedrockFloor() = %d, want 3", got)
	}
	if got := GetSurfaceSkip(); got != prevSkip {
		t.Errorf("GetSurfaceSkip() = %v, want unchanged (%v) since the file didn't mention it", got, prevSkip)
	}
}

func TestLoadWorldGenFileMissingPath(t *testing.T) {
	if err := LoadWorldGenFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadWorldGenFile with a missing file: want error, got nil")
	}
}
