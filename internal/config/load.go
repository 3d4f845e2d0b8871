package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSettings mirrors WorldGenSettings' overridable fields for YAML
// unmarshaling. A zero value for any field leaves the corresponding setting
// untouched, so a config file only needs to list what it changes.
type fileSettings struct {
	LazyRangeChoice *bool    `yaml:"lazy_range_choice"`
	SurfaceSkip     *bool    `yaml:"surface_skip"`
	NoiseMax        *float64 `yaml:"noise_max"`
	SeaLevel        *int     `yaml:"sea_level"`
	BedrockFloor    *int     `yaml:"bedrock_floor"`
	WaterID         *uint16  `yaml:"water_id"`
	BedrockID       *uint16  `yaml:"bedrock_id"`
}

// LoadWorldGenFile reads a YAML file and applies any settings it overrides
// on top of the current defaults, leaving omitted fields untouched.
func LoadWorldGenFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %q: %w", path, err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(raw, &fs); err != nil {
		return fmt.Errorf("config: parsing %q: %w", path, err)
	}
	applyFileSettings(fs)
	return nil
}

func applyFileSettings(fs fileSettings) {
	if fs.LazyRangeChoice != nil {
		SetLazyRangeChoice(*fs.LazyRangeChoice)
	}
	if fs.SurfaceSkip != nil {
		SetSurfaceSkip(*fs.SurfaceSkip)
	}
	if fs.NoiseMax != nil {
		SetNoiseMax(*fs.NoiseMax)
	}
	if fs.SeaLevel != nil {
		SetSeaLevel(*fs.SeaLevel)
	}
	if fs.BedrockFloor != nil {
		SetBedrockFloor(*fs.BedrockFloor)
	}
	if fs.WaterID != nil {
		SetWaterID(*fs.WaterID)
	}
	if fs.BedrockID != nil {
		SetBedrockID(*fs.BedrockID)
	}
}
