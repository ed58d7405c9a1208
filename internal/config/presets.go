package config

import (
	"sort"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/input"
)

var shared = map[string]dataset.Dataset{
	"reversed":   {90, 80, 70, 60, 50, 40, 30, 20, 10},
	"sorted":     {10, 20, 30, 40, 50, 60, 70, 80, 90},
	"few-unique": {3, 1, 2, 3, 1, 2, 1, 3, 2, 1},
	"duplicates": {5, 5, 5, 2, 2, 8, 8, 8, 1, 1},
}

var Presets = map[string]map[string]*Config{}

func init() {
	for _, name := range algorithms.Names() {
		Presets[name] = presetsFor(name)
	}
}

func presetsFor(algorithm string) map[string]*Config {
	out := map[string]*Config{
		"default": {Algorithm: algorithm, Speed: 5, Values: input.Default(algorithm)},
	}
	for name, values := range shared {
		out[name] = &Config{Algorithm: algorithm, Speed: 5, Values: values.Clone()}
	}
	return out
}

func GetPreset(algorithm, preset string) *Config {
	algPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	cfg, ok := algPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(algorithm string) []string {
	algPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(algPresets))
	for name := range algPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
