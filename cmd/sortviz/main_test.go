package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/dataset"
)

func newTestCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	configFile = ""
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&dataDir, "data", "runs", "")
	addDatasetFlags(cmd)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolveDatasetPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		want  dataset.Dataset
	}{
		{"values flag", []string{"--values", "3, 1, 2", "--preset", "sorted"}, dataset.Dataset{3, 1, 2}},
		{"preset flag", []string{"--preset", "reversed"}, dataset.Dataset{90, 80, 70, 60, 50, 40, 30, 20, 10}},
		{"default", nil, dataset.Dataset{45, 27, 0, 0, 10, 20, 30, 40, 50, 60, 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCmd(t, tt.flags...)
			cfg, err := loadConfig(cmd, []string{"bubble"})
			if err != nil {
				t.Fatal(err)
			}
			got, err := resolveDataset(cmd, cfg, cfg.Algorithm)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDatasetRandom(t *testing.T) {
	cmd := newTestCmd(t, "--random", "7", "--seed", "3")
	cfg, err := loadConfig(cmd, []string{"radix"})
	if err != nil {
		t.Fatal(err)
	}
	a, err := resolveDataset(cmd, cfg, cfg.Algorithm)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := resolveDataset(cmd, cfg, cfg.Algorithm)
	if a.Len() != 7 || !a.Equal(b) {
		t.Errorf("random dataset %v not reproducible (%v)", a, b)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sortviz.yaml")
	if err := os.WriteFile(path, []byte("algorithm: merge\nspeed: 3\nvalues: [4, 2]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SORTVIZ_SPEED", "8")

	cmd := newTestCmd(t)
	configFile = path
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "merge" || cfg.Speed != 8 {
		t.Errorf("file then env: got %s speed %d", cfg.Algorithm, cfg.Speed)
	}
	got, _ := resolveDataset(cmd, cfg, cfg.Algorithm)
	if !got.Equal(dataset.Dataset{4, 2}) {
		t.Errorf("config values ignored: %v", got)
	}

	cmd = newTestCmd(t, "--speed", "2")
	configFile = path
	cfg, err = loadConfig(cmd, []string{"quick"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "quick" || cfg.Speed != 2 {
		t.Errorf("flags must win: got %s speed %d", cfg.Algorithm, cfg.Speed)
	}
}

func TestUnknownPreset(t *testing.T) {
	cmd := newTestCmd(t, "--preset", "nope")
	cfg, err := loadConfig(cmd, []string{"quick"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resolveDataset(cmd, cfg, cfg.Algorithm); err == nil {
		t.Error("expected unknown preset error")
	}
}
