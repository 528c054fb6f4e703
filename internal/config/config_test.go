package config

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_LoadConfig_ReturnsDefaults_When_FileMissing(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.jsonc"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func Test_LoadConfig_ParsesHuJSON_When_FileHasCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.jsonc")

	contents := `{
		// where the container lives
		"container_path": "/tmp/my.dnk",
		"cluster_size": 65536,
	}`

	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ContainerPath != "/tmp/my.dnk" {
		t.Errorf("ContainerPath = %q, want /tmp/my.dnk", cfg.ContainerPath)
	}

	if cfg.ClusterSize != 65536 {
		t.Errorf("ClusterSize = %d, want 65536", cfg.ClusterSize)
	}
}

func Test_LoadConfig_Fails_When_ContainerPathExplicitlyEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.jsonc")

	if err := os.WriteFile(path, []byte(`{"container_path": ""}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for empty container_path")
	}
}

func Test_KDFParams_FallsBackToDefaults_When_FieldsZero(t *testing.T) {
	t.Parallel()

	cfg := Config{ContainerPath: "x", KDF: KDFParams{N: 1 << 10}}

	p := cfg.KDFParams()
	if p.N != 1<<10 {
		t.Errorf("N = %d, want overridden value", p.N)
	}

	if p.R == 0 || p.P == 0 {
		t.Errorf("expected R/P to fall back to defaults, got %+v", p)
	}
}
