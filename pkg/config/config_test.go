package config

import (
	"os"
	"path/filepath"
	"testing"

	"armkin-go/pkg/errors"
)

func TestLoadString(t *testing.T) {
	data := `
# arm geometry
[arm]
theta_min: -1.2
theta_max: 1.2
length_offset = 25  # alternative separator

[api]
listen: :8171
`

	cfg, err := LoadString(data)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	if !cfg.HasSection("arm") {
		t.Error("expected [arm] section to exist")
	}
	if !cfg.HasSection("api") {
		t.Error("expected [api] section to exist")
	}
	if cfg.HasSection("nonexistent") {
		t.Error("expected [nonexistent] section to not exist")
	}

	arm, err := cfg.GetSection("arm")
	if err != nil {
		t.Fatalf("GetSection(arm) failed: %v", err)
	}
	if arm.GetName() != "arm" {
		t.Errorf("expected name 'arm', got '%s'", arm.GetName())
	}

	thetaMin, err := arm.GetFloat("theta_min")
	if err != nil {
		t.Fatalf("GetFloat(theta_min) failed: %v", err)
	}
	if thetaMin != -1.2 {
		t.Errorf("expected -1.2, got %f", thetaMin)
	}

	offset, err := arm.GetFloat("length_offset")
	if err != nil {
		t.Fatalf("GetFloat(length_offset) failed: %v", err)
	}
	if offset != 25 {
		t.Errorf("expected 25, got %f", offset)
	}

	apiSec, err := cfg.GetSection("api")
	if err != nil {
		t.Fatalf("GetSection(api) failed: %v", err)
	}
	listen, err := apiSec.Get("listen")
	if err != nil {
		t.Fatalf("Get(listen) failed: %v", err)
	}
	if listen != ":8171" {
		t.Errorf("expected ':8171', got '%s'", listen)
	}
}

func TestSectionFallbacks(t *testing.T) {
	cfg, err := LoadString("[arm]\ntheta_max: 1.0\n")
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	arm, _ := cfg.GetSection("arm")

	if v, err := arm.GetFloat("missing", 3.5); err != nil || v != 3.5 {
		t.Errorf("fallback float: got %v, %v", v, err)
	}
	if v, err := arm.Get("missing", "x"); err != nil || v != "x" {
		t.Errorf("fallback string: got %v, %v", v, err)
	}
	if v, err := arm.GetBool("missing", true); err != nil || !v {
		t.Errorf("fallback bool: got %v, %v", v, err)
	}

	if _, err := arm.GetFloat("missing"); !errors.Is(err, errors.ErrConfigOption) {
		t.Errorf("missing option: got %v, want CONFIG_OPTION", err)
	}
}

func TestTypeErrors(t *testing.T) {
	cfg, err := LoadString("[arm]\ntheta_max: wide\nfast: maybe\ncount: 1.5\n")
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	arm, _ := cfg.GetSection("arm")

	if _, err := arm.GetFloat("theta_max"); !errors.Is(err, errors.ErrConfigType) {
		t.Errorf("bad float: got %v, want CONFIG_TYPE", err)
	}
	if _, err := arm.GetBool("fast"); !errors.Is(err, errors.ErrConfigType) {
		t.Errorf("bad bool: got %v, want CONFIG_TYPE", err)
	}
	if _, err := arm.GetInt("count"); !errors.Is(err, errors.ErrConfigType) {
		t.Errorf("bad int: got %v, want CONFIG_TYPE", err)
	}
}

func TestMissingSection(t *testing.T) {
	cfg, err := LoadString("")
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	if _, err := cfg.GetSection("arm"); !errors.Is(err, errors.ErrConfigSection) {
		t.Errorf("got %v, want CONFIG_SECTION", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arm.cfg")
	if err := os.WriteFile(path, []byte("[arm]\nlength_offset: 18\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	arm, err := cfg.GetSection("arm")
	if err != nil {
		t.Fatalf("GetSection failed: %v", err)
	}
	offset, err := arm.GetFloat("length_offset")
	if err != nil || offset != 18 {
		t.Errorf("length_offset = %v, %v", offset, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.cfg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSectionNamesOrdered(t *testing.T) {
	cfg, err := LoadString("[log]\nlevel: debug\n[arm]\n[api]\n")
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	names := cfg.SectionNames()
	want := []string{"log", "arm", "api"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("got %v, want %v", names, want)
			break
		}
	}
}
