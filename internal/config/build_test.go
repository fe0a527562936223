package config

import "testing"

// TestNewBuildInfoDefaults verifies the values reported when ldflags were not
// set, which is the case for every test binary.
func TestNewBuildInfoDefaults(t *testing.T) {
	info := NewBuildInfo()

	if info.Version != "dev" {
		t.Errorf("NewBuildInfo().Version = %q, want %q", info.Version, "dev")
	}
	if info.Commit != "none" {
		t.Errorf("NewBuildInfo().Commit = %q, want %q", info.Commit, "none")
	}
	if info.BuildTime != "unknown" {
		t.Errorf("NewBuildInfo().BuildTime = %q, want %q", info.BuildTime, "unknown")
	}
}

func TestLoadConfigPopulatesBuild(t *testing.T) {
	clearForwarderEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Build != NewBuildInfo() {
		t.Errorf("cfg.Build = %+v, want %+v", cfg.Build, NewBuildInfo())
	}
}
