package config

import (
	"path/filepath"
	"testing"
)

func TestGetDataDirWithExplicitEnv(t *testing.T) {
	tmpDir := t.TempDir()
	customDir := filepath.Join(tmpDir, "custom")

	t.Setenv("CASETRACK_DIR", customDir)
	t.Setenv("XDG_DATA_HOME", "")

	got := GetDataDir()
	if got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetDataDirFallsBackToXDG(t *testing.T) {
	tmpDir := t.TempDir()
	xdgDir := filepath.Join(tmpDir, "xdg")

	t.Setenv("CASETRACK_DIR", "")
	t.Setenv("XDG_DATA_HOME", xdgDir)

	got := GetDataDir()
	want := filepath.Join(xdgDir, "casetrack")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetIndexPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CASETRACK_DIR", tmpDir)

	if got, want := GetIndexPath(), filepath.Join(tmpDir, "global_index.json"); got != want {
		t.Fatalf("GetIndexPath expected %q, got %q", want, got)
	}
}

func TestAdapterSettings(t *testing.T) {
	t.Setenv("CASETRACK_API_KEY", "")
	t.Setenv("CASETRACK_REQUIRE_AUTH", "")
	t.Setenv("PORT", "")

	if got := GetAPIKey(); got != "local-dev-key" {
		t.Fatalf("expected default API key, got %q", got)
	}
	if RequireAuth() {
		t.Fatal("expected auth to be disabled by default")
	}
	if got := GetPort(); got != "8080" {
		t.Fatalf("expected default port 8080, got %q", got)
	}

	t.Setenv("CASETRACK_API_KEY", "secret")
	t.Setenv("CASETRACK_REQUIRE_AUTH", "TRUE")
	t.Setenv("PORT", "9999")

	if got := GetAPIKey(); got != "secret" {
		t.Fatalf("expected overridden API key, got %q", got)
	}
	if !RequireAuth() {
		t.Fatal("expected auth to be enabled")
	}
	if got := GetPort(); got != "9999" {
		t.Fatalf("expected overridden port, got %q", got)
	}
}
