package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsUnderDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARGUS_DATA_DIR", dir)

	settings, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if settings.CityDBPath != filepath.Join(dir, "GeoLite2-City.mmdb") {
		t.Fatalf("unexpected city path: %s", settings.CityDBPath)
	}
	if settings.OrgDir != filepath.Join(dir, "org") {
		t.Fatalf("unexpected org dir: %s", settings.OrgDir)
	}
	if settings.HasProxyDB() {
		t.Fatal("missing proxy database should report absent")
	}
}

func TestLoadAppliesSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARGUS_DATA_DIR", dir)

	overrides := `{"city_db_path": "/opt/geo/city.mmdb", "org_dir": "/opt/org"}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(overrides), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	settings, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if settings.CityDBPath != "/opt/geo/city.mmdb" {
		t.Fatalf("override not applied: %s", settings.CityDBPath)
	}
	if settings.OrgDir != "/opt/org" {
		t.Fatalf("override not applied: %s", settings.OrgDir)
	}
	if settings.ASNDBPath != filepath.Join(dir, "GeoLite2-ASN.mmdb") {
		t.Fatalf("unset fields should keep defaults: %s", settings.ASNDBPath)
	}
}

func TestLoadRejectsMalformedSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARGUS_DATA_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed settings file")
	}
}

func TestLoadFilterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.yaml")
	content := `
exclude_countries: [US, de]
exclude_cities: [Berlin]
exclude_asns: [15169]
exclude_orgs: [google]
exclude_org_managed: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing filter file: %v", err)
	}

	input, err := LoadFilterFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(input.Countries) != 2 || input.Countries[0] != "US" {
		t.Fatalf("unexpected countries: %v", input.Countries)
	}
	if len(input.ASNs) != 1 || input.ASNs[0] != 15169 {
		t.Fatalf("unexpected ASNs: %v", input.ASNs)
	}
	if !input.OrgManaged || input.NotOrgManaged {
		t.Fatalf("unexpected booleans: %+v", input)
	}
}

func TestLoadFilterFileMissing(t *testing.T) {
	if _, err := LoadFilterFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing filter file")
	}
}
