package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"argus/internal/domain"
)

// Settings holds the resolved locations of every local data source.
type Settings struct {
	DataDir     string `json:"data_dir"`
	CityDBPath  string `json:"city_db_path"`
	ASNDBPath   string `json:"asn_db_path"`
	ProxyDBPath string `json:"proxy_db_path"`
	OrgDir      string `json:"org_dir"`
}

// Load resolves settings from the environment (ARGUS_DATA_DIR, honoring a
// godotenv-loaded .env) with ~/.argus as the default, then applies any
// overrides from settings.json inside the data directory.
func Load() (Settings, error) {
	dataDir := os.Getenv("ARGUS_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".argus")
	}

	settings := Settings{
		DataDir:     dataDir,
		CityDBPath:  filepath.Join(dataDir, "GeoLite2-City.mmdb"),
		ASNDBPath:   filepath.Join(dataDir, "GeoLite2-ASN.mmdb"),
		ProxyDBPath: filepath.Join(dataDir, "IP2Proxy.bin"),
		OrgDir:      filepath.Join(dataDir, "org"),
	}

	if err := settings.applyFile(filepath.Join(dataDir, "settings.json")); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *Settings) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading settings file: %w", err)
	}

	var overrides Settings
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("unmarshalling settings file: %w", err)
	}

	if overrides.CityDBPath != "" {
		s.CityDBPath = overrides.CityDBPath
	}
	if overrides.ASNDBPath != "" {
		s.ASNDBPath = overrides.ASNDBPath
	}
	if overrides.ProxyDBPath != "" {
		s.ProxyDBPath = overrides.ProxyDBPath
	}
	if overrides.OrgDir != "" {
		s.OrgDir = overrides.OrgDir
	}

	log.Debug("settings file loaded", "path", path)
	return nil
}

// HasProxyDB reports whether the optional IP2Proxy database is present.
func (s *Settings) HasProxyDB() bool {
	info, err := os.Stat(s.ProxyDBPath)
	return err == nil && !info.IsDir()
}

// LoadFilterFile reads exclusion criteria from a YAML file.
func LoadFilterFile(path string) (domain.CriteriaInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CriteriaInput{}, fmt.Errorf("reading filter file: %w", err)
	}

	var input domain.CriteriaInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return domain.CriteriaInput{}, fmt.Errorf("parsing filter file: %w", err)
	}
	return input, nil
}
