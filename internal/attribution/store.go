// Package attribution tags IP addresses as belonging to a tracked
// organization or hosting platform, backed by embedded dataset files.
//
// Two on-disk encodings are supported: a row+index blob (*.bin, optionally
// gzip-compressed) and a relational SQLite table (*.db, *.sqlite). Both
// answer the same lookup contract; callers never see which encoding backs a
// given dataset.
package attribution

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Hit is a successful attribution lookup. A hit always carries the full
// org_id/platform pair; org-managed is implied by the hit itself.
type Hit struct {
	OrgID    *string
	Platform *string
}

// Row is one attribution entry inside a dataset.
type Row struct {
	IP       string `json:"ip"`
	OrgID    string `json:"org_id"`
	Platform string `json:"platform"`
}

type dataset interface {
	Name() string
	Lookup(ip string) (Hit, bool)
	Close() error
}

// Store holds all loaded attribution datasets. Datasets are consulted in
// load order (sorted filenames) and the first hit wins; later datasets are
// not asked. The store is read-only after LoadDir.
type Store struct {
	datasets []dataset
}

// LoadDir scans dir for dataset files and loads each one independently. A
// file that fails to parse is logged and skipped so one corrupt partition
// cannot disable attribution for the rest. A missing directory or an empty
// scan is not an error; it just leaves the store without data.
func (s *Store) LoadDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug("no attribution datasets", "dir", dir, "error", err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		var (
			ds  dataset
			err error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".bin":
			ds, err = loadBlob(path)
		case ".db", ".sqlite":
			ds, err = openTable(path)
		default:
			continue
		}
		if err != nil {
			log.Warn("skipping attribution dataset", "file", name, "error", err)
			continue
		}
		s.datasets = append(s.datasets, ds)
		log.Debug("loaded attribution dataset", "name", ds.Name())
	}
}

// HasData distinguishes "no datasets loaded" from a per-address miss.
func (s *Store) HasData() bool {
	return len(s.datasets) > 0
}

// Lookup finds the attribution entry for the literal address string, if any.
// No CIDR or prefix matching is performed.
func (s *Store) Lookup(ip string) (Hit, bool) {
	for _, ds := range s.datasets {
		if hit, ok := ds.Lookup(ip); ok {
			return hit, true
		}
	}
	return Hit{}, false
}

// Close releases dataset handles (relevant for the relational backend).
func (s *Store) Close() {
	for _, ds := range s.datasets {
		if err := ds.Close(); err != nil {
			log.Warn("closing attribution dataset", "name", ds.Name(), "error", err)
		}
	}
	s.datasets = nil
}

func hitFromRow(row Row) Hit {
	hit := Hit{}
	if row.OrgID != "" {
		hit.OrgID = &row.OrgID
	}
	if row.Platform != "" {
		hit.Platform = &row.Platform
	}
	return hit
}

func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
