package attribution

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// blobFile is the self-describing row+index encoding: an ordered row list
// plus per-field value indexes pointing back at row positions.
type blobFile struct {
	Rows    []Row                        `json:"rows"`
	Indexes map[string]map[string]rowRef `json:"indexes"`
}

// rowRef accepts either a single row position or a set of positions.
type rowRef []int

func (r *rowRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []int
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*r = many
		return nil
	}
	var single int
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*r = rowRef{single}
	return nil
}

type blobDataset struct {
	name    string
	rows    []Row
	ipIndex map[string][]int
}

// loadBlob reads a row+index dataset, attempting gzip decompression first
// and falling back to treating the file as an uncompressed blob.
func loadBlob(path string) (*blobDataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoded := raw
	if gz, gzErr := gzip.NewReader(bytes.NewReader(raw)); gzErr == nil {
		if plain, readErr := io.ReadAll(gz); readErr == nil {
			decoded = plain
		}
		gz.Close()
	}

	var file blobFile
	if err := json.Unmarshal(decoded, &file); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	index, ok := file.Indexes["ip"]
	if !ok {
		return nil, fmt.Errorf("dataset %s has no ip index", path)
	}

	ds := &blobDataset{
		name:    datasetName(path),
		rows:    file.Rows,
		ipIndex: make(map[string][]int, len(index)),
	}
	for value, refs := range index {
		positions := append([]int(nil), refs...)
		// Collisions resolve to the lowest row position so lookups stay
		// deterministic regardless of index serialization order.
		sort.Ints(positions)
		ds.ipIndex[value] = positions
	}
	return ds, nil
}

func (d *blobDataset) Name() string { return d.name }

func (d *blobDataset) Lookup(ip string) (Hit, bool) {
	positions, ok := d.ipIndex[ip]
	if !ok || len(positions) == 0 {
		return Hit{}, false
	}
	idx := positions[0]
	if idx < 0 || idx >= len(d.rows) {
		return Hit{}, false
	}
	return hitFromRow(d.rows[idx]), true
}

func (d *blobDataset) Close() error { return nil }
