package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"argus/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var csvHeader = []string{
	"ip", "domain", "city", "region", "country", "iso_code", "postal",
	"asn", "asn_org", "proxy_type", "isp", "usage_type",
	"org_managed", "org_id", "platform", "error",
}

// JSON renders records as an indented JSON array. Absent fields serialize
// as null, never as a placeholder string.
func JSON(records []domain.Record) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}

// WriteCSV writes records with a header row. Absent values become empty
// cells.
func WriteCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(csvRow(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(rec *domain.Record) []string {
	return []string{
		rec.IP,
		orEmpty(rec.Domain),
		orEmpty(rec.City),
		orEmpty(rec.Region),
		orEmpty(rec.Country),
		orEmpty(rec.ISOCode),
		orEmpty(rec.Postal),
		asnString(rec.ASN),
		orEmpty(rec.ASNOrg),
		orEmpty(rec.ProxyType),
		orEmpty(rec.ISP),
		orEmpty(rec.UsageType),
		strconv.FormatBool(rec.OrgManaged),
		orEmpty(rec.OrgID),
		orEmpty(rec.Platform),
		orEmpty(rec.Error),
	}
}

// WriteFile writes records to path in the requested format ("json" or
// "csv"). Parent directories are created as needed.
func WriteFile(records []domain.Record, path, format string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	switch format {
	case "json":
		data, err := JSON(records)
		if err != nil {
			return err
		}
		_, err = f.Write(data)
		return err
	case "csv":
		return WriteCSV(f, records)
	default:
		return fmt.Errorf("unsupported output format: %s (valid options: json, csv)", format)
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func asnString(n *uint) string {
	if n == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*n), 10)
}
