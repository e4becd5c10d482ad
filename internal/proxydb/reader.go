// Package proxydb wraps an IP2Proxy database, normalizing its placeholder
// values so absent data never leaks into records as literal strings.
package proxydb

import (
	"fmt"

	ip2proxy "github.com/ip2location/ip2proxy-go/v3"
)

// Placeholder values the IP2Proxy reader emits for missing data.
const (
	placeholderUnknown     = "-"
	placeholderUnsupported = "NOT SUPPORTED"
)

// Facts holds the proxy-source fields for one address.
type Facts struct {
	ProxyType *string
	Domain    *string
	ISP       *string
	UsageType *string
}

// Reader owns the IP2Proxy database handle for the duration of a batch.
type Reader struct {
	db *ip2proxy.DB
}

// Open loads the proxy database at path.
func Open(path string) (*Reader, error) {
	db, err := ip2proxy.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening proxy database: %w", err)
	}
	return &Reader{db: db}, nil
}

// Lookup returns proxy facts for ip. The second return value reports whether
// the database actually knows the address; an all-placeholder record counts
// as unknown and contributes nothing to the merge.
func (r *Reader) Lookup(ip string) (Facts, bool) {
	record, err := r.db.GetAll(ip)
	if err != nil {
		return Facts{}, false
	}
	if !known(record["CountryShort"]) {
		return Facts{}, false
	}

	return Facts{
		ProxyType: field(record, "ProxyType"),
		Domain:    field(record, "Domain"),
		ISP:       field(record, "ISP"),
		UsageType: field(record, "UsageType"),
	}, true
}

// Close releases the database handle.
func (r *Reader) Close() error {
	r.db.Close()
	return nil
}

func known(value string) bool {
	return value != "" && value != placeholderUnknown && value != placeholderUnsupported
}

func field(record map[string]string, key string) *string {
	value, ok := record[key]
	if !ok || !known(value) {
		return nil
	}
	return &value
}
