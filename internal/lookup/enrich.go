// Package lookup is the enrichment pipeline core: it merges geolocation,
// ASN, proxy, and attribution facts into one record per address, then
// filters and orders the merged records.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"argus/internal/attribution"
	"argus/internal/domain"
	"argus/internal/geolite"
	"argus/internal/proxydb"
)

// GeoSource resolves geolocation and ASN facts for one address.
type GeoSource interface {
	Lookup(ip string) (geolite.Facts, error)
}

// ProxySource resolves proxy facts; the bool reports whether the address is
// actually known to the proxy database.
type ProxySource interface {
	Lookup(ip string) (proxydb.Facts, bool)
}

// AttributionSource answers org-attribution lookups.
type AttributionSource interface {
	HasData() bool
	Lookup(ip string) (attribution.Hit, bool)
}

// Progress is invoked once per processed address. It is an observable side
// effect for the presentation layer, not a correctness requirement.
type Progress func(done, total int, ip string)

// Enricher assembles one Record per address from all sources. Geo is
// required; Proxy, Attr, DNS, and OnProgress are optional and skipped when
// nil. Source handles are owned by the caller, acquired once per batch.
type Enricher struct {
	Geo        GeoSource
	Proxy      ProxySource
	Attr       AttributionSource
	DNS        *DNSResolver
	OnProgress Progress
}

// Enrich processes addresses sequentially and returns one record per input
// in input order. Per-address failures are captured on the record and never
// abort the batch.
func (e *Enricher) Enrich(ctx context.Context, ips []string) []domain.Record {
	records := make([]domain.Record, 0, len(ips))
	for i, ip := range ips {
		records = append(records, e.enrichOne(ctx, ip))
		if e.OnProgress != nil {
			e.OnProgress(i+1, len(ips), ip)
		}
	}
	return records
}

func (e *Enricher) enrichOne(ctx context.Context, ip string) (rec domain.Record) {
	defer func() {
		if r := recover(); r != nil {
			rec = domain.ErrorRecord(ip, fmt.Sprintf("lookup panic: %v", r))
		}
	}()

	facts, err := e.Geo.Lookup(ip)
	if err != nil {
		switch {
		case errors.Is(err, geolite.ErrNotFound):
			return domain.ErrorRecord(ip, "IP not found in database")
		case errors.Is(err, geolite.ErrInvalidIP):
			return domain.ErrorRecord(ip, "Invalid IP format")
		default:
			return domain.ErrorRecord(ip, err.Error())
		}
	}

	rec = domain.Record{
		IP:      ip,
		City:    facts.City,
		Region:  facts.Region,
		Country: facts.Country,
		ISOCode: facts.ISOCode,
		Postal:  facts.Postal,
		ASN:     facts.ASN,
		ASNOrg:  facts.ASNOrg,
	}

	if e.Proxy != nil {
		if proxy, ok := e.Proxy.Lookup(ip); ok {
			rec.ProxyType = proxy.ProxyType
			rec.Domain = proxy.Domain
			rec.ISP = proxy.ISP
			rec.UsageType = proxy.UsageType
		}
	}

	if rec.Domain == nil && e.DNS != nil {
		if name := e.DNS.Reverse(ctx, ip); name != "" {
			rec.Domain = &name
		}
	}

	if e.Attr != nil && e.Attr.HasData() {
		if hit, ok := e.Attr.Lookup(ip); ok {
			// An attribution hit always sets all three fields together.
			rec.OrgManaged = true
			rec.OrgID = hit.OrgID
			rec.Platform = hit.Platform
		}
	}

	return rec
}
