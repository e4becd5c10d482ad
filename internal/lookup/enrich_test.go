package lookup

import (
	"context"
	"errors"
	"testing"

	"argus/internal/attribution"
	"argus/internal/domain"
	"argus/internal/geolite"
	"argus/internal/proxydb"
)

type fakeGeo struct {
	facts map[string]geolite.Facts
	errs  map[string]error
}

func (f *fakeGeo) Lookup(ip string) (geolite.Facts, error) {
	if err, ok := f.errs[ip]; ok {
		return geolite.Facts{}, err
	}
	if facts, ok := f.facts[ip]; ok {
		return facts, nil
	}
	return geolite.Facts{}, geolite.ErrNotFound
}

type fakeProxy struct {
	facts map[string]proxydb.Facts
}

func (f *fakeProxy) Lookup(ip string) (proxydb.Facts, bool) {
	facts, ok := f.facts[ip]
	return facts, ok
}

type fakeAttr struct {
	hits map[string]attribution.Hit
}

func (f *fakeAttr) HasData() bool { return true }

func (f *fakeAttr) Lookup(ip string) (attribution.Hit, bool) {
	hit, ok := f.hits[ip]
	return hit, ok
}

func googleFacts() geolite.Facts {
	return geolite.Facts{
		Country: domain.StringPtr("United States"),
		ISOCode: domain.StringPtr("US"),
		ASN:     domain.UintPtr(15169),
		ASNOrg:  domain.StringPtr("Google LLC"),
	}
}

func TestEnrichPreservesInputOrder(t *testing.T) {
	geo := &fakeGeo{facts: map[string]geolite.Facts{
		"8.8.8.8": googleFacts(),
		"1.1.1.1": {Country: domain.StringPtr("Australia")},
	}}
	e := &Enricher{Geo: geo}

	ips := []string{"1.1.1.1", "8.8.8.8", "5.5.5.5"}
	records := e.Enrich(context.Background(), ips)

	if len(records) != 3 {
		t.Fatalf("expected one record per input, got %d", len(records))
	}
	for i, ip := range ips {
		if records[i].IP != ip {
			t.Fatalf("record %d out of order: got %s want %s", i, records[i].IP, ip)
		}
	}
}

func TestEnrichErrorRecords(t *testing.T) {
	geo := &fakeGeo{
		facts: map[string]geolite.Facts{"8.8.8.8": googleFacts()},
		errs: map[string]error{
			"0.0.0.0": geolite.ErrInvalidIP,
			"9.9.9.9": errors.New("database corrupted"),
		},
	}
	e := &Enricher{Geo: geo}

	records := e.Enrich(context.Background(), []string{"5.5.5.5", "0.0.0.0", "9.9.9.9", "8.8.8.8"})

	cases := map[string]string{
		"5.5.5.5": "IP not found in database",
		"0.0.0.0": "Invalid IP format",
		"9.9.9.9": "database corrupted",
	}
	for _, rec := range records[:3] {
		want := cases[rec.IP]
		if rec.Error == nil || *rec.Error != want {
			t.Fatalf("record %s: expected error %q, got %v", rec.IP, want, rec.Error)
		}
		if rec.Country != nil || rec.ASN != nil || rec.OrgManaged {
			t.Fatalf("error record %s must carry no enrichment fields: %+v", rec.IP, rec)
		}
	}

	// A failed address must not abort the rest of the batch.
	last := records[3]
	if last.HasError() {
		t.Fatalf("expected clean record after failures, got error %v", *last.Error)
	}
	if last.ASN == nil || *last.ASN != 15169 {
		t.Fatalf("unexpected record: %+v", last)
	}
}

func TestEnrichMergesProxyFacts(t *testing.T) {
	geo := &fakeGeo{facts: map[string]geolite.Facts{"8.8.8.8": googleFacts(), "1.1.1.1": {Country: domain.StringPtr("Australia")}}}
	proxy := &fakeProxy{facts: map[string]proxydb.Facts{
		"8.8.8.8": {
			ProxyType: domain.StringPtr("VPN"),
			ISP:       domain.StringPtr("ExampleNet"),
			UsageType: domain.StringPtr("DCH"),
		},
	}}
	e := &Enricher{Geo: geo, Proxy: proxy}

	records := e.Enrich(context.Background(), []string{"8.8.8.8", "1.1.1.1"})

	if records[0].ProxyType == nil || *records[0].ProxyType != "VPN" {
		t.Fatalf("proxy facts not merged: %+v", records[0])
	}
	// Unknown to the proxy source: fields stay absent, never placeholders.
	if records[1].ProxyType != nil || records[1].ISP != nil || records[1].UsageType != nil {
		t.Fatalf("unknown proxy address should contribute nothing: %+v", records[1])
	}
}

func TestEnrichAttributionSetsAllFieldsTogether(t *testing.T) {
	geo := &fakeGeo{facts: map[string]geolite.Facts{"8.8.8.8": googleFacts(), "1.1.1.1": {Country: domain.StringPtr("Australia")}}}
	attr := &fakeAttr{hits: map[string]attribution.Hit{
		"8.8.8.8": {OrgID: domain.StringPtr("org-google"), Platform: domain.StringPtr("gcp")},
	}}
	e := &Enricher{Geo: geo, Attr: attr}

	records := e.Enrich(context.Background(), []string{"8.8.8.8", "1.1.1.1"})

	hit := records[0]
	if !hit.OrgManaged || hit.OrgID == nil || *hit.OrgID != "org-google" || hit.Platform == nil || *hit.Platform != "gcp" {
		t.Fatalf("attribution hit must set all three fields: %+v", hit)
	}

	miss := records[1]
	if miss.OrgManaged || miss.OrgID != nil || miss.Platform != nil {
		t.Fatalf("attribution miss must leave defaults: %+v", miss)
	}
}

func TestEnrichProgressCallback(t *testing.T) {
	geo := &fakeGeo{facts: map[string]geolite.Facts{"8.8.8.8": googleFacts()}}
	var calls []string
	e := &Enricher{
		Geo: geo,
		OnProgress: func(done, total int, ip string) {
			if total != 2 {
				t.Fatalf("unexpected total %d", total)
			}
			calls = append(calls, ip)
		},
	}

	e.Enrich(context.Background(), []string{"8.8.8.8", "5.5.5.5"})

	if len(calls) != 2 || calls[0] != "8.8.8.8" || calls[1] != "5.5.5.5" {
		t.Fatalf("unexpected progress calls: %v", calls)
	}
}
