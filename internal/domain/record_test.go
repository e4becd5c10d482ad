package domain

import (
	"strings"
	"testing"
)

func TestErrorRecordCarriesOnlyError(t *testing.T) {
	rec := ErrorRecord("1.2.3.4", "IP not found in database")
	if !rec.HasError() || *rec.Error != "IP not found in database" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Country != nil || rec.ASN != nil || rec.OrgManaged {
		t.Fatalf("error record must stay otherwise empty: %+v", rec)
	}
}

func TestDisplayHelpers(t *testing.T) {
	rec := Record{
		IP:      "8.8.8.8",
		City:    StringPtr("Mountain View"),
		Country: StringPtr("United States"),
		ASN:     UintPtr(15169),
		ASNOrg:  StringPtr("Google LLC"),
	}
	if got := rec.LocationDisplay(); got != "Mountain View, United States" {
		t.Fatalf("unexpected location: %q", got)
	}
	if got := rec.ASNDisplay(); got != "AS15169 (Google LLC)" {
		t.Fatalf("unexpected ASN display: %q", got)
	}

	empty := Record{IP: "1.1.1.1"}
	if empty.LocationDisplay() != "-" || empty.ASNDisplay() != "-" {
		t.Fatalf("absent fields should render as dash")
	}
}

func TestNewFilterCriteriaNormalizes(t *testing.T) {
	c := NewFilterCriteria(CriteriaInput{
		Countries: []string{"us", "De"},
		Cities:    []string{"Berlin"},
		Orgs:      []string{"GOOGLE"},
		Platforms: []string{"AWS"},
		OrgIDs:    []string{"Org-X"},
		ASNs:      []uint{15169},
	})

	if _, ok := c.Countries["US"]; !ok {
		t.Fatal("countries should be upper-cased")
	}
	if _, ok := c.Cities["berlin"]; !ok {
		t.Fatal("cities should be lower-cased")
	}
	if len(c.OrgContains) != 1 || c.OrgContains[0] != "google" {
		t.Fatalf("orgs should be lower-cased: %v", c.OrgContains)
	}
	if _, ok := c.Platforms["aws"]; !ok {
		t.Fatal("platforms should be lower-cased")
	}
	if _, ok := c.OrgIDs["org-x"]; !ok {
		t.Fatal("org ids should be lower-cased")
	}
	if _, ok := c.ASNs[15169]; !ok {
		t.Fatal("ASNs should be kept exact")
	}
	if c.Empty() {
		t.Fatal("criteria with values should not be empty")
	}
}

func TestFilterCriteriaEmpty(t *testing.T) {
	if !NewFilterCriteria(CriteriaInput{}).Empty() {
		t.Fatal("zero input should yield empty criteria")
	}
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey(" ASN ")
	if err != nil || key != SortByASN {
		t.Fatalf("expected asn key, got %v (%v)", key, err)
	}

	_, err = ParseSortKey("bogus")
	if err == nil {
		t.Fatal("expected error for invalid key")
	}
	if !strings.Contains(err.Error(), "asn_org") {
		t.Fatalf("error should list valid options: %v", err)
	}
}
