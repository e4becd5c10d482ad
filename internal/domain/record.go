package domain

import (
	"fmt"
	"strings"
)

// Record is the merged enrichment result for a single IP address. Optional
// fields are pointers so an absent value never collides with an empty string
// or a zero ASN.
type Record struct {
	IP         string  `json:"ip"`
	Domain     *string `json:"domain"`
	City       *string `json:"city"`
	Region     *string `json:"region"`
	Country    *string `json:"country"`
	ISOCode    *string `json:"iso_code"`
	Postal     *string `json:"postal"`
	ASN        *uint   `json:"asn"`
	ASNOrg     *string `json:"asn_org"`
	ProxyType  *string `json:"proxy_type"`
	ISP        *string `json:"isp"`
	UsageType  *string `json:"usage_type"`
	OrgManaged bool    `json:"org_managed"`
	OrgID      *string `json:"org_id"`
	Platform   *string `json:"platform"`
	Error      *string `json:"error"`
}

// ErrorRecord builds a record carrying only the error message. All enrichment
// fields stay absent; such records bypass filtering entirely.
func ErrorRecord(ip, message string) Record {
	return Record{IP: ip, Error: &message}
}

func (r *Record) HasError() bool {
	return r.Error != nil
}

func (r *Record) HasProxyInfo() bool {
	return r.ProxyType != nil
}

// LocationDisplay renders "city, country" with absent parts skipped.
func (r *Record) LocationDisplay() string {
	parts := make([]string, 0, 2)
	if r.City != nil {
		parts = append(parts, *r.City)
	}
	if r.Country != nil {
		parts = append(parts, *r.Country)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// ASNDisplay renders "AS15169 (Google LLC)" with absent parts skipped.
func (r *Record) ASNDisplay() string {
	parts := make([]string, 0, 2)
	if r.ASN != nil {
		parts = append(parts, fmt.Sprintf("AS%d", *r.ASN))
	}
	if r.ASNOrg != nil {
		parts = append(parts, fmt.Sprintf("(%s)", *r.ASNOrg))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// StringPtr is a convenience for building optional fields.
func StringPtr(s string) *string { return &s }

// UintPtr is a convenience for building optional ASN values.
func UintPtr(n uint) *uint { return &n }
