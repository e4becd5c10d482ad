package domain

import (
	"fmt"
	"strings"
)

// SortKey names a record field results can be ordered by.
type SortKey string

const (
	SortByIP      SortKey = "ip"
	SortByDomain  SortKey = "domain"
	SortByCity    SortKey = "city"
	SortByCountry SortKey = "country"
	SortByASN     SortKey = "asn"
	SortByASNOrg  SortKey = "asn_org"
)

var sortKeys = []SortKey{SortByASN, SortByASNOrg, SortByCity, SortByCountry, SortByDomain, SortByIP}

// ParseSortKey validates a sort field name.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range sortKeys {
		if key == valid {
			return key, nil
		}
	}
	names := make([]string, len(sortKeys))
	for i, k := range sortKeys {
		names[i] = string(k)
	}
	return "", fmt.Errorf("invalid sort field: %s (valid options: %s)", s, strings.Join(names, ", "))
}
