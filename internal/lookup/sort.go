package lookup

import (
	"sort"

	"argus/internal/domain"
)

// Sort orders records ascending by key, stably, with absent values after
// every present value. Absent-value records keep their input order. The
// input slice is left untouched; a new ordered slice is returned.
func Sort(records []domain.Record, key domain.SortKey) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return lessByKey(&out[i], &out[j], key)
	})
	return out
}

func lessByKey(a, b *domain.Record, key domain.SortKey) bool {
	if key == domain.SortByASN {
		av, aok := numericValue(a, key)
		bv, bok := numericValue(b, key)
		if !aok || !bok {
			return aok && !bok
		}
		return av < bv
	}

	av, aok := stringValue(a, key)
	bv, bok := stringValue(b, key)
	if !aok || !bok {
		return aok && !bok
	}
	return av < bv
}

func numericValue(rec *domain.Record, key domain.SortKey) (uint, bool) {
	if key == domain.SortByASN && rec.ASN != nil {
		return *rec.ASN, true
	}
	return 0, false
}

// stringValue returns the record's value for key in stored form; no
// normalization happens at sort time.
func stringValue(rec *domain.Record, key domain.SortKey) (string, bool) {
	switch key {
	case domain.SortByIP:
		return rec.IP, true
	case domain.SortByDomain:
		if rec.Domain != nil {
			return *rec.Domain, true
		}
	case domain.SortByCity:
		if rec.City != nil {
			return *rec.City, true
		}
	case domain.SortByCountry:
		if rec.Country != nil {
			return *rec.Country, true
		}
	case domain.SortByASNOrg:
		if rec.ASNOrg != nil {
			return *rec.ASNOrg, true
		}
	}
	return "", false
}
