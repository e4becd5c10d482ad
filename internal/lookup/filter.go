package lookup

import (
	"strings"

	"argus/internal/domain"
)

// Filter removes records matching any exclusion axis. Records carrying an
// error pass unconditionally, absent fields never match, and the relative
// order of surviving records is preserved. The input slice is not mutated.
func Filter(records []domain.Record, criteria domain.FilterCriteria) []domain.Record {
	if criteria.Empty() {
		return records
	}

	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if !shouldExclude(&rec, criteria) {
			out = append(out, rec)
		}
	}
	return out
}

func shouldExclude(rec *domain.Record, criteria domain.FilterCriteria) bool {
	if rec.HasError() {
		return false
	}
	return excludeByLocation(rec, criteria) ||
		excludeByASN(rec, criteria) ||
		excludeByOrgStatus(rec, criteria)
}

func excludeByLocation(rec *domain.Record, criteria domain.FilterCriteria) bool {
	if rec.Country != nil {
		if _, ok := criteria.Countries[strings.ToUpper(*rec.Country)]; ok {
			return true
		}
	}
	if rec.City != nil {
		if _, ok := criteria.Cities[strings.ToLower(*rec.City)]; ok {
			return true
		}
	}
	return false
}

func excludeByASN(rec *domain.Record, criteria domain.FilterCriteria) bool {
	if rec.ASN != nil {
		if _, ok := criteria.ASNs[*rec.ASN]; ok {
			return true
		}
	}
	if rec.ASNOrg != nil && len(criteria.OrgContains) > 0 {
		org := strings.ToLower(*rec.ASNOrg)
		for _, excluded := range criteria.OrgContains {
			if strings.Contains(org, excluded) {
				return true
			}
		}
	}
	return false
}

func excludeByOrgStatus(rec *domain.Record, criteria domain.FilterCriteria) bool {
	if criteria.OrgManaged && rec.OrgManaged {
		return true
	}
	if criteria.NotOrgManaged && !rec.OrgManaged {
		return true
	}
	if rec.Platform != nil {
		if _, ok := criteria.Platforms[strings.ToLower(*rec.Platform)]; ok {
			return true
		}
	}
	if rec.OrgID != nil {
		if _, ok := criteria.OrgIDs[strings.ToLower(*rec.OrgID)]; ok {
			return true
		}
	}
	return false
}
