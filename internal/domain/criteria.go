package domain

import "strings"

// FilterCriteria holds the exclusion axes for result filtering. Values are
// case-normalized once at construction; matching later is set membership
// except organization text, which is substring based.
type FilterCriteria struct {
	Countries     map[string]struct{}
	Cities        map[string]struct{}
	ASNs          map[uint]struct{}
	OrgContains   []string
	Platforms     map[string]struct{}
	OrgIDs        map[string]struct{}
	OrgManaged    bool
	NotOrgManaged bool
}

// CriteriaInput is the raw, unnormalized form a caller assembles from flags
// or a filter file.
type CriteriaInput struct {
	Countries     []string `yaml:"exclude_countries"`
	Cities        []string `yaml:"exclude_cities"`
	ASNs          []uint   `yaml:"exclude_asns"`
	Orgs          []string `yaml:"exclude_orgs"`
	Platforms     []string `yaml:"exclude_platforms"`
	OrgIDs        []string `yaml:"exclude_org_ids"`
	OrgManaged    bool     `yaml:"exclude_org_managed"`
	NotOrgManaged bool     `yaml:"exclude_not_org_managed"`
}

// NewFilterCriteria normalizes the input: countries upper-cased, everything
// else lower-cased, ASNs kept as exact integers.
func NewFilterCriteria(in CriteriaInput) FilterCriteria {
	criteria := FilterCriteria{
		Countries:     make(map[string]struct{}, len(in.Countries)),
		Cities:        make(map[string]struct{}, len(in.Cities)),
		ASNs:          make(map[uint]struct{}, len(in.ASNs)),
		Platforms:     make(map[string]struct{}, len(in.Platforms)),
		OrgIDs:        make(map[string]struct{}, len(in.OrgIDs)),
		OrgManaged:    in.OrgManaged,
		NotOrgManaged: in.NotOrgManaged,
	}

	for _, c := range in.Countries {
		criteria.Countries[strings.ToUpper(c)] = struct{}{}
	}
	for _, c := range in.Cities {
		criteria.Cities[strings.ToLower(c)] = struct{}{}
	}
	for _, asn := range in.ASNs {
		criteria.ASNs[asn] = struct{}{}
	}
	for _, o := range in.Orgs {
		criteria.OrgContains = append(criteria.OrgContains, strings.ToLower(o))
	}
	for _, p := range in.Platforms {
		criteria.Platforms[strings.ToLower(p)] = struct{}{}
	}
	for _, o := range in.OrgIDs {
		criteria.OrgIDs[strings.ToLower(o)] = struct{}{}
	}

	return criteria
}

// Empty reports whether no exclusion axis is configured.
func (c FilterCriteria) Empty() bool {
	return len(c.Countries) == 0 &&
		len(c.Cities) == 0 &&
		len(c.ASNs) == 0 &&
		len(c.OrgContains) == 0 &&
		len(c.Platforms) == 0 &&
		len(c.OrgIDs) == 0 &&
		!c.OrgManaged &&
		!c.NotOrgManaged
}
