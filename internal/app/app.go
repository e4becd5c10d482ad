// Package app wires the enrichment pipeline to its command-line surface:
// flag parsing, data-source setup, and result rendering all live here so the
// core packages stay free of presentation concerns.
package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"argus/internal/attribution"
	"argus/internal/config"
	"argus/internal/domain"
	"argus/internal/export"
	"argus/internal/geolite"
	"argus/internal/ipset"
	"argus/internal/lookup"
	"argus/internal/parse"
	"argus/internal/proxydb"
)

type options struct {
	ip         string
	file       string
	output     string
	format     string
	sortBy     string
	filterFile string
	quiet      bool
	verbose    bool

	excludeCountries stringList
	excludeCities    stringList
	excludeASNs      stringList
	excludeOrgs      stringList
	excludePlatforms stringList
	excludeOrgIDs    stringList

	excludeOrgManaged    bool
	excludeNotOrgManaged bool
}

// stringList is a repeatable flag value; comma-separated values are split.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system environment")
	}

	opts := parseFlags()
	if opts.verbose {
		log.SetLevel(log.DebugLevel)
	}

	if opts.ip == "" && opts.file == "" {
		return fmt.Errorf("no IP or file provided, see -help for usage")
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	sortKey, err := domain.ParseSortKey(opts.sortBy)
	if err != nil {
		return err
	}

	criteria, err := buildCriteria(opts)
	if err != nil {
		return err
	}

	ips, err := collectIPs(opts)
	if err != nil {
		return err
	}
	if len(ips) == 0 {
		log.Warn("no public IPs to look up")
		return nil
	}

	start := time.Now()

	records, err := enrich(context.Background(), settings, ips)
	if err != nil {
		return err
	}

	filtered := lookup.Filter(records, criteria)
	if dropped := len(records) - len(filtered); dropped > 0 {
		log.Info("filtered out records", "count", dropped)
	}

	sorted := lookup.Sort(filtered, sortKey)

	if !opts.quiet {
		fmt.Println(export.Table(sorted))
	}
	if opts.output != "" {
		if err := export.WriteFile(sorted, opts.output, opts.format); err != nil {
			return err
		}
		log.Info("results written", "path", opts.output, "format", opts.format)
	}

	stats := buildStats(records, len(filtered), time.Since(start))
	log.Info("done",
		"total", stats.TotalIPs,
		"ok", stats.Successful,
		"failed", stats.Failed,
		"filtered", stats.FilteredOut,
		"elapsed", stats.Elapsed.Round(time.Millisecond),
	)
	return nil
}

func parseFlags() *options {
	opts := &options{}

	flag.StringVar(&opts.ip, "ip", "", "IP address or CIDR block to look up")
	flag.StringVar(&opts.file, "file", "", "File to extract IPs from (text, PDF, or Excel)")
	flag.StringVar(&opts.output, "output", "", "Write results to this file")
	flag.StringVar(&opts.format, "format", "json", "Output file format: json or csv")
	flag.StringVar(&opts.sortBy, "sort", "ip", "Sort results by field")
	flag.StringVar(&opts.filterFile, "filter-file", "", "YAML file with exclusion criteria")
	flag.BoolVar(&opts.quiet, "quiet", false, "Suppress the result table")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	flag.Var(&opts.excludeCountries, "exclude-country", "Exclude results from this country (repeatable)")
	flag.Var(&opts.excludeCities, "exclude-city", "Exclude results from this city (repeatable)")
	flag.Var(&opts.excludeASNs, "exclude-asn", "Exclude results with this ASN (repeatable)")
	flag.Var(&opts.excludeOrgs, "exclude-org", "Exclude results whose ASN org contains this text (repeatable)")
	flag.Var(&opts.excludePlatforms, "exclude-platform", "Exclude results on this platform (repeatable)")
	flag.Var(&opts.excludeOrgIDs, "exclude-org-id", "Exclude results with this org id (repeatable)")
	flag.BoolVar(&opts.excludeOrgManaged, "exclude-org-managed", false, "Exclude org-managed results")
	flag.BoolVar(&opts.excludeNotOrgManaged, "exclude-not-org-managed", false, "Exclude results that are not org-managed")

	flag.Parse()
	return opts
}

func buildCriteria(opts *options) (domain.FilterCriteria, error) {
	input := domain.CriteriaInput{}
	if opts.filterFile != "" {
		loaded, err := config.LoadFilterFile(opts.filterFile)
		if err != nil {
			return domain.FilterCriteria{}, err
		}
		input = loaded
	}

	input.Countries = append(input.Countries, opts.excludeCountries...)
	input.Cities = append(input.Cities, opts.excludeCities...)
	input.Orgs = append(input.Orgs, opts.excludeOrgs...)
	input.Platforms = append(input.Platforms, opts.excludePlatforms...)
	input.OrgIDs = append(input.OrgIDs, opts.excludeOrgIDs...)
	input.OrgManaged = input.OrgManaged || opts.excludeOrgManaged
	input.NotOrgManaged = input.NotOrgManaged || opts.excludeNotOrgManaged

	for _, raw := range opts.excludeASNs {
		asn, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return domain.FilterCriteria{}, fmt.Errorf("invalid ASN number: %s", raw)
		}
		input.ASNs = append(input.ASNs, uint(asn))
	}

	return domain.NewFilterCriteria(input), nil
}

func collectIPs(opts *options) ([]string, error) {
	var ips []string

	if opts.ip != "" {
		if strings.Contains(opts.ip, "/") {
			expanded, err := ipset.ExpandCIDR(opts.ip)
			if err != nil {
				return nil, err
			}
			log.Info("expanded CIDR block", "block", opts.ip, "hosts", len(expanded))
			ips = append(ips, expanded...)
		} else {
			validated, err := ipset.ValidateIP(opts.ip)
			if err != nil {
				return nil, err
			}
			ips = append(ips, validated)
		}
	}

	if opts.file != "" {
		content, err := parse.ReadFileContent(opts.file)
		if err != nil {
			return nil, err
		}
		extracted := ipset.ExtractIPs(content)
		if len(extracted) == 0 {
			log.Warn("no public IPs found in file", "file", opts.file)
		} else {
			log.Info("extracted IPs from file", "file", opts.file, "count", len(extracted))
		}
		ips = append(ips, extracted...)
	}

	return ipset.Dedupe(ips), nil
}

func enrich(ctx context.Context, settings config.Settings, ips []string) ([]domain.Record, error) {
	geo, err := geolite.Open(settings.CityDBPath, settings.ASNDBPath)
	if err != nil {
		return nil, err
	}
	defer geo.Close()

	enricher := &lookup.Enricher{
		Geo: geo,
		DNS: lookup.NewDNSResolver(),
		OnProgress: func(done, total int, ip string) {
			log.Debug("lookup", "ip", ip, "progress", fmt.Sprintf("%d/%d", done, total))
		},
	}

	if settings.HasProxyDB() {
		proxy, err := proxydb.Open(settings.ProxyDBPath)
		if err != nil {
			log.Warn("proxy database unavailable", "error", err)
		} else {
			defer proxy.Close()
			enricher.Proxy = proxy
		}
	}

	store := &attribution.Store{}
	store.LoadDir(settings.OrgDir)
	defer store.Close()
	if store.HasData() {
		enricher.Attr = store
	}

	return enricher.Enrich(ctx, ips), nil
}

func buildStats(records []domain.Record, surviving int, elapsed time.Duration) domain.RunStats {
	stats := domain.RunStats{
		TotalIPs: len(records),
		Elapsed:  elapsed,
	}
	for i := range records {
		if records[i].HasError() {
			stats.Failed++
		} else {
			stats.Successful++
		}
	}
	stats.FilteredOut = len(records) - surviving
	return stats
}
