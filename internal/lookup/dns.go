package lookup

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const (
	dnsTimeout  = time.Second
	dnsCacheTTL = 12 * time.Hour
)

type dnsCacheEntry struct {
	name    string
	expires time.Time
}

// DNSResolver performs best-effort, time-bounded reverse lookups. Failures
// and timeouts resolve to "no result" and are cached so a slow resolver
// cannot stall the batch on repeated addresses.
type DNSResolver struct {
	resolver *net.Resolver

	cache sync.Map
	group singleflight.Group
}

func NewDNSResolver() *DNSResolver {
	return &DNSResolver{resolver: net.DefaultResolver}
}

// Reverse resolves ip to its apex domain, falling back to the full hostname
// when the public-suffix list cannot derive one. Returns "" on any failure.
func (d *DNSResolver) Reverse(ctx context.Context, ip string) string {
	now := time.Now()
	if entry, ok := d.cache.Load(ip); ok {
		cached := entry.(dnsCacheEntry)
		if now.Before(cached.expires) {
			return cached.name
		}
	}

	result, _, _ := d.group.Do(ip, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(ctx, dnsTimeout)
		defer cancel()

		names, err := d.resolver.LookupAddr(lookupCtx, ip)
		if err != nil || len(names) == 0 {
			return "", nil // cache failures as empty results
		}
		return apexOf(names[0]), nil
	})

	name, _ := result.(string)
	d.cache.Store(ip, dnsCacheEntry{name: name, expires: now.Add(dnsCacheTTL)})
	return name
}

func apexOf(hostname string) string {
	host := strings.TrimSuffix(strings.ToLower(hostname), ".")
	if host == "" {
		return ""
	}
	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return apex
}
