// Package ipset turns raw user input (single addresses, CIDR blocks, free
// text) into a deduplicated set of globally routable IPv4 candidates.
package ipset

import (
	"fmt"
	"net/netip"
	"regexp"
	"sort"
	"strings"
)

// MaxCIDRHosts bounds how many hosts a single CIDR argument may expand to.
const MaxCIDRHosts = 1024

var ipv4Pattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

// reservedRanges are IPv4 blocks that are not globally routable beyond what
// netip classifies directly (RFC 6890 and friends).
var reservedRanges = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
}

var broadcastAddr = netip.MustParseAddr("255.255.255.255")

// ValidateIP checks that s is a well-formed IPv4 address or IPv4 CIDR block.
// The value is returned unchanged so callers can chain it.
func ValidateIP(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("IP address cannot be empty")
	}

	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil || !prefix.Addr().Is4() {
			return "", fmt.Errorf("invalid CIDR block: %s", s)
		}
		return s, nil
	}

	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return "", fmt.Errorf("invalid IP address: %s", s)
	}
	return s, nil
}

// IsGlobal reports whether addr is globally routable: not private, loopback,
// link-local, multicast, unspecified, broadcast, or inside a reserved range.
func IsGlobal(addr netip.Addr) bool {
	if !addr.Is4() {
		return false
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsMulticast() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() || addr.IsUnspecified() {
		return false
	}
	if addr == broadcastAddr {
		return false
	}
	for _, p := range reservedRanges {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

// ExpandCIDR expands an IPv4 CIDR block into its host addresses. The network
// and broadcast addresses are stripped for prefixes shorter than /31, blocks
// expanding past MaxCIDRHosts are rejected outright, and non-global addresses
// are dropped from the result.
func ExpandCIDR(block string) ([]string, error) {
	prefix, err := netip.ParsePrefix(block)
	if err != nil || !prefix.Addr().Is4() {
		return nil, fmt.Errorf("invalid CIDR block: %s", block)
	}

	bits := prefix.Bits()
	total := uint64(1) << (32 - bits)
	hosts := total
	if bits < 31 {
		hosts = total - 2
	}
	if hosts > MaxCIDRHosts {
		return nil, fmt.Errorf("CIDR block %s expands to %d hosts, exceeding the limit of %d", block, hosts, MaxCIDRHosts)
	}

	out := make([]string, 0, hosts)
	addr := prefix.Masked().Addr()
	for i := uint64(0); i < total; i++ {
		if bits >= 31 || (i != 0 && i != total-1) {
			if IsGlobal(addr) {
				out = append(out, addr.String())
			}
		}
		addr = addr.Next()
	}
	return out, nil
}

// ExtractIPs scans arbitrary text for address-shaped substrings, validates
// each candidate, keeps only globally routable ones, and returns them
// deduplicated in ascending numeric order. Extraction is idempotent.
func ExtractIPs(text string) []string {
	seen := make(map[netip.Addr]struct{})
	for _, match := range ipv4Pattern.FindAllString(text, -1) {
		addr, err := netip.ParseAddr(match)
		if err != nil || !addr.Is4() {
			continue
		}
		if !IsGlobal(addr) {
			continue
		}
		seen[addr] = struct{}{}
	}

	addrs := make([]netip.Addr, 0, len(seen))
	for addr := range seen {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Compare(addrs[j]) < 0 })

	out := make([]string, len(addrs))
	for i, addr := range addrs {
		out[i] = addr.String()
	}
	return out
}

// Dedupe removes repeated addresses while preserving first-seen order, so an
// address reached both directly and through an expansion is enriched once.
func Dedupe(ips []string) []string {
	seen := make(map[string]struct{}, len(ips))
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		if _, ok := seen[ip]; ok {
			continue
		}
		seen[ip] = struct{}{}
		out = append(out, ip)
	}
	return out
}
