// Package privacy masks personal data before it reaches the logs.
package privacy

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// AnonymizeIP keeps the network part of an address: the /24 for IPv4 and the
// /48 for IPv6. A host:port pair is accepted. Empty input yields "unknown",
// anything unparseable "invalid".
func AnonymizeIP(addr string) string {
	if addr == "" || addr == "unknown" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return "invalid"
	}
	ip = ip.Unmap()
	if ip.Is4() {
		prefix, _ := ip.Prefix(24)
		return prefix.Addr().String()
	}
	b := ip.As16()
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::", b[0], b[1], b[2], b[3], b[4], b[5])
}

// MaskEmail keeps the first character of the local part and the domain:
// "ada@example.com" becomes "a***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" || domain == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}
