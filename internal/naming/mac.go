// Package naming derives stable identifiers for VMs from their addressing.
package naming

import (
	"fmt"
	"net"
	"strings"
)

// MACPrefix is the locally administered prefix of derived MAC addresses.
const MACPrefix = "be:ef"

// MACFromIP derives a MAC address from an IPv4 address. CIDR notation is
// accepted.
//
// Example: 10.55.22.22 → be:ef:0a:37:16:16
func MACFromIP(ip string) (string, error) {
	ipv4, err := parseIPv4(ip)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%02x:%02x:%02x:%02x", MACPrefix, ipv4[0], ipv4[1], ipv4[2], ipv4[3]), nil
}

func parseIPv4(ip string) (net.IP, error) {
	s := ip
	if strings.Contains(ip, "/") {
		addr, _, err := net.ParseCIDR(ip)
		if err != nil {
			return nil, fmt.Errorf("invalid IP/CIDR: %w", err)
		}
		s = addr.String()
	}

	parsed := net.ParseIP(s)
	if parsed == nil {
		return nil, fmt.Errorf("invalid IP address: %s", s)
	}
	ipv4 := parsed.To4()
	if ipv4 == nil {
		return nil, fmt.Errorf("not an IPv4 address: %s", s)
	}
	return ipv4, nil
}
