package kickstart

import (
	"fmt"
	"strings"
)

// Bootproto selects how the installed system configures its network device.
type Bootproto string

const (
	BootprotoDHCP   Bootproto = "dhcp"   // Address from DHCP
	BootprotoStatic Bootproto = "static" // Fixed address, netmask, gateway, nameserver
)

// String implements pflag.Value.
func (b *Bootproto) String() string {
	return string(*b)
}

// Set implements pflag.Value. Only "dhcp" and "static" are accepted.
func (b *Bootproto) Set(value string) error {
	v := Bootproto(strings.ToLower(strings.TrimSpace(value)))
	if err := v.Validate(); err != nil {
		return err
	}
	*b = v
	return nil
}

// Type implements pflag.Value.
func (b *Bootproto) Type() string {
	return "bootproto"
}

// Validate checks that b is one of the supported boot protocols.
func (b Bootproto) Validate() error {
	switch b {
	case BootprotoDHCP, BootprotoStatic:
		return nil
	default:
		return fmt.Errorf("invalid bootproto %q (must be dhcp or static)", string(b))
	}
}

// Network renders the kickstart network line.
type Network struct {
	Device     string
	Bootproto  Bootproto
	IP         string // static only
	Netmask    string // static only
	Gateway    string // static only
	Nameserver string // static only
	Hostname   string
}

// Generate renders the network fragment. Static addressing fields are ignored
// for DHCP.
func (n Network) Generate() string {
	if n.Bootproto == BootprotoStatic {
		return fmt.Sprintf(
			"network --bootproto=static --ip=%s --netmask=%s --gateway=%s --device=%s --nameserver=%s --hostname=%s --ipv6=auto --activate",
			n.IP, n.Netmask, n.Gateway, n.Device, n.Nameserver, n.Hostname,
		)
	}

	return fmt.Sprintf(
		"network --bootproto=dhcp --device=%s --hostname=%s --ipv6=auto --activate",
		n.Device, n.Hostname,
	)
}
