package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/jbweber/kickvm/internal/kickstart"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Scope selects which sections a command needs validated.
type Scope uint8

const (
	ScopeKickstart Scope = 1 << iota
	ScopeVM
	ScopeProvision

	ScopeAll = ScopeKickstart | ScopeVM | ScopeProvision
)

// Has reports whether s includes other.
func (s Scope) Has(other Scope) bool {
	return s&other != 0
}

// Validate checks the sections selected by scope. It does not touch the
// hypervisor; see the libvirt package for domain checks.
func (c *RunConfig) Validate(scope Scope) error {
	if scope.Has(ScopeVM) {
		if err := c.VM.Validate(); err != nil {
			return fmt.Errorf("%w: vm: %w", ErrInvalidConfig, err)
		}
		if c.VM.MAC == MACFromIP {
			if !scope.Has(ScopeKickstart) {
				return fmt.Errorf("%w: vm: --%s %s needs the kickstart network options, give an explicit address instead", ErrInvalidConfig, FlagMAC, MACFromIP)
			}
			if _, err := c.VMParams(); err != nil {
				return fmt.Errorf("%w: vm: %w", ErrInvalidConfig, err)
			}
		}
	}
	if scope.Has(ScopeKickstart) {
		if err := c.Kickstart.Validate(); err != nil {
			return fmt.Errorf("%w: kickstart: %w", ErrInvalidConfig, err)
		}
	}
	if scope.Has(ScopeProvision) {
		if err := c.Provision.Validate(); err != nil {
			return fmt.Errorf("%w: provision: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Validate checks the VM section.
func (v *VMConfig) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("--%s is required", FlagVMName)
	}
	if strings.ContainsAny(v.Name, " \t\n/") {
		return fmt.Errorf("name must not contain whitespace or slashes, got %q", v.Name)
	}
	if v.ISO == "" {
		return fmt.Errorf("--%s is required", FlagISO)
	}
	if v.DiskSizeGB == 0 {
		return fmt.Errorf("disk size must be > 0")
	}
	if v.MemoryMiB == 0 {
		return fmt.Errorf("memory must be > 0")
	}
	if v.VCPUs == 0 {
		return fmt.Errorf("vcpu must be > 0")
	}
	if v.Network == "" {
		return fmt.Errorf("network is required")
	}
	if v.OSInfo == "" {
		return fmt.Errorf("osinfo is required")
	}
	if v.MAC != "" && v.MAC != MACFromIP {
		if _, err := net.ParseMAC(v.MAC); err != nil {
			return fmt.Errorf("invalid MAC address %q", v.MAC)
		}
	}
	return nil
}

// Validate checks the kickstart section, including that the credential
// options resolve to a usable set of modes.
func (k *KickstartConfig) Validate() error {
	if err := k.Network.Validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := k.System.Environment.Validate(); err != nil {
		return err
	}
	if k.Storage.Device == "" {
		return fmt.Errorf("storage device is required")
	}
	if k.Storage.Filesystem == "" {
		return fmt.Errorf("filesystem is required")
	}

	if err := validateSSHKey("root ssh key", k.Root.SSHKey); err != nil {
		return err
	}
	if err := validateCrypted("root", k.Root.Crypted); err != nil {
		return err
	}
	if k.User.Username != "" {
		if err := validateSSHKey("user ssh key", k.User.SSHKey); err != nil {
			return err
		}
		if err := validateCrypted("user", k.User.Crypted); err != nil {
			return err
		}
	}

	ks, err := k.Build()
	if err != nil {
		return err
	}
	return ks.Validate()
}

// Validate checks the network section. Static addressing requires valid
// IPv4 or IPv6 addresses; the nameserver may list several.
func (n *NetworkConfig) Validate() error {
	if n.Device == "" {
		return fmt.Errorf("device is required")
	}
	if n.Hostname == "" {
		return fmt.Errorf("hostname is required")
	}
	if err := n.Bootproto.Validate(); err != nil {
		return err
	}
	if n.Bootproto != kickstart.BootprotoStatic {
		return nil
	}

	for _, field := range []struct {
		name, value string
	}{
		{"ip", n.IP},
		{"netmask", n.Netmask},
		{"gateway", n.Gateway},
	} {
		if net.ParseIP(field.value) == nil {
			return fmt.Errorf("invalid %s address %q", field.name, field.value)
		}
	}

	// kickstart takes a comma-separated nameserver list
	for _, ns := range strings.Split(n.Nameserver, ",") {
		if net.ParseIP(ns) == nil {
			return fmt.Errorf("invalid nameserver address %q", ns)
		}
	}
	return nil
}

// Validate checks the provisioning section.
func (p *ProvisionConfig) Validate() error {
	if err := p.Delivery.Validate(); err != nil {
		return err
	}
	if p.Preflight && p.LibvirtSocket == "" {
		return fmt.Errorf("--%s requires --%s", FlagPreflight, FlagLibvirtSocket)
	}
	return nil
}

func validateSSHKey(field, key string) error {
	if key == "" {
		return nil
	}
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
		return fmt.Errorf("%s is not a valid SSH public key: %w", field, err)
	}
	return nil
}

func validateCrypted(field, hash string) error {
	if hash == "" {
		return nil
	}
	if len(hash) < 10 || hash[0] != '$' {
		return fmt.Errorf("%s crypted password must be a valid crypt hash (should start with $)", field)
	}
	return nil
}
