package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jbweber/kickvm/internal/kickstart"
	"github.com/jbweber/kickvm/internal/naming"
	"github.com/jbweber/kickvm/internal/virtinstall"
)

// RunConfig is everything one invocation needs: the VM shape, the kickstart
// document options, and how provisioning is carried out.
type RunConfig struct {
	// ConfigFile is the YAML base the flags were layered on, if any.
	ConfigFile string `yaml:"-" json:"-"`

	VM        VMConfig        `yaml:"vm" json:"vm"`
	Kickstart KickstartConfig `yaml:"kickstart" json:"kickstart"`
	Provision ProvisionConfig `yaml:"provision" json:"provision"`
}

// VMConfig describes the virtual machine handed to virt-install.
type VMConfig struct {
	Name       string `yaml:"name" json:"name"`
	DiskSizeGB uint   `yaml:"disk_size_gb" json:"disk_size_gb"`
	MemoryMiB  uint   `yaml:"memory_mib" json:"memory_mib"`
	VCPUs      uint   `yaml:"vcpus" json:"vcpus"`
	Network    string `yaml:"network" json:"network"` // virt-install --network value
	ISO        string `yaml:"iso" json:"iso"`         // Installation media passed as --location
	OSInfo     string `yaml:"osinfo" json:"osinfo"`
	MAC        string `yaml:"mac,omitempty" json:"mac,omitempty"` // empty, a MAC address, or MACFromIP
}

// KickstartConfig holds the raw kickstart options as the operator gave them.
// Credential fields are resolved into modes by Build.
type KickstartConfig struct {
	Text    bool          `yaml:"text" json:"text"`
	Network NetworkConfig `yaml:"network" json:"network"`
	System  SystemConfig  `yaml:"system" json:"system"`
	Root    RootConfig    `yaml:"root" json:"root"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	User    UserConfig    `yaml:"user" json:"user"`
}

// NetworkConfig is the installed system's network device.
type NetworkConfig struct {
	Device     string              `yaml:"device" json:"device"`
	Bootproto  kickstart.Bootproto `yaml:"bootproto" json:"bootproto"`
	IP         string              `yaml:"ip" json:"ip"`
	Netmask    string              `yaml:"netmask" json:"netmask"`
	Gateway    string              `yaml:"gateway" json:"gateway"`
	Nameserver string              `yaml:"nameserver" json:"nameserver"`
	Hostname   string              `yaml:"hostname" json:"hostname"`
}

// SystemConfig is locale, time zone, and package selection.
type SystemConfig struct {
	Timezone    string                `yaml:"timezone" json:"timezone"`
	Keyboard    string                `yaml:"keyboard" json:"keyboard"`
	Language    string                `yaml:"language" json:"language"`
	Packages    []string              `yaml:"packages" json:"packages"`
	Environment kickstart.Environment `yaml:"environment" json:"environment"`
}

// RootConfig is the root account. At most one of Plaintext, Crypted,
// Keyboard, and Locked may be set.
type RootConfig struct {
	Plaintext string `yaml:"plaintext,omitempty" json:"plaintext,omitempty"`
	Crypted   string `yaml:"crypted,omitempty" json:"crypted,omitempty"`
	Keyboard  bool   `yaml:"keyboard,omitempty" json:"keyboard,omitempty"`
	Locked    bool   `yaml:"locked,omitempty" json:"locked,omitempty"`
	SSHKey    string `yaml:"ssh_key,omitempty" json:"ssh_key,omitempty"`
}

// StorageConfig is the target disk and filesystem.
type StorageConfig struct {
	Device     string `yaml:"device" json:"device"`
	Filesystem string `yaml:"filesystem" json:"filesystem"`
}

// UserConfig is the optional non-root account. Everything else is ignored
// while Username is empty.
type UserConfig struct {
	Username  string   `yaml:"username,omitempty" json:"username,omitempty"`
	Plaintext string   `yaml:"plaintext,omitempty" json:"plaintext,omitempty"`
	Crypted   string   `yaml:"crypted,omitempty" json:"crypted,omitempty"`
	Keyboard  bool     `yaml:"keyboard,omitempty" json:"keyboard,omitempty"`
	Groups    []string `yaml:"groups,omitempty" json:"groups,omitempty"`
	UID       *uint32  `yaml:"uid,omitempty" json:"uid,omitempty"`
	GID       *uint32  `yaml:"gid,omitempty" json:"gid,omitempty"`
	SSHKey    string   `yaml:"ssh_key,omitempty" json:"ssh_key,omitempty"`
}

// ProvisionConfig controls how a VM is created from the kickstart.
type ProvisionConfig struct {
	DryRun        bool                       `yaml:"dry_run" json:"dry_run"`
	KeepTempDir   bool                       `yaml:"keep_temp_dir" json:"keep_temp_dir"`
	Delivery      virtinstall.DeliveryMethod `yaml:"delivery" json:"delivery"`
	Preflight     bool                       `yaml:"preflight" json:"preflight"`
	LibvirtSocket string                     `yaml:"libvirt_socket" json:"libvirt_socket"`

	// KickstartFile is an existing kickstart to attach instead of generating one.
	KickstartFile string `yaml:"kickstart_file,omitempty" json:"kickstart_file,omitempty"`
}

// Mode resolves the root password mode. A nil mode means none was selected.
func (r RootConfig) Mode() (kickstart.CredentialMode, error) {
	return kickstart.SelectMode(
		optional(r.Plaintext != "", kickstart.Plaintext{Password: r.Plaintext}),
		optional(r.Crypted != "", kickstart.PreHashed{Hash: r.Crypted}),
		optional(r.Keyboard, kickstart.Interactive{}),
		optional(r.Locked, kickstart.Locked{}),
	)
}

// Mode resolves the user password mode. A nil mode means none was selected.
func (u UserConfig) Mode() (kickstart.CredentialMode, error) {
	return kickstart.SelectMode(
		optional(u.Plaintext != "", kickstart.Plaintext{Password: u.Plaintext}),
		optional(u.Crypted != "", kickstart.PreHashed{Hash: u.Crypted}),
		optional(u.Keyboard, kickstart.Interactive{}),
	)
}

func optional(selected bool, mode kickstart.CredentialMode) kickstart.CredentialMode {
	if !selected {
		return nil
	}
	return mode
}

// Build converts the options into a kickstart.Config. Exactly one root
// password mode is required.
func (k KickstartConfig) Build() (kickstart.Config, error) {
	rootMode, err := k.Root.Mode()
	if err != nil {
		return kickstart.Config{}, fmt.Errorf("root: %w", err)
	}
	if rootMode == nil {
		return kickstart.Config{}, fmt.Errorf("root: %w (use one of --rootpw-plain, --rootpw-crypt, --rootpw-keyboard, --rootpw-locked)", kickstart.ErrCredentialNotSet)
	}

	cfg := kickstart.Config{
		TextMode: k.Text,
		Network: kickstart.Network{
			Device:     k.Network.Device,
			Bootproto:  k.Network.Bootproto,
			IP:         k.Network.IP,
			Netmask:    k.Network.Netmask,
			Gateway:    k.Network.Gateway,
			Nameserver: k.Network.Nameserver,
			Hostname:   k.Network.Hostname,
		},
		System: kickstart.System{
			Keyboard:    k.System.Keyboard,
			Language:    k.System.Language,
			Timezone:    k.System.Timezone,
			Environment: k.System.Environment,
			Packages:    append([]string(nil), k.System.Packages...),
		},
		Root: kickstart.RootCredential{
			Mode:   rootMode,
			SSHKey: k.Root.SSHKey,
		},
		Storage: kickstart.Storage{
			Device:     k.Storage.Device,
			Filesystem: k.Storage.Filesystem,
		},
	}

	if k.User.Username == "" {
		return cfg, nil
	}

	userMode, err := k.User.Mode()
	if err != nil {
		return kickstart.Config{}, fmt.Errorf("user: %w", err)
	}
	cfg.User = kickstart.UserCredential{
		Username: k.User.Username,
		Mode:     userMode,
		Groups:   append([]string(nil), k.User.Groups...),
		UID:      k.User.UID,
		GID:      k.User.GID,
		SSHKey:   k.User.SSHKey,
	}
	return cfg, nil
}

// Params converts the VM options into virt-install parameters. A MAC of
// MACFromIP is left for RunConfig.VMParams to resolve.
func (v VMConfig) Params() virtinstall.Params {
	return virtinstall.Params{
		Name:       v.Name,
		OSInfo:     v.OSInfo,
		DiskSizeGB: v.DiskSizeGB,
		VCPUs:      v.VCPUs,
		MemoryMiB:  v.MemoryMiB,
		Location:   v.ISO,
		Network:    v.Network,
		MAC:        lo.Ternary(v.MAC == MACFromIP, "", v.MAC),
	}
}

// VMParams is VMConfig.Params with a MAC of MACFromIP derived from the
// static kickstart address.
func (c *RunConfig) VMParams() (virtinstall.Params, error) {
	params := c.VM.Params()
	if c.VM.MAC != MACFromIP {
		return params, nil
	}

	n := c.Kickstart.Network
	if n.Bootproto != kickstart.BootprotoStatic || n.IP == "" {
		return virtinstall.Params{}, fmt.Errorf("--%s %s requires a static --%s", FlagMAC, MACFromIP, FlagNetworkIP)
	}
	mac, err := naming.MACFromIP(n.IP)
	if err != nil {
		return virtinstall.Params{}, fmt.Errorf("failed to derive MAC: %w", err)
	}
	params.MAC = mac
	return params, nil
}

// Redacted returns a copy of c without passwords or password hashes.
func (c *RunConfig) Redacted() *RunConfig {
	r := *c
	r.ConfigFile = ""
	r.Kickstart.Root.Plaintext = ""
	r.Kickstart.Root.Crypted = ""
	r.Kickstart.User.Plaintext = ""
	r.Kickstart.User.Crypted = ""
	r.Kickstart.System.Packages = append([]string(nil), c.Kickstart.System.Packages...)
	r.Kickstart.User.Groups = append([]string(nil), c.Kickstart.User.Groups...)
	return &r
}

// Normalize trims user input and drops empty list entries. It is applied
// before validation.
func (c *RunConfig) Normalize() {
	c.VM.Name = strings.TrimSpace(c.VM.Name)
	c.VM.Network = strings.TrimSpace(c.VM.Network)
	c.VM.ISO = strings.TrimSpace(c.VM.ISO)
	c.VM.OSInfo = strings.TrimSpace(c.VM.OSInfo)
	c.VM.MAC = strings.ToLower(strings.TrimSpace(c.VM.MAC))

	n := &c.Kickstart.Network
	n.Device = strings.TrimSpace(n.Device)
	n.Bootproto = kickstart.Bootproto(strings.ToLower(strings.TrimSpace(string(n.Bootproto))))
	n.IP = strings.TrimSpace(n.IP)
	n.Netmask = strings.TrimSpace(n.Netmask)
	n.Gateway = strings.TrimSpace(n.Gateway)
	n.Nameserver = strings.TrimSpace(n.Nameserver)
	n.Hostname = strings.TrimSpace(n.Hostname)

	s := &c.Kickstart.System
	s.Environment = kickstart.Environment(strings.ToLower(strings.TrimSpace(string(s.Environment))))
	s.Packages = compact(s.Packages)

	u := &c.Kickstart.User
	u.Username = strings.TrimSpace(u.Username)
	u.Groups = compact(u.Groups)
	c.Kickstart.Root.SSHKey = strings.TrimSpace(c.Kickstart.Root.SSHKey)
	u.SSHKey = strings.TrimSpace(u.SSHKey)

	c.Provision.Delivery = virtinstall.DeliveryMethod(strings.ToLower(strings.TrimSpace(string(c.Provision.Delivery))))
}

func compact(values []string) []string {
	return lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) }))
}
