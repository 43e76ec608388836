package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jbweber/kickvm/internal/kickstart"
)

// Flag names. These are the public contract of the CLI and of the CSV
// header row in batch mode.
const (
	FlagConfig = "config"

	FlagVMName   = "vm-name"
	FlagDiskSize = "disk-size"
	FlagMemory   = "memory"
	FlagVCPU     = "vcpu"
	FlagNetwork  = "network"
	FlagISO      = "iso"
	FlagOSInfo   = "osinfo"
	FlagMAC      = "mac"

	FlagText              = "text"
	FlagNetworkDevice     = "network-device"
	FlagNetworkBootproto  = "network-bootproto"
	FlagNetworkIP         = "network-ip"
	FlagNetworkNetmask    = "network-netmask"
	FlagNetworkGateway    = "network-gateway"
	FlagNetworkNameserver = "network-nameserver"
	FlagNetworkHostname   = "network-hostname"
	FlagTimezone          = "timezone"
	FlagKeyboard          = "keyboard"
	FlagLanguage          = "language"
	FlagPackages          = "packages"
	FlagEnvironment       = "environment"
	FlagRootPlain         = "rootpw-plain"
	FlagRootCrypt         = "rootpw-crypt"
	FlagRootKeyboard      = "rootpw-keyboard"
	FlagRootLocked        = "rootpw-locked"
	FlagRootSSHKey        = "root-sshkey"
	FlagStorageDevice     = "storage-device"
	FlagFilesystem        = "filesystem"
	FlagUsername          = "username"
	FlagUserPlain         = "user-plain"
	FlagUserCrypt         = "user-crypt"
	FlagUserKeyboard      = "user-keyboard"
	FlagUserGroups        = "user-groups"
	FlagUserSSHKey        = "user-sshkey"
	FlagUserUID           = "user-uid"
	FlagUserGID           = "user-gid"

	FlagDryRun        = "dry-run"
	FlagKeepTempDir   = "do-not-remove-temporary-directory"
	FlagDelivery      = "kickstart-delivery"
	FlagPreflight     = "preflight"
	FlagLibvirtSocket = "libvirt-socket"
	FlagKickstartFile = "kickstart"
)

// BindFlags registers the flags for scope on fs. Flag defaults are taken
// from cfg, and parsed values are written back into cfg.
func BindFlags(fs *pflag.FlagSet, cfg *RunConfig, scope Scope) {
	fs.StringVar(&cfg.ConfigFile, FlagConfig, cfg.ConfigFile, "YAML file with base settings; explicitly set flags override it")

	if scope.Has(ScopeVM) {
		v := &cfg.VM
		fs.StringVarP(&v.Name, FlagVMName, "n", v.Name, "Name of the VM")
		fs.UintVar(&v.DiskSizeGB, FlagDiskSize, v.DiskSizeGB, "Disk size in GB")
		fs.UintVar(&v.MemoryMiB, FlagMemory, v.MemoryMiB, "Memory size in MiB")
		fs.UintVar(&v.VCPUs, FlagVCPU, v.VCPUs, "Number of virtual CPUs")
		fs.StringVar(&v.Network, FlagNetwork, v.Network, "virt-install --network value")
		fs.StringVar(&v.ISO, FlagISO, v.ISO, "Installation ISO path")
		fs.StringVar(&v.OSInfo, FlagOSInfo, v.OSInfo, "virt-install --osinfo value")
		fs.StringVar(&v.MAC, FlagMAC, v.MAC, `MAC address of the VM NIC, or "`+MACFromIP+`" to derive it from --network-ip`)
	}

	if scope.Has(ScopeKickstart) {
		k := &cfg.Kickstart
		fs.BoolVar(&k.Text, FlagText, k.Text, "Use text mode installation instead of graphical")

		fs.StringVar(&k.Network.Device, FlagNetworkDevice, k.Network.Device, "Network device of the installed system")
		fs.Var(&k.Network.Bootproto, FlagNetworkBootproto, "Network boot protocol (dhcp or static)")
		fs.StringVar(&k.Network.IP, FlagNetworkIP, k.Network.IP, "IP address (static only)")
		fs.StringVar(&k.Network.Netmask, FlagNetworkNetmask, k.Network.Netmask, "Netmask (static only)")
		fs.StringVar(&k.Network.Gateway, FlagNetworkGateway, k.Network.Gateway, "Gateway (static only)")
		fs.StringVar(&k.Network.Nameserver, FlagNetworkNameserver, k.Network.Nameserver, "Nameservers, comma separated (static only)")
		fs.StringVar(&k.Network.Hostname, FlagNetworkHostname, k.Network.Hostname, "Hostname of the installed system")

		fs.StringVar(&k.System.Timezone, FlagTimezone, k.System.Timezone, "Time zone")
		fs.StringVar(&k.System.Keyboard, FlagKeyboard, k.System.Keyboard, "Keyboard layout")
		fs.StringVar(&k.System.Language, FlagLanguage, k.System.Language, "System language")
		fs.StringArrayVar(&k.System.Packages, FlagPackages, k.System.Packages, "Package or group to install (repeatable)")
		fs.Var(&k.System.Environment, FlagEnvironment, "Environment group ("+environmentNames()+")")

		fs.StringVar(&k.Root.Plaintext, FlagRootPlain, k.Root.Plaintext, "Root password in plain text")
		fs.StringVar(&k.Root.Crypted, FlagRootCrypt, k.Root.Crypted, "Root password as a crypt hash")
		fs.BoolVar(&k.Root.Keyboard, FlagRootKeyboard, k.Root.Keyboard, "Prompt for the root password")
		fs.BoolVar(&k.Root.Locked, FlagRootLocked, k.Root.Locked, "Lock the root password")
		fs.StringVar(&k.Root.SSHKey, FlagRootSSHKey, k.Root.SSHKey, "SSH public key for root")

		fs.StringVar(&k.Storage.Device, FlagStorageDevice, k.Storage.Device, "Disk to install to")
		fs.StringVar(&k.Storage.Filesystem, FlagFilesystem, k.Storage.Filesystem, "Filesystem for /boot and the LVM volumes")

		fs.StringVar(&k.User.Username, FlagUsername, k.User.Username, "Create a user with this name")
		fs.StringVar(&k.User.Plaintext, FlagUserPlain, k.User.Plaintext, "User password in plain text")
		fs.StringVar(&k.User.Crypted, FlagUserCrypt, k.User.Crypted, "User password as a crypt hash")
		fs.BoolVar(&k.User.Keyboard, FlagUserKeyboard, k.User.Keyboard, "Prompt for the user password")
		fs.StringSliceVar(&k.User.Groups, FlagUserGroups, k.User.Groups, "Supplementary groups for the user")
		fs.StringVar(&k.User.SSHKey, FlagUserSSHKey, k.User.SSHKey, "SSH public key for the user")
		fs.Var(&uint32PtrValue{p: &k.User.UID}, FlagUserUID, "UID of the user")
		fs.Var(&uint32PtrValue{p: &k.User.GID}, FlagUserGID, "GID of the user")
	}

	if scope.Has(ScopeProvision) {
		p := &cfg.Provision
		fs.BoolVar(&p.DryRun, FlagDryRun, p.DryRun, "Print the virt-install command without running it")
		fs.BoolVar(&p.KeepTempDir, FlagKeepTempDir, p.KeepTempDir, "Keep the temporary directory holding the kickstart")
		fs.Var(&p.Delivery, FlagDelivery, "How the kickstart reaches the installer (initrd or oemdrv)")
		fs.BoolVar(&p.Preflight, FlagPreflight, p.Preflight, "Check libvirt for an existing domain before creating the VM")
		fs.StringVar(&p.LibvirtSocket, FlagLibvirtSocket, p.LibvirtSocket, "libvirt daemon socket used by --preflight")
		if !scope.Has(ScopeKickstart) {
			fs.StringVar(&p.KickstartFile, FlagKickstartFile, p.KickstartFile, "Existing kickstart file to install with")
		}
	}
}

// Resolve finishes a parsed flag set. When --config names a file, the file is
// loaded over Default() and only the flags set on the command line are
// layered on top. The result is normalized and validated for scope.
func Resolve(fs *pflag.FlagSet, cfg *RunConfig, scope Scope) (*RunConfig, error) {
	resolved := cfg
	if cfg.ConfigFile != "" {
		var err error
		resolved, err = overlayFile(fs, cfg.ConfigFile, scope)
		if err != nil {
			return nil, err
		}
	}

	resolved.Normalize()
	if err := resolved.Validate(scope); err != nil {
		return nil, err
	}
	return resolved, nil
}

// ParseArgs parses a complete argument vector on a fresh flag set. Each call
// is independent of any other.
func ParseArgs(args []string, scope Scope) (*RunConfig, error) {
	fs := pflag.NewFlagSet("kickvm", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := Default()
	BindFlags(fs, cfg, scope)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments: %s", ErrInvalidConfig, strings.Join(fs.Args(), " "))
	}
	return Resolve(fs, cfg, scope)
}

func overlayFile(fs *pflag.FlagSet, path string, scope Scope) (*RunConfig, error) {
	base := Default()
	if err := LoadFile(path, base); err != nil {
		return nil, err
	}
	base.ConfigFile = path

	target := pflag.NewFlagSet("config", pflag.ContinueOnError)
	BindFlags(target, base, scope)

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil || f.Name == FlagConfig {
			return
		}
		dst := target.Lookup(f.Name)
		if dst == nil {
			return
		}
		if src, ok := f.Value.(pflag.SliceValue); ok {
			if d, ok := dst.Value.(pflag.SliceValue); ok {
				err = d.Replace(src.GetSlice())
				return
			}
		}
		if setErr := dst.Value.Set(f.Value.String()); setErr != nil {
			err = fmt.Errorf("failed to apply --%s: %w", f.Name, setErr)
		}
	})
	if err != nil {
		return nil, err
	}
	return base, nil
}

func environmentNames() string {
	names := make([]string, len(kickstart.Environments))
	for i, e := range kickstart.Environments {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// uint32PtrValue is a pflag.Value for an optional uint32.
type uint32PtrValue struct {
	p **uint32
}

func (v *uint32PtrValue) String() string {
	if *v.p == nil {
		return ""
	}
	return strconv.FormatUint(uint64(**v.p), 10)
}

func (v *uint32PtrValue) Set(s string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", s, err)
	}
	id := uint32(n)
	*v.p = &id
	return nil
}

func (v *uint32PtrValue) Type() string {
	return "uint32"
}
