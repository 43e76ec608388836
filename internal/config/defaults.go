package config

import (
	"github.com/jbweber/kickvm/internal/kickstart"
	"github.com/jbweber/kickvm/internal/virtinstall"
)

// VM defaults.
const (
	DefaultDiskSizeGB = 70
	DefaultMemoryMiB  = 4096
	DefaultVCPUs      = 2
	DefaultNetwork    = "network=default,model=virtio"
	DefaultOSInfo     = "almalinux8"

	// MACFromIP as the MAC option derives the address from the static IP.
	MACFromIP = "from-ip"
)

// Kickstart defaults.
const (
	DefaultNetworkDevice     = "enp1s0"
	DefaultNetworkBootproto  = kickstart.BootprotoDHCP
	DefaultNetworkIP         = "192.168.100.2"
	DefaultNetworkNetmask    = "255.255.255.0"
	DefaultNetworkGateway    = "192.168.100.1"
	DefaultNetworkNameserver = "192.168.100.1"
	DefaultHostname          = "localhost.localdomain"
	DefaultTimezone          = "Asia/Tokyo"
	DefaultKeyboard          = "us"
	DefaultLanguage          = "en_US.UTF-8"
	DefaultEnvironment       = kickstart.EnvironmentMinimal
	DefaultStorageDevice     = "vda"
	DefaultFilesystem        = "xfs"
)

// Provisioning defaults.
const (
	DefaultDelivery      = virtinstall.DeliveryInitrd
	DefaultLibvirtSocket = "/var/run/libvirt/libvirt-sock"
)

// DefaultPackages are installed on top of the environment group.
func DefaultPackages() []string {
	return []string{"@standard", "@guest-agents"}
}

// Default returns a RunConfig with every default applied. Credentials, the
// VM name, and the ISO have no defaults.
func Default() *RunConfig {
	return &RunConfig{
		VM: VMConfig{
			DiskSizeGB: DefaultDiskSizeGB,
			MemoryMiB:  DefaultMemoryMiB,
			VCPUs:      DefaultVCPUs,
			Network:    DefaultNetwork,
			OSInfo:     DefaultOSInfo,
		},
		Kickstart: KickstartConfig{
			Network: NetworkConfig{
				Device:     DefaultNetworkDevice,
				Bootproto:  DefaultNetworkBootproto,
				IP:         DefaultNetworkIP,
				Netmask:    DefaultNetworkNetmask,
				Gateway:    DefaultNetworkGateway,
				Nameserver: DefaultNetworkNameserver,
				Hostname:   DefaultHostname,
			},
			System: SystemConfig{
				Timezone:    DefaultTimezone,
				Keyboard:    DefaultKeyboard,
				Language:    DefaultLanguage,
				Packages:    DefaultPackages(),
				Environment: DefaultEnvironment,
			},
			Storage: StorageConfig{
				Device:     DefaultStorageDevice,
				Filesystem: DefaultFilesystem,
			},
		},
		Provision: ProvisionConfig{
			Delivery:      DefaultDelivery,
			LibvirtSocket: DefaultLibvirtSocket,
		},
	}
}
