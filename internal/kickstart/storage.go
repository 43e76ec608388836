package kickstart

import "fmt"

// Partition sizes in MiB. Only the device and filesystem are configurable.
const (
	PhysicalVolumeSizeMiB = 15360
	BootSizeMiB           = 1024
	SwapSizeMiB           = 4030
	RootSizeMiB           = 10240
	PhysicalExtentKiB     = 4096

	// VolumeGroup is the LVM volume group holding swap and root.
	VolumeGroup = "almalinux"
)

// Storage renders a fixed partition layout: the platform-reserved boot
// partition, one LVM physical volume, /boot, and swap and / logical volumes.
type Storage struct {
	Device     string
	Filesystem string
}

// Generate renders the storage fragment. The fragment ends with a newline.
func (s Storage) Generate() string {
	return fmt.Sprintf(`ignoredisk --only-use=%[1]s
# Partition clearing information
clearpart --none --initlabel
# Disk partitioning information
reqpart
part pv.116 --fstype="lvmpv" --ondisk=%[1]s --size=%[3]d --grow
part /boot --fstype="%[2]s" --ondisk=%[1]s --size=%[4]d
volgroup %[7]s --pesize=%[8]d pv.116
logvol swap --fstype="swap" --size=%[5]d --name=swap --vgname=%[7]s
logvol / --fstype="%[2]s" --size=%[6]d --name=root --vgname=%[7]s --grow
`,
		s.Device, s.Filesystem,
		PhysicalVolumeSizeMiB, BootSizeMiB, SwapSizeMiB, RootSizeMiB,
		VolumeGroup, PhysicalExtentKiB,
	)
}
