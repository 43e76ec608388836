package kickstart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageGenerate(t *testing.T) {
	s := Storage{Device: "sda1", Filesystem: "ext4"}

	want := `ignoredisk --only-use=sda1
# Partition clearing information
clearpart --none --initlabel
# Disk partitioning information
reqpart
part pv.116 --fstype="lvmpv" --ondisk=sda1 --size=15360 --grow
part /boot --fstype="ext4" --ondisk=sda1 --size=1024
volgroup almalinux --pesize=4096 pv.116
logvol swap --fstype="swap" --size=4030 --name=swap --vgname=almalinux
logvol / --fstype="ext4" --size=10240 --name=root --vgname=almalinux --grow
`
	assert.Equal(t, want, s.Generate())
}
