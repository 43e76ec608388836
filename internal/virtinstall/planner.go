// Package virtinstall builds and runs virt-install command lines.
package virtinstall

import (
	"fmt"
	"path/filepath"
)

const (
	// Command is the executable every plan starts with.
	Command = "virt-install"

	// CPUModel is passed to --cpu.
	CPUModel = "host"

	// ConsoleDevice is the serial console given to the installer kernel.
	ConsoleDevice = "ttyS0"
)

// Params are the base parameters of a VM.
type Params struct {
	Name       string
	OSInfo     string
	DiskSizeGB uint
	VCPUs      uint
	MemoryMiB  uint
	Location   string // installer ISO or tree
	Network    string // virt-install --network spec, e.g. "bridge=br0"
	MAC        string // optional, appended to Network
}

// DeliveryMethod is how the kickstart reaches the installer.
type DeliveryMethod string

const (
	// DeliveryInitrd injects the file into the installer initrd and points
	// inst.ks at it.
	DeliveryInitrd DeliveryMethod = "initrd"

	// DeliveryOEMDRV attaches an ISO labelled OEMDRV holding ks.cfg, which
	// Anaconda loads without any kernel arguments.
	DeliveryOEMDRV DeliveryMethod = "oemdrv"
)

// String implements pflag.Value.
func (d *DeliveryMethod) String() string {
	return string(*d)
}

// Set implements pflag.Value.
func (d *DeliveryMethod) Set(value string) error {
	v := DeliveryMethod(value)
	if err := v.Validate(); err != nil {
		return err
	}
	*d = v
	return nil
}

// Type implements pflag.Value.
func (d *DeliveryMethod) Type() string {
	return "delivery"
}

// Validate checks that d is a known delivery method.
func (d DeliveryMethod) Validate() error {
	switch d {
	case DeliveryInitrd, DeliveryOEMDRV:
		return nil
	default:
		return fmt.Errorf("invalid kickstart delivery %q (must be initrd or oemdrv)", string(d))
	}
}

// Attachment is a kickstart artifact handed to virt-install.
type Attachment struct {
	Method DeliveryMethod
	Path   string // kickstart file for initrd, ISO image for oemdrv
}

// Plan returns the virt-install argument vector, starting with Command.
// A nil attachment creates the VM without a kickstart.
func Plan(p Params, attachment *Attachment) []string {
	network := p.Network
	if p.MAC != "" {
		network += ",mac=" + p.MAC
	}

	argv := []string{
		Command,
		"--name", p.Name,
		"--osinfo", p.OSInfo,
		"--disk", fmt.Sprintf("size=%d", p.DiskSizeGB),
		"--vcpu", fmt.Sprintf("%d", p.VCPUs),
		"--cpu", CPUModel,
		"--memory", fmt.Sprintf("memory=%[1]d,maxmemory=%[1]d", p.MemoryMiB),
		"--location", p.Location,
		"--network", network,
		"--noreboot",
		"--autoconsole", "text",
	}

	if attachment == nil {
		return argv
	}

	switch attachment.Method {
	case DeliveryOEMDRV:
		argv = append(argv,
			"--disk", fmt.Sprintf("path=%s,device=cdrom", attachment.Path),
			"--extra-args", "inst.text console="+ConsoleDevice,
		)
	default:
		argv = append(argv,
			"--initrd-inject", attachment.Path,
			"--extra-args", fmt.Sprintf("inst.text inst.ks=file:/%s console=%s", filepath.Base(attachment.Path), ConsoleDevice),
		)
	}
	return argv
}
