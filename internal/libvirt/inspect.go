package libvirt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
	"libvirt.org/go/libvirtxml"
)

// ErrDomainExists is returned when a VM name is already taken.
var ErrDomainExists = errors.New("domain already exists")

// domainReader is the subset of *libvirt.Libvirt used to inspect domains.
type domainReader interface {
	DomainLookupByName(name string) (libvirt.Domain, error)
	DomainGetXMLDesc(dom libvirt.Domain, flags libvirt.DomainXMLFlags) (string, error)
}

// DomainSummary is what kickvm reports about a created VM.
type DomainSummary struct {
	Name      string
	UUID      string
	VCPUs     uint
	MemoryMiB uint64
	Disks     []string // source files, including attached ISOs
	MACs      []string
}

// EnsureDomainAbsent returns ErrDomainExists if name is defined. A lookup
// failure other than "no such domain" is returned as is.
func EnsureDomainAbsent(lv domainReader, name string) error {
	dom, err := lv.DomainLookupByName(name)
	if err == nil {
		return fmt.Errorf("%w: %s (uuid %s)", ErrDomainExists, name, uuid.UUID(dom.UUID))
	}
	if libvirt.IsNotFound(err) {
		return nil
	}
	return fmt.Errorf("failed to look up domain %s: %w", name, err)
}

// Describe looks up name and summarizes its live XML definition.
func Describe(lv domainReader, name string) (*DomainSummary, error) {
	dom, err := lv.DomainLookupByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up domain %s: %w", name, err)
	}

	xmlDesc, err := lv.DomainGetXMLDesc(dom, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get XML for domain %s: %w", name, err)
	}

	summary, err := ParseDomainSummary(xmlDesc)
	if err != nil {
		return nil, err
	}
	if summary.UUID == "" {
		summary.UUID = uuid.UUID(dom.UUID).String()
	}
	return summary, nil
}

// ParseDomainSummary extracts a DomainSummary from domain XML.
func ParseDomainSummary(xmlDesc string) (*DomainSummary, error) {
	var def libvirtxml.Domain
	if err := def.Unmarshal(xmlDesc); err != nil {
		return nil, fmt.Errorf("failed to parse domain XML: %w", err)
	}

	summary := &DomainSummary{
		Name: def.Name,
		UUID: def.UUID,
	}
	if def.VCPU != nil {
		summary.VCPUs = def.VCPU.Value
	}
	if def.Memory != nil {
		summary.MemoryMiB = toMiB(uint64(def.Memory.Value), def.Memory.Unit)
	}

	if def.Devices != nil {
		for _, disk := range def.Devices.Disks {
			if disk.Source != nil && disk.Source.File != nil && disk.Source.File.File != "" {
				summary.Disks = append(summary.Disks, disk.Source.File.File)
			}
		}
		for _, iface := range def.Devices.Interfaces {
			if iface.MAC != nil && iface.MAC.Address != "" {
				summary.MACs = append(summary.MACs, iface.MAC.Address)
			}
		}
	}
	return summary, nil
}

// toMiB converts a libvirt memory value to MiB. libvirt defaults to KiB.
func toMiB(value uint64, unit string) uint64 {
	switch strings.ToLower(unit) {
	case "b", "bytes":
		return value / (1024 * 1024)
	case "m", "mib":
		return value
	case "g", "gib":
		return value * 1024
	default:
		return value / 1024
	}
}
