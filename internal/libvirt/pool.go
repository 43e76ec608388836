package libvirt

import (
	"errors"
	"fmt"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"
	"libvirt.org/go/libvirtxml"
)

// DefaultPool is the storage pool virt-install allocates --disk size=N in.
const DefaultPool = "default"

// ErrInsufficientCapacity is returned when a pool cannot hold a new disk.
var ErrInsufficientCapacity = errors.New("insufficient storage pool capacity")

// poolReader is the subset of *libvirt.Libvirt used to inspect pools.
type poolReader interface {
	StoragePoolLookupByName(name string) (libvirt.StoragePool, error)
	StoragePoolGetInfo(pool libvirt.StoragePool) (rState uint8, rCapacity uint64, rAllocation uint64, rAvailable uint64, err error)
	StoragePoolGetXMLDesc(pool libvirt.StoragePool, flags libvirt.StorageXMLFlags) (string, error)
}

// PoolInfo describes a storage pool.
type PoolInfo struct {
	Name       string
	UUID       string
	Type       string // dir, logical, netfs, ...
	Path       string // target path, if any
	State      string
	Capacity   uint64 // bytes
	Allocation uint64 // bytes
	Available  uint64 // bytes
}

// AvailableGB returns the free space in whole GiB, rounded down.
func (p *PoolInfo) AvailableGB() uint64 {
	return p.Available / (1024 * 1024 * 1024)
}

// CapacityGB returns the pool size in whole GiB, rounded down.
func (p *PoolInfo) CapacityGB() uint64 {
	return p.Capacity / (1024 * 1024 * 1024)
}

// GetPoolInfo returns details about the pool called name.
func GetPoolInfo(lv poolReader, name string) (*PoolInfo, error) {
	pool, err := lv.StoragePoolLookupByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up storage pool %s: %w", name, err)
	}

	state, capacity, allocation, available, err := lv.StoragePoolGetInfo(pool)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage pool info: %w", err)
	}

	xmlDesc, err := lv.StoragePoolGetXMLDesc(pool, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage pool XML: %w", err)
	}

	var def libvirtxml.StoragePool
	if err := def.Unmarshal(xmlDesc); err != nil {
		return nil, fmt.Errorf("failed to parse storage pool XML: %w", err)
	}

	info := &PoolInfo{
		Name:       pool.Name,
		UUID:       uuid.UUID(pool.UUID).String(),
		Type:       def.Type,
		State:      poolState(libvirt.StoragePoolState(state)),
		Capacity:   capacity,
		Allocation: allocation,
		Available:  available,
	}
	if def.Target != nil {
		info.Path = def.Target.Path
	}
	return info, nil
}

// EnsurePoolCapacity fails with ErrInsufficientCapacity if the running pool
// called name has less than sizeGB GiB available. A missing or inactive pool
// is not checked: virt-install creates or starts it.
func EnsurePoolCapacity(lv poolReader, name string, sizeGB uint) error {
	info, err := GetPoolInfo(lv, name)
	if err != nil {
		if isNoStoragePool(err) {
			return nil
		}
		return err
	}
	if info.State != "running" {
		return nil
	}

	if need := uint64(sizeGB) * 1024 * 1024 * 1024; info.Available < need {
		return fmt.Errorf("%w: pool %s has %dGiB available, disk needs %dGiB",
			ErrInsufficientCapacity, name, info.AvailableGB(), sizeGB)
	}
	return nil
}

func isNoStoragePool(err error) bool {
	var lerr libvirt.Error
	return errors.As(err, &lerr) && lerr.Code == uint32(libvirt.ErrNoStoragePool)
}

func poolState(s libvirt.StoragePoolState) string {
	switch s {
	case libvirt.StoragePoolInactive:
		return "inactive"
	case libvirt.StoragePoolBuilding:
		return "building"
	case libvirt.StoragePoolRunning:
		return "running"
	case libvirt.StoragePoolDegraded:
		return "degraded"
	case libvirt.StoragePoolInaccessible:
		return "inaccessible"
	default:
		return "unknown"
	}
}
