package provision

import (
	"context"

	"github.com/jbweber/kickvm/internal/libvirt"
)

// commandRunner executes the virt-install argument vector.
//
// In production, this is satisfied by *virtinstall.SudoRunner.
// In tests, this is satisfied by mock implementations.
type commandRunner interface {
	Run(ctx context.Context, argv []string) error
}

// domainInspector reads libvirt state around a provisioning run.
//
// In production, this is satisfied by *libvirt.Client.
// In tests, this is satisfied by mock implementations.
type domainInspector interface {
	// EnsureDomainAbsent fails if the VM name is already defined
	EnsureDomainAbsent(name string) error

	// EnsurePoolCapacity fails if the pool cannot hold a sizeGB disk
	EnsurePoolCapacity(pool string, sizeGB uint) error

	// StoreMetadata records a document on a defined domain
	StoreMetadata(name, doc string) error

	// Describe summarizes a defined domain
	Describe(name string) (*libvirt.DomainSummary, error)

	// Close releases the connection
	Close() error
}

// connectFunc opens a domainInspector on the given daemon socket.
type connectFunc func(ctx context.Context, socket string) (domainInspector, error)
