// Package libvirt provides a small client for the libvirt daemon that
// virt-install provisions into.
//
// kickvm never defines domains itself; virt-install does. Around that this
// package offers:
//   - Connection management (connect, disconnect, ping, version)
//   - Preflight: refuse a name that is already defined, and a disk the
//     default storage pool cannot hold
//   - Inspection: summarize a created domain from its live XML
//   - Metadata: record the configuration a domain was created from
//
// Connection Management:
//
//	client, err := libvirt.Connect(libvirt.DefaultSocket, 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.EnsureDomainAbsent("vm01"); err != nil {
//	    return err
//	}
//
// The package-level functions accept the subset of *libvirt.Libvirt they
// call, so the connection satisfies them directly and tests pass mocks.
package libvirt
