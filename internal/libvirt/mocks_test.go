package libvirt

import (
	"github.com/digitalocean/go-libvirt"
)

// mockDomainReader is a mock implementation of domainReader for testing.
type mockDomainReader struct {
	// Configurable behavior
	lookupFunc func(name string) (libvirt.Domain, error)
	xmlFunc    func(dom libvirt.Domain) (string, error)

	// Call tracking
	lookupCalls []string
	xmlCalls    []libvirt.Domain
}

func (m *mockDomainReader) DomainLookupByName(name string) (libvirt.Domain, error) {
	m.lookupCalls = append(m.lookupCalls, name)
	if m.lookupFunc != nil {
		return m.lookupFunc(name)
	}
	return libvirt.Domain{}, errNoDomain
}

func (m *mockDomainReader) DomainGetXMLDesc(dom libvirt.Domain, flags libvirt.DomainXMLFlags) (string, error) {
	m.xmlCalls = append(m.xmlCalls, dom)
	if m.xmlFunc != nil {
		return m.xmlFunc(dom)
	}
	return "", nil
}

// errNoDomain is what the daemon returns for an unknown domain name.
var errNoDomain = libvirt.Error{Code: uint32(libvirt.ErrNoDomain), Message: "Domain not found"}

// mockPoolReader is a mock implementation of poolReader for testing.
type mockPoolReader struct {
	pools map[string]mockPool
	err   error // returned by StoragePoolGetInfo when set
}

type mockPool struct {
	uuid      libvirt.UUID
	state     libvirt.StoragePoolState
	capacity  uint64
	allocated uint64
	available uint64
	xml       string
}

func (m *mockPoolReader) StoragePoolLookupByName(name string) (libvirt.StoragePool, error) {
	p, ok := m.pools[name]
	if !ok {
		return libvirt.StoragePool{}, errNoStoragePool
	}
	return libvirt.StoragePool{Name: name, UUID: p.uuid}, nil
}

func (m *mockPoolReader) StoragePoolGetInfo(pool libvirt.StoragePool) (uint8, uint64, uint64, uint64, error) {
	if m.err != nil {
		return 0, 0, 0, 0, m.err
	}
	p := m.pools[pool.Name]
	return uint8(p.state), p.capacity, p.allocated, p.available, nil
}

func (m *mockPoolReader) StoragePoolGetXMLDesc(pool libvirt.StoragePool, flags libvirt.StorageXMLFlags) (string, error) {
	return m.pools[pool.Name].xml, nil
}

var errNoStoragePool = libvirt.Error{Code: uint32(libvirt.ErrNoStoragePool), Message: "Storage pool not found"}

// mockMetadataStore keeps metadata per domain name in memory.
type mockMetadataStore struct {
	mockDomainReader

	setErr   error
	stored   map[string]string
	setFlags []libvirt.DomainModificationImpact
}

func (m *mockMetadataStore) DomainSetMetadata(dom libvirt.Domain, typ int32, metadata libvirt.OptString, key libvirt.OptString, uri libvirt.OptString, flags libvirt.DomainModificationImpact) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.stored == nil {
		m.stored = map[string]string{}
	}
	m.stored[dom.Name] = metadata[0]
	m.setFlags = append(m.setFlags, flags)
	return nil
}

func (m *mockMetadataStore) DomainGetMetadata(dom libvirt.Domain, typ int32, uri libvirt.OptString, flags libvirt.DomainModificationImpact) (string, error) {
	raw, ok := m.stored[dom.Name]
	if !ok {
		return "", libvirt.Error{Code: uint32(libvirt.ErrNoDomainMetadata), Message: "metadata not found"}
	}
	return raw, nil
}
