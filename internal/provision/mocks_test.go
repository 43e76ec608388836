package provision

import (
	"context"
	"fmt"
	"os"

	"github.com/jbweber/kickvm/internal/libvirt"
)

// mockRunner is a mock implementation of commandRunner for testing.
type mockRunner struct {
	// Configurable behavior
	runFunc func(argv []string) error

	// Call tracking
	runCalls [][]string
}

func (m *mockRunner) Run(_ context.Context, argv []string) error {
	m.runCalls = append(m.runCalls, argv)
	if m.runFunc != nil {
		return m.runFunc(argv)
	}
	return nil
}

// mockInspector is a mock implementation of domainInspector for testing.
type mockInspector struct {
	// Configurable behavior
	ensureAbsentErr error
	capacityErr     error
	storeErr        error
	describeFunc    func(name string) (*libvirt.DomainSummary, error)

	// Call tracking
	ensureAbsentCalls []string
	capacityCalls     []string
	stored            map[string]string
	describeCalls     []string
	closeCalls        int
}

func (m *mockInspector) EnsureDomainAbsent(name string) error {
	m.ensureAbsentCalls = append(m.ensureAbsentCalls, name)
	return m.ensureAbsentErr
}

func (m *mockInspector) EnsurePoolCapacity(pool string, sizeGB uint) error {
	m.capacityCalls = append(m.capacityCalls, fmt.Sprintf("%s:%d", pool, sizeGB))
	return m.capacityErr
}

func (m *mockInspector) StoreMetadata(name, doc string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if m.stored == nil {
		m.stored = map[string]string{}
	}
	m.stored[name] = doc
	return nil
}

func (m *mockInspector) Describe(name string) (*libvirt.DomainSummary, error) {
	m.describeCalls = append(m.describeCalls, name)
	if m.describeFunc != nil {
		return m.describeFunc(name)
	}
	return &libvirt.DomainSummary{Name: name}, nil
}

func (m *mockInspector) Close() error {
	m.closeCalls++
	return nil
}

// mockConnector hands out a fixed inspector and records the sockets used.
type mockConnector struct {
	inspector *mockInspector
	err       error

	sockets []string
}

func (m *mockConnector) connect(_ context.Context, socket string) (domainInspector, error) {
	m.sockets = append(m.sockets, socket)
	if m.err != nil {
		return nil, m.err
	}
	return m.inspector, nil
}

// mockSecretSource returns a fixed hash and records prompts.
type mockSecretSource struct {
	hash string
	err  error

	prompts []string
}

func (m *mockSecretSource) ReadHashed(prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.hash, nil
}

// readArtifact returns the contents of the staged file named by flag, read
// while the runner is being called.
func readArtifact(argv []string, flag string) (string, error) {
	for i := 0; i < len(argv)-1; i++ {
		if argv[i] == flag {
			data, err := os.ReadFile(argv[i+1])
			return string(data), err
		}
	}
	return "", fmt.Errorf("flag %s not found", flag)
}
