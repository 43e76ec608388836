package batch

import (
	"context"

	"github.com/jbweber/kickvm/internal/config"
)

// mockProvisioner is a mock implementation of Provisioner for testing.
type mockProvisioner struct {
	// Configurable behavior
	runFunc func(cfg *config.RunConfig) error

	// Call tracking
	runCalls []*config.RunConfig
}

func (m *mockProvisioner) Run(_ context.Context, cfg *config.RunConfig) error {
	m.runCalls = append(m.runCalls, cfg)
	if m.runFunc != nil {
		return m.runFunc(cfg)
	}
	return nil
}

// names returns the VM names provisioned so far, in call order.
func (m *mockProvisioner) names() []string {
	names := make([]string, len(m.runCalls))
	for i, cfg := range m.runCalls {
		names[i] = cfg.VM.Name
	}
	return names
}
