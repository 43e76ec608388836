package kickstart

// mockSecretSource is a SecretSource that returns canned hashes and records
// every prompt it receives.
type mockSecretSource struct {
	readHashedFunc func(prompt string) (string, error)

	prompts []string
}

func newMockSecretSource(hash string) *mockSecretSource {
	return &mockSecretSource{
		readHashedFunc: func(string) (string, error) {
			return hash, nil
		},
	}
}

func (m *mockSecretSource) ReadHashed(prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.readHashedFunc(prompt)
}

func uint32Ptr(v uint32) *uint32 {
	return &v
}
