package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/kickvm/internal/config"
)

// YAMLFormatter renders YAML documents.
type YAMLFormatter struct{}

// FormatConfig renders one document, loadable with --config.
func (f *YAMLFormatter) FormatConfig(cfg *config.RunConfig) (string, error) {
	return f.FormatConfigList([]*config.RunConfig{cfg})
}

// FormatConfigList renders a stream with one document per configuration,
// separated by "---". An empty list renders nothing.
func (f *YAMLFormatter) FormatConfigList(cfgs []*config.RunConfig) (string, error) {
	// Closing an encoder that wrote no document is an error in yaml.v3.
	if len(cfgs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	for _, cfg := range cfgs {
		if err := enc.Encode(cfg); err != nil {
			return "", fmt.Errorf("failed to marshal config %s to YAML: %w", cfg.VM.Name, err)
		}
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to finish YAML stream: %w", err)
	}
	return buf.String(), nil
}
