package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jbweber/kickvm/internal/config"
)

// JSONFormatter renders indented JSON.
type JSONFormatter struct{}

// FormatConfig renders one configuration as a JSON object.
func (f *JSONFormatter) FormatConfig(cfg *config.RunConfig) (string, error) {
	return encodeJSON(cfg)
}

// FormatConfigList renders a JSON array, "[]" when empty.
func (f *JSONFormatter) FormatConfigList(cfgs []*config.RunConfig) (string, error) {
	if cfgs == nil {
		cfgs = []*config.RunConfig{}
	}
	return encodeJSON(cfgs)
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal config to JSON: %w", err)
	}
	return buf.String(), nil
}
