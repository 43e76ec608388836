// Package output renders resolved run configurations for show-config and
// batch-install --plan.
package output

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/jbweber/kickvm/internal/config"
)

// Format is an output format name. *Format is a pflag.Value.
type Format string

const (
	FormatTable Format = "table" // one row per VM, credentials shown as modes
	FormatYAML  Format = "yaml"  // loadable with --config
	FormatJSON  Format = "json"
)

// String implements pflag.Value.
func (f *Format) String() string {
	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(value string) error {
	if err := ValidateFormat(value); err != nil {
		return err
	}
	*f = Format(value)
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

// Formatter renders run configurations.
type Formatter interface {
	FormatConfig(cfg *config.RunConfig) (string, error)

	// FormatConfigList renders a batch in row order.
	FormatConfigList(cfgs []*config.RunConfig) (string, error)
}

// Options selects a Formatter.
type Options struct {
	Format    Format
	NoHeaders bool // table only
	Redact    bool // drop passwords and hashes before rendering
}

// NewFormatter returns the Formatter for opts.
func NewFormatter(opts Options) (Formatter, error) {
	var f Formatter
	switch opts.Format {
	case FormatTable:
		f = &TableFormatter{NoHeaders: opts.NoHeaders}
	case FormatYAML:
		f = &YAMLFormatter{}
	case FormatJSON:
		f = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}

	if opts.Redact {
		f = redacting{next: f}
	}
	return f, nil
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	switch Format(format) {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}

// redacting hands redacted copies to next.
type redacting struct {
	next Formatter
}

func (r redacting) FormatConfig(cfg *config.RunConfig) (string, error) {
	return r.next.FormatConfig(cfg.Redacted())
}

func (r redacting) FormatConfigList(cfgs []*config.RunConfig) (string, error) {
	return r.next.FormatConfigList(lo.Map(cfgs, func(c *config.RunConfig, _ int) *config.RunConfig {
		return c.Redacted()
	}))
}
