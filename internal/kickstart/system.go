package kickstart

import (
	"fmt"
	"strings"
)

// Environment is an installation environment group. The value is the
// literal token used in the "@^<environment>" package line.
type Environment string

const (
	EnvironmentMinimal            Environment = "minimal-environment"
	EnvironmentGraphicalServer    Environment = "graphical-server-environment"
	EnvironmentServerProduct      Environment = "server-product-environment"
	EnvironmentWorkstationProduct Environment = "workstation-product-environment"
	EnvironmentVirtualizationHost Environment = "virtualization-host-environment"
)

// Environments lists every supported environment in display order.
var Environments = []Environment{
	EnvironmentMinimal,
	EnvironmentGraphicalServer,
	EnvironmentServerProduct,
	EnvironmentWorkstationProduct,
	EnvironmentVirtualizationHost,
}

// String implements pflag.Value.
func (e *Environment) String() string {
	return string(*e)
}

// Set implements pflag.Value.
func (e *Environment) Set(value string) error {
	v := Environment(strings.ToLower(strings.TrimSpace(value)))
	if err := v.Validate(); err != nil {
		return err
	}
	*e = v
	return nil
}

// Type implements pflag.Value.
func (e *Environment) Type() string {
	return "environment"
}

// Validate checks that e is one of Environments.
func (e Environment) Validate() error {
	for _, known := range Environments {
		if e == known {
			return nil
		}
	}

	names := make([]string, len(Environments))
	for i, known := range Environments {
		names[i] = string(known)
	}
	return fmt.Errorf("invalid environment %q (must be one of: %s)", string(e), strings.Join(names, ", "))
}

// System holds locale, timezone, and package selection.
type System struct {
	Keyboard    string
	Language    string
	Timezone    string
	Environment Environment
	Packages    []string // extra package or group lines, e.g. "@standard"
}

// KeyboardLine renders the keyboard directive.
func (s System) KeyboardLine() string {
	return fmt.Sprintf("keyboard --xlayouts='%s'", s.Keyboard)
}

// LanguageLine renders the lang directive.
func (s System) LanguageLine() string {
	return "lang " + s.Language
}

// TimezoneLine renders the timezone directive. The hardware clock is always UTC.
func (s System) TimezoneLine() string {
	return fmt.Sprintf("timezone %s --utc", s.Timezone)
}

// Generate renders the body of the %packages section: the environment group
// followed by one extra package per line.
func (s System) Generate() string {
	lines := make([]string, 0, len(s.Packages)+1)
	lines = append(lines, "@^"+string(s.Environment))
	lines = append(lines, s.Packages...)
	return strings.Join(lines, "\n")
}
