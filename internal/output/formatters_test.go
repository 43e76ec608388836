package output

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/kickvm/internal/config"
	"github.com/jbweber/kickvm/internal/kickstart"
)

// createTestConfig creates a RunConfig for testing.
func createTestConfig(name string) *config.RunConfig {
	cfg := config.Default()
	cfg.VM.Name = name
	cfg.VM.ISO = "/isos/alma.iso"
	cfg.Kickstart.Root.Plaintext = "hunter2"
	return cfg
}

func TestTableFormatter_FormatConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      func() *config.RunConfig
		wantCols []string
	}{
		{
			name: "defaults with plaintext root",
			cfg:  func() *config.RunConfig { return createTestConfig("vm01") },
			wantCols: []string{
				"vm01", "2", "4096 MiB", "70 GB", "almalinux8", "network=default,model=virtio", "dhcp", "plaintext", "-", "initrd",
			},
		},
		{
			name: "static address and locked root with user",
			cfg: func() *config.RunConfig {
				cfg := createTestConfig("vm02")
				cfg.Kickstart.Network.Bootproto = kickstart.BootprotoStatic
				cfg.Kickstart.Network.IP = "10.0.0.5"
				cfg.Kickstart.Root = config.RootConfig{Locked: true}
				cfg.Kickstart.User = config.UserConfig{Username: "admin", Keyboard: true, Groups: []string{"wheel", "adm"}}
				return cfg
			},
			wantCols: []string{"vm02", "10.0.0.5", "locked", "admin(keyboard)[wheel,adm]"},
		},
		{
			name: "explicit mac",
			cfg: func() *config.RunConfig {
				cfg := createTestConfig("vm04")
				cfg.VM.MAC = "52:54:00:aa:bb:cc"
				return cfg
			},
			wantCols: []string{"vm04", "network=default,model=virtio,mac=52:54:00:aa:bb:cc"},
		},
		{
			name: "conflicting modes",
			cfg: func() *config.RunConfig {
				cfg := createTestConfig("vm03")
				cfg.Kickstart.Root.Locked = true
				return cfg
			},
			wantCols: []string{"vm03", "conflict"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TableFormatter{}
			output, err := formatter.FormatConfig(tt.cfg())
			if err != nil {
				t.Fatalf("FormatConfig() error = %v", err)
			}

			lines := strings.Split(strings.TrimSpace(output), "\n")
			if len(lines) != 2 {
				t.Fatalf("expected header and one row, got %d lines:\n%s", len(lines), output)
			}
			if !strings.HasPrefix(lines[0], "NAME") {
				t.Errorf("missing header: %s", lines[0])
			}

			fields := strings.Fields(lines[1])
			row := strings.Join(fields, " ")
			for _, col := range tt.wantCols {
				if !strings.Contains(row, col) {
					t.Errorf("row missing %q: %s", col, row)
				}
			}
			if strings.Contains(output, "hunter2") {
				t.Errorf("table must not show passwords: %s", output)
			}
		})
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	formatter := &TableFormatter{NoHeaders: true}
	output, err := formatter.FormatConfigList([]*config.RunConfig{createTestConfig("a"), createTestConfig("b")})
	if err != nil {
		t.Fatalf("FormatConfigList() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d:\n%s", len(lines), output)
	}
	if strings.Contains(output, "NAME") {
		t.Errorf("header should be omitted: %s", output)
	}
	if !strings.HasPrefix(lines[0], "a ") || !strings.HasPrefix(lines[1], "b ") {
		t.Errorf("rows out of order:\n%s", output)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	output, err := (&TableFormatter{}).FormatConfigList(nil)
	if err != nil {
		t.Fatalf("FormatConfigList() error = %v", err)
	}
	if output != "No VMs configured\n" {
		t.Errorf("got %q", output)
	}
}

func TestYAMLFormatter_RoundTrip(t *testing.T) {
	cfg := createTestConfig("vm01")
	uid := uint32(1000)
	cfg.Kickstart.User = config.UserConfig{Username: "admin", Plaintext: "pw", UID: &uid}

	output, err := (&YAMLFormatter{}).FormatConfig(cfg)
	if err != nil {
		t.Fatalf("FormatConfig() error = %v", err)
	}

	loaded := config.Default()
	if err := yaml.Unmarshal([]byte(output), loaded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, output)
	}
	if loaded.VM.Name != "vm01" || loaded.Kickstart.User.UID == nil || *loaded.Kickstart.User.UID != 1000 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Kickstart.Root.Plaintext != "hunter2" {
		t.Errorf("YAML output must keep credentials so it can be reloaded")
	}
}

func TestYAMLFormatter_FormatConfigList(t *testing.T) {
	formatter := &YAMLFormatter{}

	output, err := formatter.FormatConfigList([]*config.RunConfig{createTestConfig("a"), createTestConfig("b")})
	if err != nil {
		t.Fatalf("FormatConfigList() error = %v", err)
	}
	if got := strings.Count(output, "---\n"); got != 1 {
		t.Errorf("expected 1 document separator, got %d:\n%s", got, output)
	}

	for _, cfgs := range [][]*config.RunConfig{nil, {}} {
		empty, err := formatter.FormatConfigList(cfgs)
		if err != nil || empty != "" {
			t.Errorf("empty list: got %q, %v", empty, err)
		}
	}

	redacted, err := NewFormatter(Options{Format: FormatYAML, Redact: true})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	if empty, err := redacted.FormatConfigList([]*config.RunConfig{}); err != nil || empty != "" {
		t.Errorf("empty redacted list: got %q, %v", empty, err)
	}
}

func TestJSONFormatter(t *testing.T) {
	formatter := &JSONFormatter{}

	output, err := formatter.FormatConfig(createTestConfig("vm01"))
	if err != nil {
		t.Fatalf("FormatConfig() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := decoded["vm"]; !ok {
		t.Errorf("missing vm section: %s", output)
	}

	list, err := formatter.FormatConfigList([]*config.RunConfig{createTestConfig("a"), createTestConfig("b")})
	if err != nil {
		t.Fatalf("FormatConfigList() error = %v", err)
	}
	var decodedList []map[string]any
	if err := json.Unmarshal([]byte(list), &decodedList); err != nil || len(decodedList) != 2 {
		t.Fatalf("expected array of 2, got %v: %s", err, list)
	}

	empty, _ := formatter.FormatConfigList(nil)
	if empty != "[]\n" {
		t.Errorf("empty list: got %q", empty)
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatYAML, FormatJSON} {
		if _, err := NewFormatter(Options{Format: format}); err != nil {
			t.Errorf("NewFormatter(%s) error = %v", format, err)
		}
		if err := ValidateFormat(string(format)); err != nil {
			t.Errorf("ValidateFormat(%s) error = %v", format, err)
		}
	}

	if _, err := NewFormatter(Options{Format: "xml"}); err == nil {
		t.Error("expected error for xml format")
	}
	if err := ValidateFormat("xml"); err == nil {
		t.Error("expected error for xml format")
	}
}

func TestFormatFlagValue(t *testing.T) {
	f := FormatTable
	if err := f.Set("json"); err != nil {
		t.Fatalf("Set(json) error = %v", err)
	}
	if f != FormatJSON || f.String() != "json" {
		t.Errorf("after Set(json) got %q", f)
	}
	if err := f.Set("xml"); err == nil {
		t.Error("expected error for xml format")
	}
	if f != FormatJSON {
		t.Errorf("failed Set changed value to %q", f)
	}
	if f.Type() != "format" {
		t.Errorf("Type() = %q", f.Type())
	}
}

func TestRedactingFormatter(t *testing.T) {
	cfg := createTestConfig("vm01")
	cfg.Kickstart.User.Username = "admin"
	cfg.Kickstart.User.Crypted = "$6$saltsalt$abcdefghijklmnop"

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			formatter, err := NewFormatter(Options{Format: format, Redact: true})
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}

			single, err := formatter.FormatConfig(cfg)
			if err != nil {
				t.Fatalf("FormatConfig() error = %v", err)
			}
			list, err := formatter.FormatConfigList([]*config.RunConfig{cfg, createTestConfig("vm02")})
			if err != nil {
				t.Fatalf("FormatConfigList() error = %v", err)
			}

			for _, out := range []string{single, list} {
				if strings.Contains(out, "hunter2") || strings.Contains(out, "$6$saltsalt") {
					t.Errorf("redacted output leaks a credential:\n%s", out)
				}
			}
			if !strings.Contains(list, "vm02") {
				t.Errorf("list output missing second VM:\n%s", list)
			}
		})
	}

	if cfg.Kickstart.Root.Plaintext != "hunter2" {
		t.Error("redaction modified the caller's configuration")
	}
}
