package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jbweber/kickvm/internal/config"
	"github.com/jbweber/kickvm/internal/kickstart"
)

// TableFormatter formats configurations as human-readable tables. Passwords
// are never shown, only how they are provided.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatConfig formats a single RunConfig as a table row.
func (f *TableFormatter) FormatConfig(cfg *config.RunConfig) (string, error) {
	return f.FormatConfigList([]*config.RunConfig{cfg})
}

// FormatConfigList formats configurations as a table, one row per VM.
func (f *TableFormatter) FormatConfigList(cfgs []*config.RunConfig) (string, error) {
	if len(cfgs) == 0 {
		return "No VMs configured\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tVCPUs\tMEMORY\tDISK\tOSINFO\tNETWORK\tADDRESS\tROOT\tUSER\tDELIVERY")
	}

	for _, cfg := range cfgs {
		name := cfg.VM.Name
		if name == "" {
			name = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%d\t%d MiB\t%d GB\t%s\t%s\t%s\t%s\t%s\t%s\n",
			name,
			cfg.VM.VCPUs,
			cfg.VM.MemoryMiB,
			cfg.VM.DiskSizeGB,
			cfg.VM.OSInfo,
			network(cfg.VM),
			address(cfg.Kickstart.Network),
			rootMode(cfg.Kickstart.Root),
			user(cfg.Kickstart.User),
			cfg.Provision.Delivery,
		)
	}

	_ = w.Flush()
	return buf.String(), nil
}

// network is the virt-install --network value with the MAC option shown.
func network(v config.VMConfig) string {
	if v.MAC == "" {
		return v.Network
	}
	return v.Network + ",mac=" + v.MAC
}

// address describes the installed system's addressing.
func address(n config.NetworkConfig) string {
	if n.Bootproto == kickstart.BootprotoStatic {
		return n.IP
	}
	return string(n.Bootproto)
}

// rootMode names how the root password is provided.
func rootMode(r config.RootConfig) string {
	mode, err := r.Mode()
	if err != nil {
		return "conflict"
	}
	return modeName(mode)
}

// user describes the optional user account as name(mode)[groups].
func user(u config.UserConfig) string {
	if u.Username == "" {
		return "-"
	}

	mode, err := u.Mode()
	name := modeName(mode)
	if err != nil {
		name = "conflict"
	}

	s := fmt.Sprintf("%s(%s)", u.Username, name)
	if len(u.Groups) > 0 {
		s += "[" + strings.Join(u.Groups, ",") + "]"
	}
	return s
}

func modeName(mode kickstart.CredentialMode) string {
	switch mode.(type) {
	case kickstart.Plaintext:
		return "plaintext"
	case kickstart.PreHashed:
		return "crypted"
	case kickstart.Interactive:
		return "keyboard"
	case kickstart.Locked:
		return "locked"
	default:
		return "unset"
	}
}
