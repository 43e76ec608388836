package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jbweber/kickvm/internal/config"
	"github.com/jbweber/kickvm/internal/libvirt"
	"github.com/jbweber/kickvm/internal/output"
)

var (
	outputFormat = output.FormatTable
	noHeaders    bool
	redact       bool
	fromDomain   string
	savePath     string

	showConfigCfg = config.Default()
)

func init() {
	config.BindFlags(showConfigCmd.Flags(), showConfigCfg, config.ScopeAll)
	showConfigCmd.Flags().VarP(&outputFormat, "output", "o", "Output format (table, yaml, json)")
	showConfigCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit table headers")
	showConfigCmd.Flags().BoolVar(&redact, "redact", false, "Drop passwords and hashes from yaml and json output")
	showConfigCmd.Flags().StringVar(&savePath, "save", "", "Also write the configuration as YAML to this file, for later use with --config")
	showConfigCmd.Flags().StringVar(&fromDomain, "from-domain", "", "Print the configuration recorded on an existing VM by --preflight runs")
}

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the resolved configuration",
	Long: `Resolve run-all flags and --config the same way run-all does and print
the result without generating or creating anything.

Output formats:
  -o table  Human-readable table (default, passwords hidden)
  -o yaml   YAML, loadable with --config
  -o json   JSON

With --from-domain the configuration kickvm recorded on that VM is printed
instead. Passwords are never recorded.

With --save the configuration is also written as YAML to a file that can be
passed back with --config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.RunConfig
		var err error
		if fromDomain != "" {
			cfg, err = loadFromDomain(showConfigCfg.Provision.LibvirtSocket, fromDomain)
		} else {
			cfg, err = config.Resolve(cmd.Flags(), showConfigCfg, config.ScopeAll)
		}
		if err != nil {
			return err
		}

		if savePath != "" {
			saved := cfg
			if redact {
				saved = cfg.Redacted()
			}
			if err := config.SaveFile(savePath, saved); err != nil {
				return err
			}
			_, _ = color.New(color.FgGreen).Fprintf(os.Stderr, "✓ Configuration saved to %s\n", savePath)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    outputFormat,
			NoHeaders: noHeaders,
			Redact:    redact,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatConfig(cfg)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

func loadFromDomain(socket, name string) (*config.RunConfig, error) {
	client, err := libvirt.Connect(socket, libvirt.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to libvirt: %w", err)
	}
	defer func() { _ = client.Close() }()

	doc, err := client.LoadMetadata(name)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if err := config.Decode([]byte(doc), cfg); err != nil {
		return nil, fmt.Errorf("domain %s: %w", name, err)
	}
	return cfg, nil
}
