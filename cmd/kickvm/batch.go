package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/kickvm/internal/batch"
	"github.com/jbweber/kickvm/internal/output"
	"github.com/jbweber/kickvm/internal/provision"
)

var (
	csvOptionsPath    string
	globalOptionsPath string
	batchPlan         bool
)

func init() {
	batchInstallCmd.Flags().StringVar(&csvOptionsPath, "csv-options", "", "Option CSV file path")
	batchInstallCmd.Flags().StringVar(&globalOptionsPath, "global-options", "", "Global options text file path")
	batchInstallCmd.Flags().BoolVar(&batchPlan, "plan", false, "Print the resolved configuration of every row instead of provisioning")
	batchInstallCmd.Flags().VarP(&outputFormat, "output", "o", "Output format for --plan (table, yaml, json)")
	batchInstallCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit table headers for --plan")
	batchInstallCmd.Flags().BoolVar(&redact, "redact", false, "Drop passwords and hashes from --plan output")
	_ = batchInstallCmd.MarkFlagRequired("csv-options")
	_ = batchInstallCmd.MarkFlagRequired("global-options")
}

var batchInstallCmd = &cobra.Command{
	Use:   "batch-install",
	Short: "Provision VMs from a CSV file",
	Long: `Provision one VM per CSV row.

The global options file holds one argument per line. For every CSV row the
global arguments are followed by the row's flags and parsed like run-all.
The header row names the flags; a cell of TRUE passes a bare flag, FALSE
omits the column, and any other value is passed as the flag's value. Lines
starting with # are ignored.

Rows run one at a time. The first failure stops the batch; VMs created by
earlier rows are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global, err := batch.LoadGlobalArgsFile(globalOptionsPath)
		if err != nil {
			return err
		}
		fragments, err := batch.ExpandFile(csvOptionsPath)
		if err != nil {
			return err
		}

		orchestrator := batch.NewOrchestrator(provision.New(), os.Stderr)

		if !batchPlan {
			return orchestrator.Run(context.Background(), global, fragments)
		}

		cfgs, err := orchestrator.Plan(global, fragments)
		if err != nil {
			return err
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    outputFormat,
			NoHeaders: noHeaders,
			Redact:    redact,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatConfigList(cfgs)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}
