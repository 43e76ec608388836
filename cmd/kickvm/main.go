package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

var logLevel string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kickvm",
	Short: "kickvm - Kickstart-driven VM provisioning",
	Long: `kickvm generates Anaconda kickstart files and creates VMs with virt-install.

It can print a kickstart, create a single VM from flags or a YAML config,
or provision a batch of VMs described by a CSV file.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logrus.SetLevel(level)
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(kickstartCmd)
	rootCmd.AddCommand(createVMCmd)
	rootCmd.AddCommand(runAllCmd)
	rootCmd.AddCommand(batchInstallCmd)
	rootCmd.AddCommand(encryptPasswdCmd)
	rootCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(testConnCmd)
}
