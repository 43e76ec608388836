package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/kickvm/internal/config"
	"github.com/jbweber/kickvm/internal/provision"
)

var (
	kickstartCfg = config.Default()
	createVMCfg  = config.Default()
	runAllCfg    = config.Default()
)

func init() {
	config.BindFlags(kickstartCmd.Flags(), kickstartCfg, config.ScopeKickstart)
	config.BindFlags(createVMCmd.Flags(), createVMCfg, config.ScopeVM|config.ScopeProvision)
	config.BindFlags(runAllCmd.Flags(), runAllCfg, config.ScopeAll)
}

var kickstartCmd = &cobra.Command{
	Use:   "kickstart",
	Short: "Print a generated kickstart",
	Long: `Generate a kickstart from the given options and print it to stdout.

Exactly one of --rootpw-plain, --rootpw-crypt, --rootpw-keyboard and
--rootpw-locked is required. Keyboard modes prompt twice on the terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve(cmd.Flags(), kickstartCfg, config.ScopeKickstart)
		if err != nil {
			return err
		}

		doc, err := provision.New().Kickstart(cfg)
		if err != nil {
			return err
		}

		fmt.Print(doc)
		return nil
	},
}

var createVMCmd = &cobra.Command{
	Use:   "create-vm",
	Short: "Create a VM with an existing kickstart",
	Long: `Create a VM with virt-install, attaching the kickstart given with
--kickstart. Without --kickstart the installer runs interactively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve(cmd.Flags(), createVMCfg, config.ScopeVM|config.ScopeProvision)
		if err != nil {
			return err
		}

		return provision.New().CreateVM(context.Background(), cfg)
	},
}

var runAllCmd = &cobra.Command{
	Use:   "run-all",
	Short: "Generate a kickstart and create a VM with it",
	Long: `Generate a kickstart and create a VM with it in one step.

The kickstart is staged in a temporary directory that is removed when the
run ends unless --do-not-remove-temporary-directory is given. With --dry-run
the virt-install command is printed instead of executed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve(cmd.Flags(), runAllCfg, config.ScopeAll)
		if err != nil {
			return err
		}

		return provision.New().Run(context.Background(), cfg)
	},
}
