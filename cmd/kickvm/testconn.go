package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jbweber/kickvm/internal/libvirt"
)

var testConnSocket string

func init() {
	testConnCmd.Flags().StringVar(&testConnSocket, "libvirt-socket", libvirt.DefaultSocket, "Path to the libvirt socket")
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Check the connection used by --preflight",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Connecting to libvirt at %s...\n", testConnSocket)

		client, err := libvirt.Connect(testConnSocket, libvirt.DefaultTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		defer func() { _ = client.Close() }()

		color.Green("✓ Connected")

		if err := client.Ping(); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		color.Green("✓ Ping successful")

		version, err := client.Version()
		if err != nil {
			return err
		}
		fmt.Printf("  libvirt version: %s\n", version)

		if hostname, err := client.Hostname(); err == nil {
			fmt.Printf("  hostname:        %s\n", hostname)
		}
		if uri, err := client.URI(); err == nil {
			fmt.Printf("  uri:             %s\n", uri)
		}

		pool, err := client.PoolInfo(libvirt.DefaultPool)
		if err != nil {
			color.Yellow("! Storage pool %s: %v", libvirt.DefaultPool, err)
			return nil
		}
		fmt.Printf("  pool %s:    %s, %s, %d/%d GiB free\n",
			pool.Name, pool.State, pool.Path, pool.AvailableGB(), pool.CapacityGB())

		return nil
	},
}
