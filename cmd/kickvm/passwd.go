package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jbweber/kickvm/internal/secret"
)

var checkHash string

func init() {
	encryptPasswdCmd.Flags().StringVar(&checkHash, "check", "", "Verify a password against an existing SHA-512 crypt hash")
}

var encryptPasswdCmd = &cobra.Command{
	Use:   "encrypt-passwd",
	Short: "Hash a password for --rootpw-crypt or --user-crypt",
	Long: `Prompt for a password twice and print its SHA-512 crypt hash.

With --check, prompt once and verify the password against the given hash.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompter := secret.NewTerminalPrompter()

		if checkHash != "" {
			return verifyPassword(prompter, checkHash)
		}

		hash, err := secret.NewProvider(prompter, secret.NewSHA512Hasher()).ReadHashed("Password: ")
		if err != nil {
			return err
		}

		fmt.Println(hash)
		return nil
	},
}

func verifyPassword(prompter secret.Prompter, hash string) error {
	if !secret.IsCrypted(hash) {
		return fmt.Errorf("--check: %q is not a crypt hash", hash)
	}
	if !strings.HasPrefix(hash, "$6$") {
		return errors.New("--check: only SHA-512 ($6$) hashes can be verified")
	}

	password, err := prompter.Prompt("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := secret.Verify(hash, password); err != nil {
		return errors.New("password does not match hash")
	}

	color.Green("✓ Password matches")
	return nil
}
