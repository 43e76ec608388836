// Package secret reads passwords from the operator and hashes them for
// kickstart documents.
package secret

import (
	"errors"
	"fmt"
)

// ErrMismatch is returned when the confirmation entry differs from the first.
var ErrMismatch = errors.New("passwords do not match")

// ConfirmPrompt is shown for the second entry.
const ConfirmPrompt = "Confirm: "

// Prompter reads one secret after showing prompt. It returns an empty string
// when the operator enters nothing.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Hasher produces a one-way crypt string for a secret.
type Hasher interface {
	Hash(secret string) (string, error)
}

// Provider asks for a secret twice and hashes it when both entries agree.
// It satisfies kickstart.SecretSource.
type Provider struct {
	prompter Prompter
	hasher   Hasher
}

// NewProvider creates a Provider.
func NewProvider(prompter Prompter, hasher Hasher) *Provider {
	return &Provider{
		prompter: prompter,
		hasher:   hasher,
	}
}

// ReadHashed prompts for a secret and its confirmation and returns the hash.
func (p *Provider) ReadHashed(prompt string) (string, error) {
	first, err := p.prompter.Prompt(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	second, err := p.prompter.Prompt(ConfirmPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if first != second {
		return "", ErrMismatch
	}

	hash, err := p.hasher.Hash(first)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
