package kickstart

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// WheelGroup is the group a user needs for sudo when root is locked.
const WheelGroup = "wheel"

// SecretSource reads a password from the operator and returns its crypt hash.
// Implementations prompt twice and fail if the entries differ.
type SecretSource interface {
	ReadHashed(prompt string) (string, error)
}

// CredentialMode is how an account password is provided. The concrete types
// are Plaintext, PreHashed, Interactive, and Locked.
type CredentialMode interface {
	isCredentialMode()
}

// Plaintext embeds the password as-is.
type Plaintext struct {
	Password string
}

// PreHashed embeds an existing crypt hash.
type PreHashed struct {
	Hash string
}

// Interactive asks the operator for the password at generation time.
type Interactive struct{}

// Locked disables password login. Root only.
type Locked struct{}

func (Plaintext) isCredentialMode()   {}
func (PreHashed) isCredentialMode()   {}
func (Interactive) isCredentialMode() {}
func (Locked) isCredentialMode()      {}

// SelectMode returns the single mode among the selected candidates.
//
// Unselected candidates are passed as nil. It returns (nil, nil) when nothing
// is selected and ErrConflictingCredentialModes when more than one is.
func SelectMode(candidates ...CredentialMode) (CredentialMode, error) {
	selected := lo.Filter(candidates, func(m CredentialMode, _ int) bool { return m != nil })

	switch len(selected) {
	case 0:
		return nil, nil
	case 1:
		return selected[0], nil
	default:
		names := lo.Map(selected, func(m CredentialMode, _ int) string { return modeName(m) })
		return nil, fmt.Errorf("%w: %s", ErrConflictingCredentialModes, strings.Join(names, ", "))
	}
}

func modeName(m CredentialMode) string {
	switch m.(type) {
	case Plaintext:
		return "plaintext"
	case PreHashed:
		return "crypted"
	case Interactive:
		return "keyboard"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("%T", m)
	}
}

// RootCredential renders the rootpw line and an optional root SSH key.
type RootCredential struct {
	Mode   CredentialMode
	SSHKey string
}

// IsLocked reports whether root password login is disabled.
func (r RootCredential) IsLocked() bool {
	_, ok := r.Mode.(Locked)
	return ok
}

// Generate renders the root credential fragment. Interactive mode prompts
// through secrets.
func (r RootCredential) Generate(secrets SecretSource) (string, error) {
	var line string
	switch m := r.Mode.(type) {
	case Plaintext:
		line = "rootpw --plaintext " + m.Password
	case PreHashed:
		line = "rootpw --iscrypted " + m.Hash
	case Interactive:
		hash, err := readHashed(secrets, "Root Password: ")
		if err != nil {
			return "", fmt.Errorf("root password: %w", err)
		}
		line = "rootpw --iscrypted " + hash
	case Locked:
		line = "rootpw --lock"
	default:
		return "", fmt.Errorf("root %w", ErrCredentialNotSet)
	}

	if r.SSHKey != "" {
		line += "\n" + sshKeyLine("root", r.SSHKey)
	}
	return line, nil
}

// UserCredential renders an optional user account. A blank Username renders
// nothing.
type UserCredential struct {
	Username string
	Mode     CredentialMode
	Groups   []string
	UID      *uint32
	GID      *uint32
	SSHKey   string
}

// Present reports whether a user account is configured. A blank Username
// means none.
func (u UserCredential) Present() bool {
	return strings.TrimSpace(u.Username) != ""
}

// InGroup reports whether the user is a member of group.
func (u UserCredential) InGroup(group string) bool {
	return lo.Contains(u.Groups, group)
}

// Generate renders the user fragment. Interactive mode prompts through secrets.
func (u UserCredential) Generate(secrets SecretSource) (string, error) {
	if !u.Present() {
		return "", nil
	}

	var password string
	switch m := u.Mode.(type) {
	case Plaintext:
		password = fmt.Sprintf("--password=%s --plaintext", m.Password)
	case PreHashed:
		password = fmt.Sprintf("--password=%s --iscrypted", m.Hash)
	case Interactive:
		hash, err := readHashed(secrets, "User Password: ")
		if err != nil {
			return "", fmt.Errorf("user password: %w", err)
		}
		password = fmt.Sprintf("--password=%s --iscrypted", hash)
	case Locked:
		return "", fmt.Errorf("user %s: %w", u.Username, ErrLockedUserCredential)
	default:
		return "", fmt.Errorf("user %w", ErrCredentialNotSet)
	}

	parts := []string{"user", "--name=" + u.Username, password}
	if len(u.Groups) > 0 {
		parts = append(parts, "--groups="+strings.Join(u.Groups, ","))
	}
	if u.UID != nil {
		parts = append(parts, fmt.Sprintf("--uid=%d", *u.UID))
	}
	if u.GID != nil {
		parts = append(parts, fmt.Sprintf("--gid=%d", *u.GID))
	}

	line := strings.Join(parts, " ")
	if u.SSHKey != "" {
		line += "\n" + sshKeyLine(u.Username, u.SSHKey)
	}
	return line, nil
}

func sshKeyLine(username, key string) string {
	return fmt.Sprintf("sshkey --username=%s \"%s\"", username, key)
}

func readHashed(secrets SecretSource, prompt string) (string, error) {
	if secrets == nil {
		return "", fmt.Errorf("no secret source available for keyboard entry")
	}
	return secrets.ReadHashed(prompt)
}
