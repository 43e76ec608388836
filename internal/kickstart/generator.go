package kickstart

import (
	"bytes"
	"fmt"
	"text/template"
)

// Config is the full set of option groups for one document.
type Config struct {
	// TextMode selects "text" instead of "graphical" installation.
	TextMode bool
	Network  Network
	System   System
	Root     RootCredential
	Storage  Storage
	User     UserCredential
}

const documentTemplate = `{{.InstallMode}}
eula --agreed
repo --name="AppStream" --baseurl=file:///run/install/sources/mount-0000-cdrom/AppStream
reboot

%addon com_redhat_kdump --enable --reserve-mb='auto'

%end

# Keyboard layouts
{{.Keyboard}}
# System language
{{.Language}}

# Network information
{{.Network}}

# Use CDROM installation media
cdrom

%packages
{{.Packages}}

%end

# Run the Setup Agent on first boot
firstboot --enable

# Disk
{{.Storage}}

# System timezone
{{.Timezone}}

#Root password
{{.Root}}
{{.User}}

shutdown
`

var document = template.Must(template.New("kickstart").Parse(documentTemplate))

type documentData struct {
	InstallMode string
	Keyboard    string
	Language    string
	Network     string
	Packages    string
	Storage     string
	Timezone    string
	Root        string
	User        string
}

// Generate renders the complete kickstart document.
//
// The root-lock rules are checked first, in order: a locked root requires a
// user, and that user must be in WheelGroup. Only the first violation is
// reported. secrets is only consulted for Interactive modes and may be nil
// otherwise.
func Generate(cfg Config, secrets SecretSource) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	root, err := cfg.Root.Generate(secrets)
	if err != nil {
		return "", err
	}

	user, err := cfg.User.Generate(secrets)
	if err != nil {
		return "", err
	}

	installMode := "graphical"
	if cfg.TextMode {
		installMode = "text"
	}

	data := documentData{
		InstallMode: installMode,
		Keyboard:    cfg.System.KeyboardLine(),
		Language:    cfg.System.LanguageLine(),
		Network:     cfg.Network.Generate(),
		Packages:    cfg.System.Generate(),
		Storage:     cfg.Storage.Generate(),
		Timezone:    cfg.System.TimezoneLine(),
		Root:        root,
		User:        user,
	}

	var buf bytes.Buffer
	if err := document.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render kickstart: %w", err)
	}
	return buf.String(), nil
}

// Validate reports the first credential rule cfg breaks, without prompting:
// the root-lock rules, then a root mode, then a usable mode for a named user.
func (c Config) Validate() error {
	if err := checkRootLock(c.Root, c.User); err != nil {
		return err
	}
	if c.Root.Mode == nil {
		return fmt.Errorf("root %w", ErrCredentialNotSet)
	}
	if !c.User.Present() {
		return nil
	}
	switch c.User.Mode.(type) {
	case nil:
		return fmt.Errorf("user %s: %w", c.User.Username, ErrCredentialNotSet)
	case Locked:
		return fmt.Errorf("user %s: %w", c.User.Username, ErrLockedUserCredential)
	}
	return nil
}

func checkRootLock(root RootCredential, user UserCredential) error {
	if !root.IsLocked() {
		return nil
	}
	if !user.Present() {
		return ErrRootLockedWithoutUser
	}
	if !user.InGroup(WheelGroup) {
		return ErrRootLockedWithoutWheelGroup
	}
	return nil
}
