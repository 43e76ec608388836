// Package kickstart renders Anaconda kickstart documents for unattended
// installs.
//
// A document is composed from five option groups, each rendering its own
// fragment:
//   - Network: the network line (DHCP or static)
//   - System: keyboard, language, timezone, and package selection
//   - RootCredential: root password mode and optional SSH key
//   - Storage: a fixed LVM partition layout on one device
//   - UserCredential: an optional administrative user
//
// Generate composes the fragments into the full document in a fixed section
// order and enforces the cross-group rules that keep a machine administrable
// when the root account is locked.
//
// Credential modes are a closed sum type (Plaintext, PreHashed, Interactive,
// Locked). Interactive modes are resolved through a SecretSource, which
// prompts for and hashes a password; every other input renders
// deterministically.
//
// See https://pykickstart.readthedocs.io/en/latest/kickstart-docs.html
package kickstart
