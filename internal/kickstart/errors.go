package kickstart

import "errors"

var (
	// ErrCredentialNotSet is returned when a credential that must render has
	// no password mode.
	ErrCredentialNotSet = errors.New("password is not set")

	// ErrConflictingCredentialModes is returned when more than one password
	// mode is selected for the same account.
	ErrConflictingCredentialModes = errors.New("password modes are mutually exclusive")

	// ErrLockedUserCredential is returned when a user account is given the
	// Locked mode, which only applies to root.
	ErrLockedUserCredential = errors.New("locked mode is only supported for root")

	// ErrRootLockedWithoutUser is returned when root is locked and no user
	// account is created.
	ErrRootLockedWithoutUser = errors.New("root password is locked and user is not set")

	// ErrRootLockedWithoutWheelGroup is returned when root is locked and the
	// user account cannot escalate privileges.
	ErrRootLockedWithoutWheelGroup = errors.New("root password is locked and user is not in wheel group")
)
