// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the account directory and content repository.
// Handlers map these onto flash messages and HTTP statuses; nothing below
// the handler layer formats user-facing text.
var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when the credentials are correct but
	// the account has been deactivated.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrDuplicateIdentifier is returned when a username or email is
	// already held by another account, active or not.
	ErrDuplicateIdentifier = errors.New("username or email already in use")

	// ErrSelfDeletionForbidden is returned when an operator attempts to
	// delete their own account.
	ErrSelfDeletionForbidden = errors.New("operators cannot delete their own account")

	// ErrNotFound is returned when the referenced account, section or item
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps persistence failures so handlers can
	// distinguish infrastructure trouble from domain rejections.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// storeErr wraps a persistence failure under ErrStoreUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
