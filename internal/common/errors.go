// Package common defines shared constants and sentinel errors used across
// the grievance desk components. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Credential errors.
	ErrDuplicateUsername = errors.New("username already exists")

	// Ledger errors.
	ErrUnknownDepartment = errors.New("unknown department")
)
