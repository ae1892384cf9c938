// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cerr defines the distinct, tagged error kinds the consensus
// packages return. Every rule violation is a RuleError carrying an
// ErrorCode, never a bare string, so callers can switch on the code
// instead of matching message text.
package cerr

import "fmt"

// ErrorCode identifies a kind of rule violation.
type ErrorCode int

const (
	// ErrConflictingCheckpoint indicates an attempt to pin a height that
	// already has a different hash pinned.
	ErrConflictingCheckpoint ErrorCode = iota

	// ErrCheckpointMismatch indicates a candidate block hash does not
	// match the hash pinned at its height.
	ErrCheckpointMismatch

	// ErrBlockTooLarge indicates a block exceeds twice the full reward
	// zone and must be rejected outright rather than penalized.
	ErrBlockTooLarge

	// ErrInvalidHexHash indicates a checkpoint hex hash failed to parse.
	// It is always recovered locally; it never surfaces from a loader.
	ErrInvalidHexHash

	// ErrInvalidDNSRecord indicates a DNS TXT checkpoint record failed to
	// parse. It is always recovered locally.
	ErrInvalidDNSRecord
)

var errorCodeStrings = map[ErrorCode]string{
	ErrConflictingCheckpoint: "ErrConflictingCheckpoint",
	ErrCheckpointMismatch:    "ErrCheckpointMismatch",
	ErrBlockTooLarge:         "ErrBlockTooLarge",
	ErrInvalidHexHash:        "ErrInvalidHexHash",
	ErrInvalidDNSRecord:      "ErrInvalidDNSRecord",
}

// String returns the ErrorCode in human-readable form.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation along with a human-readable
// description of why.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// New creates a RuleError given a set of arguments.
func New(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// Is reports whether err is a RuleError with the given code, so callers
// can use errors.Is-style checks without depending on the exact message.
func Is(err error, code ErrorCode) bool {
	re, ok := err.(RuleError)
	return ok && re.ErrorCode == code
}
