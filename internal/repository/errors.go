// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as services and handlers to distinguish between different
// failure scenarios without inspecting driver error strings. For
// example, ErrSessionNotFound maps to an HTTP 404 while
// ErrVersionConflict tells the penalty service that its optimistic
// update lost the race and should be retried with a fresh read.
package repository

import "errors"

// ErrUserNotFound is returned when a referenced user row does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrUserNotFound = errors.New("user not found")

// ErrSessionNotFound is returned when no matching enforcement
// session exists (wrong id, wrong owner, or superseded when an
// active session was required).
var ErrSessionNotFound = errors.New("session not found")

// ErrEmailExists is returned when registration collides with an
// existing email address.
var ErrEmailExists = errors.New("email already exists")

// ErrVersionConflict is returned when a conditional session update
// matched zero rows because another writer bumped the version first.
// Callers re-read the session and retry the whole computation.
var ErrVersionConflict = errors.New("session version conflict")
