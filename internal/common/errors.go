// Package common defines shared constants and sentinel errors used across
// the storage, sync and CLI layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Sync-level errors.
	ErrOffline        = errors.New("offline")
	ErrSyncInProgress = errors.New("sync already in progress")

	// Auth errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid token")
)
