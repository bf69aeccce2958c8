package handlers

import "github.com/google/uuid"

// validUUID reports whether s is a well-formed UUID. All entity IDs are
// database-generated UUIDs, so malformed path and body ids are rejected at
// the boundary before any query runs.
func validUUID(s string) bool {
	return uuid.Validate(s) == nil
}
