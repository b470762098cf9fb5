// Package entityid is the identifier scheme shared by every persisted record.
//
// Records use canonical UUID strings. IsValid is the cheap shape check applied
// to client-supplied user, address and product ids before any lookup: an id
// that fails it is treated as absent rather than as an error.
package entityid

import "github.com/google/uuid"

const canonicalLength = 36

// New returns a fresh random identifier
func New() string {
	return uuid.NewString()
}

// IsValid reports whether id is a well-formed identifier
func IsValid(id string) bool {
	if len(id) != canonicalLength {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
