package app

import "github.com/google/uuid"

// newID produces document identifiers. Isolated here so the ID strategy
// can evolve independently.
func newID() string {
	return uuid.NewString()
}
