package helpers

import "github.com/google/uuid"

// Generate returns a new unique identifier
func Generate() string {
	return uuid.NewString()
}
