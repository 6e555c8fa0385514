package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id, so rows created later sort later
// on their primary key.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
