package utils

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSlugSuffix generates a random lowercase alphanumeric string of fixed length
func GenerateSlugSuffix(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}

// GenerateID returns a new random UUID string used as a profile primary key
func GenerateID() string {
	return uuid.NewString()
}
