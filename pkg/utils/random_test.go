package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateSlugSuffix(t *testing.T) {
	length := 6
	suffix := GenerateSlugSuffix(length)

	assert.Equal(t, length, len(suffix))

	// Ensure only charset characters are used
	for _, char := range suffix {
		assert.True(t, strings.ContainsRune(charset, char))
	}
}

func TestGenerateSlugSuffix_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[GenerateSlugSuffix(6)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()

	assert.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}
