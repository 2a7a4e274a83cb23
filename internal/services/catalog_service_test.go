package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamePairing(t *testing.T) {
	tests := []struct {
		name     string
		a        [2]string
		b        [2]string
		expected bool
	}{
		{"Identical ordering", [2]string{"teamA", "teamB"}, [2]string{"teamA", "teamB"}, true},
		{"Reversed ordering", [2]string{"teamA", "teamB"}, [2]string{"teamB", "teamA"}, true},
		{"Shared home only", [2]string{"teamA", "teamB"}, [2]string{"teamA", "teamC"}, false},
		{"Shared away only", [2]string{"teamA", "teamB"}, [2]string{"teamC", "teamB"}, false},
		{"Disjoint teams", [2]string{"teamA", "teamB"}, [2]string{"teamC", "teamD"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, samePairing(tt.a[0], tt.a[1], tt.b[0], tt.b[1]))
		})
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".gif", extensionFor("image/gif"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Empty(t, extensionFor("application/pdf"))
}
