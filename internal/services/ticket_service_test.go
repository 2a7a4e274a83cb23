package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSeats(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		offset   int
		expected []string
	}{
		{"From scratch", 3, 0, []string{"1", "2", "3"}},
		{"With offset", 5, 10, []string{"11", "12", "13", "14", "15"}},
		{"Single seat", 1, 99, []string{"100"}},
		{"Zero count", 0, 7, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSeats(tt.count, tt.offset))
		})
	}
}
