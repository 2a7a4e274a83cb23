package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code1, err := GenerateCode(8)
	require.NoError(t, err)
	code2, err := GenerateCode(8)
	require.NoError(t, err)

	assert.Len(t, code1, 16) // hex doubles the byte count
	assert.NotEqual(t, code1, code2)
	assert.Equal(t, strings.ToUpper(code1), code1)
}
