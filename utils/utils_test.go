package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(TestDBNameCharLength)
	assert.Len(t, s, TestDBNameCharLength)
	for _, c := range s {
		assert.True(t, c >= 'a' && c <= 'z')
	}
	assert.Equal(t, "", RandomAlphabetString(0))
}
