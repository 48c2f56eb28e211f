package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthy(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{" Yes ", true},
		{"y", true},
		{"0", false},
		{"no", false},
		{"", false},
		{"maybe", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsTruthy(tc.value))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"One", "Two"}, SplitList(" One, ,Two,"))
	assert.Equal(t, []string{}, SplitList(""))
}

func TestCreateDirIfNotExist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")

	assert.False(t, FileExist(dir))
	assert.Nil(t, CreateDirIfNotExist(dir))
	assert.True(t, FileExist(dir))
	assert.Nil(t, CreateDirIfNotExist(dir), "Existing dir is not an error")
}
