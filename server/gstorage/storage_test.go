package gstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	testCases := []struct {
		prefix   string
		filePath string
		expected string
	}{
		{"rolodex-dev", "/home/me/.rolodex/db/rolodex.db", "rolodex-dev/rolodex.db"},
		{"", "/tmp/rolodex.db", "rolodex.db"},
		{"backups/prod/", "rolodex.db", "backups/prod/rolodex.db"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, ObjectName(tc.prefix, tc.filePath))
		})
	}
}
