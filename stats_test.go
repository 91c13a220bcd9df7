package tyrant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStat(t *testing.T) {
	tests := []struct {
		name     string
		blob     string
		expected map[string]string
	}{
		{
			name: "typical status message",
			blob: "pid\t1234\nversion\t1.1.41\nrnum\t100\nsize\t528736\n",
			expected: map[string]string{
				"pid":     "1234",
				"version": "1.1.41",
				"rnum":    "100",
				"size":    "528736",
			},
		},
		{
			name:     "empty blob",
			blob:     "",
			expected: map[string]string{},
		},
		{
			name:     "no trailing newline",
			blob:     "pid\t1",
			expected: map[string]string{"pid": "1"},
		},
		{
			name:     "value containing tabs keeps everything after the first",
			blob:     "path\t/data/db\textra\n",
			expected: map[string]string{"path": "/data/db\textra"},
		},
		{
			name:     "malformed lines are skipped",
			blob:     "loose line\npid\t9\n",
			expected: map[string]string{"pid": "9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStat([]byte(tt.blob)))
		})
	}
}
