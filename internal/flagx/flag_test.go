package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		allowed  []string
		expected []string
	}{
		{
			name:     "separate flag and value",
			args:     []string{"-u", "http://localhost:8000", "-x", "other"},
			allowed:  []string{"-u"},
			expected: []string{"-u", "http://localhost:8000"},
		},
		{
			name:     "combined flag=value",
			args:     []string{"--config=conf.json", "-u", "addr"},
			allowed:  []string{"--config"},
			expected: []string{"--config=conf.json"},
		},
		{
			name:     "flag without value followed by another flag",
			args:     []string{"-v", "-u", "addr"},
			allowed:  []string{"-v"},
			expected: []string{"-v"},
		},
		{
			name:     "nothing allowed",
			args:     []string{"-a", "1", "-b", "2"},
			allowed:  []string{"-z"},
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, tc.allowed)
			require.Equal(t, tc.expected, got)
		})
	}
}
