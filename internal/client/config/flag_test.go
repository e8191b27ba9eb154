package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://10.0.0.1:8053", "-t", "30", "-d", "s.db", "-l", "debug", "-o", "out"},
			expected: &Config{BaseURL: "http://10.0.0.1:8053", RequestTimeout: 30 * time.Second, SessionDB: "s.db", LogLevel: "debug", DownloadDir: "out"}},
		{name: "config flag ignored", args: []string{"cmd", "-c", "cfg.json", "-a", "http://h"},
			expected: &Config{BaseURL: "http://h"}},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
