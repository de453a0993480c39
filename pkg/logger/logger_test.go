package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// unsetAppEnv clears APP_ENV for the test and restores it afterwards.
func unsetAppEnv(t *testing.T) {
	t.Helper()

	t.Setenv("APP_ENV", "")
	require.NoError(t, os.Unsetenv("APP_ENV"))
}

func TestNewAppLogger(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantDebug bool
	}{
		{"unset", "", true},
		{"local", " Local ", true},
		{"production", "production", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("APP_ENV", tt.env)

			l, err := NewAppLogger()
			require.NoError(t, err)

			assert.Equal(t, tt.wantDebug, l.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestNewAppLoggerReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=production\n"), 0o600))
	t.Chdir(dir)
	unsetAppEnv(t)

	l, err := NewAppLogger()
	require.NoError(t, err)

	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}
