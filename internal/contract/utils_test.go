package contract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		label string
	}{
		{"poor", 30, "Poor"},
		{"fair", 50, "Fair"},
		{"good", 70, "Good"},
		{"excellent", 90, "Excellent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorLabel(tt.score), tt.label)
		})
	}
}

func TestGetSeverityLabel(t *testing.T) {
	assert.Contains(t, GetSeverityLabel(schema.SeverityHigh), "HIGH")
	assert.Contains(t, GetSeverityLabel(schema.SeverityMedium), "MEDIUM")
	assert.Contains(t, GetSeverityLabel(schema.SeverityLow), "LOW")
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	history := GetHistoryDBFilePath()
	models := GetModelDBFilePath()
	assert.Contains(t, history, ".greenscore_history.db")
	assert.Contains(t, models, ".greenscore_models.db")
	assert.True(t, strings.HasPrefix(history, homeDir), "path %s should start with home dir %s", history, homeDir)
	assert.NotEqual(t, history, models)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "main.py", TruncatePath("main.py", 10))
	assert.Equal(t, "...ile.py", TruncatePath("some/dir/file.py", 9))
	assert.Equal(t, "some/dir/file.py", TruncatePath("some/dir/file.py", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)
	SetLogLevel(logrus.WarnLevel)

	assert.Same(t, Logger(), Logger())
	Logger().Info("hidden")
	LogWarn("Failed to reach carbon API", errors.New("timeout"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Failed to reach carbon API")
	assert.Contains(t, out, "timeout")
}
