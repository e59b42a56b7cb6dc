//go:build integration

// Package integration contains end-to-end tests for the greenscore binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	slowPython = `def total(numbers):
    result = 0
    for i in range(len(numbers)):
        result += numbers[i]
    return result
`
	fastPython = "def total(numbers):\n    return sum(numbers)\n"
	loopJS     = "for (let i = 0; i < items.length; i++) {\n  console.log(items[i]);\n}\n"
)

// isolatedEnv keeps every test away from the user's home databases.
func isolatedEnv(t *testing.T) []string {
	dir := t.TempDir()
	return []string{
		"GREENSCORE_HISTORY_DB_CONNECT=" + filepath.Join(dir, "history.db"),
		"GREENSCORE_MODEL_DB_CONNECT=" + filepath.Join(dir, "models.db"),
	}
}

// TestAnalyzeVerification checks that JSON analysis keeps argument order and
// ranks the builtin version above the index loop.
func TestAnalyzeVerification(t *testing.T) {
	dir := writeSample(t, map[string]string{"slow.py": slowPython, "fast.py": fastPython, "loop.js": loopJS})

	output, err := runCommand(t, dir, isolatedEnv(t), "analyze", "--output", "json", "--history-backend", "none", "slow.py", "fast.py", "loop.js")
	require.NoError(t, err)

	var results []schema.FileAnalysis
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "slow.py", results[0].Path)
	assert.Equal(t, "fast.py", results[1].Path)
	assert.Equal(t, schema.JavaScript, results[2].Result.Language)
	assert.Greater(t, results[1].Result.Metrics.GreenScore, results[0].Result.Metrics.GreenScore)
	assert.NotEmpty(t, results[0].Result.Suggestions)
}

// TestOptimizeVerification checks that optimizing does not lower the green score.
func TestOptimizeVerification(t *testing.T) {
	dir := writeSample(t, map[string]string{"slow.py": slowPython})

	output, err := runCommand(t, dir, isolatedEnv(t), "optimize", "--output", "json", "--history-backend", "none", "slow.py")
	require.NoError(t, err)

	var result schema.OptimizationResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, schema.Python, result.DetectedLanguage)
	assert.GreaterOrEqual(t, result.OptimizedMetrics.GreenScore, result.OriginalMetrics.GreenScore)
}

// TestCheckExitCode verifies the CI contract: exit 0 on pass and 1 on violations.
func TestCheckExitCode(t *testing.T) {
	dir := writeSample(t, map[string]string{"slow.py": slowPython, "fast.py": fastPython})
	env := isolatedEnv(t)

	_, err := runCommand(t, dir, env, "check", "--min-score", "0", "--history-backend", "none", "fast.py")
	require.NoError(t, err)

	output, err := runCommand(t, dir, env, "check", "--min-score", "100", "--history-backend", "none", "slow.py", "fast.py")
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, output, "Policy check failed")
}

// TestHistoryRoundTrip records analyses into SQLite and reads them back.
func TestHistoryRoundTrip(t *testing.T) {
	dir := writeSample(t, map[string]string{"slow.py": slowPython})
	env := isolatedEnv(t)

	_, err := runCommand(t, dir, env, "analyze", "--record", "slow.py")
	require.NoError(t, err)

	output, err := runCommand(t, dir, env, "history", "list", "--output", "csv")
	require.NoError(t, err)
	assert.True(t, strings.Contains(output, "slow.py"), output)

	_, err = runCommand(t, dir, env, "history", "clear")
	require.NoError(t, err)
}

// TestDetectVerification checks detection from file names and stdin content.
func TestDetectVerification(t *testing.T) {
	dir := writeSample(t, map[string]string{"app.js": loopJS, "tool.py": fastPython})

	output, err := runCommand(t, dir, isolatedEnv(t), "detect", "--output", "json", "app.js", "tool.py")
	require.NoError(t, err)

	var detections []schema.Detection
	require.NoError(t, json.Unmarshal([]byte(output), &detections))
	assert.Equal(t, []schema.Detection{
		{Path: "app.js", Language: schema.JavaScript},
		{Path: "tool.py", Language: schema.Python},
	}, detections)
}
