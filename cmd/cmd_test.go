package cmd

import (
	"bytes"
	"testing"

	"github.com/huangsam/greenscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "optimize", "detect", "impact", "check", "train", "history", "models", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := func(parent string) []string {
		for _, c := range rootCmd.Commands() {
			if c.Name() == parent {
				var out []string
				for _, s := range c.Commands() {
					out = append(out, s.Name())
				}
				return out
			}
		}
		return nil
	}
	assert.ElementsMatch(t, []string{"list", "status", "export", "clear", "migrate"}, sub("history"))
	assert.ElementsMatch(t, []string{"list", "status", "clear", "migrate"}, sub("models"))
}

func TestFlagDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"region", "usa"},
		{"output", "text"},
		{"history-backend", "sqlite"},
		{"model-backend", "sqlite"},
		{"energy-model", "heuristic"},
		{"log-level", "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}

	assert.Equal(t, "60", checkCmd.Flags().Lookup("min-score").DefValue)
	assert.Equal(t, "25", historyListCmd.Flags().Lookup("limit").DefValue)
	assert.Equal(t, "-1", historyMigrateCmd.Flags().Lookup("target-version").DefValue)
	assert.Equal(t, "-1", modelsMigrateCmd.Flags().Lookup("target-version").DefValue)
}

func TestSqlitePath(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		want    string
	}{
		{"sqlite default", schema.SQLiteBackend, "", "/home/x/.db"},
		{"sqlite custom", schema.SQLiteBackend, "/tmp/h.db", "/tmp/h.db"},
		{"mysql ignored", schema.MySQLBackend, "u:p@tcp(h:1)/db", ""},
		{"none", schema.NoneBackend, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlitePath(tt.backend, tt.connStr, "/home/x/.db"))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute())
	assert.Contains(t, buf.String(), "greenscore CLI")
	assert.Contains(t, buf.String(), "Languages: python")
	assert.Contains(t, buf.String(), "Regions:   usa, europe, asia, world")
}
