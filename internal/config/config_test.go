package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("log-level", "", "")
	fs.String("log-file", "", "")
	return fs
}

func TestReadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Read("", flagSet())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(Dir(), "logs.db"), cfg.DB)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Empty(t, cfg.LogFile)
}

func TestReadPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "cslogstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /from/file.db\nlog_level: info\nlog_file: /tmp/x.log\n"), 0o600))

	t.Setenv("CSLOGSTATS_LOG_LEVEL", "debug")

	fs := flagSet()
	require.NoError(t, fs.Parse([]string{"--db", "/from/flag.db"}))

	cfg, err := Read(path, fs)
	require.NoError(t, err)
	require.Equal(t, "/from/flag.db", cfg.DB)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "/tmp/x.log", cfg.LogFile)
}

func TestReadMissingExplicitFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}
