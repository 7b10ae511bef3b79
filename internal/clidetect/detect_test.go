package clidetect

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateLookup points HOME, PATH, and the system-dir probe list at temp
// dirs so a claude binary installed on the host never leaks into a test.
func isolateLookup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("PATH", home)
	orig := systemBinDirs
	systemBinDirs = []string{filepath.Join(home, "sysbin")}
	t.Cleanup(func() { systemBinDirs = orig })
	return home
}

func TestFindCLIKnownPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix script fixture")
	}
	home := isolateLookup(t)

	bin := filepath.Join(home, ".local", "bin", "claude")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0o755))
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho claude 2.1.0\n"), 0o755))

	path, err := FindCLI()
	require.NoError(t, err)
	assert.Equal(t, bin, path)

	installs := Discover()
	require.Len(t, installs, 1)
	assert.Equal(t, bin, installs[0].Path)
	assert.Equal(t, "claude", installs[0].CLIType)
	assert.Equal(t, "claude 2.1.0", installs[0].Version)
}

func TestFindCLIMissing(t *testing.T) {
	isolateLookup(t)

	_, err := FindCLI()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, Discover())
}

func TestFindCLISystemDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix script fixture")
	}
	home := isolateLookup(t)

	bin := filepath.Join(home, "sysbin", "claude")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0o755))
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho claude 2.1.0\n"), 0o755))

	path, err := FindCLI()
	require.NoError(t, err)
	assert.Equal(t, bin, path)
}

func TestCLIVersionFailure(t *testing.T) {
	assert.Equal(t, "", cliVersion(filepath.Join(t.TempDir(), "missing")))
}
