package clidetect

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"sessiond/internal/common/fsutil"
	"sessiond/pkg/types"
)

// ErrNotFound is returned when no CLI binary can be located.
var ErrNotFound = errors.New("claude CLI not found: please install it first")

// systemBinDirs lists system-wide install locations probed after the
// per-user ones. A variable so tests can isolate lookup from the host.
var systemBinDirs = []string{"/usr/local/bin", "/opt/homebrew/bin"}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "claude.exe"
	}
	return "claude"
}

// FindCLI locates the assistant CLI binary: system lookup first
// (which/where), then well-known install locations.
func FindCLI() (string, error) {
	name := binaryName()
	if p := whichBinary(name); p != "" {
		return p, nil
	}
	for _, candidate := range knownPaths(name) {
		if fsutil.PathExists(candidate) {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}

// Discover probes for installed CLIs and reports path and version.
func Discover() []types.CLIInstallation {
	installations := []types.CLIInstallation{}
	if path, err := FindCLI(); err == nil {
		installations = append(installations, types.CLIInstallation{
			Path:    path,
			Version: cliVersion(path),
			CLIType: "claude",
		})
	}
	return installations
}

// whichBinary shells out to which (or where on Windows) and returns the
// first reported path.
func whichBinary(name string) string {
	tool := "which"
	if runtime.GOOS == "windows" {
		tool = "where"
	}
	out, err := exec.Command(tool, name).Output()
	if err != nil {
		return ""
	}
	// where may return multiple lines; take the first
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// knownPaths lists install locations used by common package managers.
func knownPaths(name string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		if runtime.GOOS == "windows" {
			paths = append(paths, filepath.Join(home, "AppData", "Roaming", "npm", name))
		} else {
			paths = append(paths, filepath.Join(home, ".npm-global", "bin", name))
		}
		// nvm keeps one bin dir per node version
		nvmDir := filepath.Join(home, ".nvm", "versions", "node")
		if entries, err := os.ReadDir(nvmDir); err == nil {
			for _, e := range entries {
				paths = append(paths, filepath.Join(nvmDir, e.Name(), "bin", name))
			}
		}
		paths = append(paths,
			filepath.Join(home, ".local", "bin", name),
			filepath.Join(home, ".bun", "bin", name),
		)
	}
	if runtime.GOOS != "windows" {
		for _, dir := range systemBinDirs {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// cliVersion runs `<bin> --version` and returns the trimmed output, or
// empty when the probe fails.
func cliVersion(path string) string {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
