package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the base directory used for relative runtime paths.
const EnvHome = "ZIVANA_HOME"

// BaseDir returns the directory relative runtime paths are resolved against:
// $ZIVANA_HOME when set, otherwise the directory of the running executable.
func BaseDir() string {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return filepath.Clean(home)
	}
	exe, err := os.Executable()
	if err == nil && strings.TrimSpace(exe) != "" {
		if resolved, resolveErr := filepath.EvalSymlinks(exe); resolveErr == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, wdErr := os.Getwd(); wdErr == nil && wd != "" {
		return wd
	}
	return "."
}

// ResolveRuntimePath resolves a configured directory against BaseDir.
func ResolveRuntimePath(raw string, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = fallbackSubdir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(BaseDir(), target)
}
