package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// IsWindowsExecutable reports whether path ends in one of the extensions
// listed in PATHEXT. Such files can be started directly; anything else has
// to go through cmd.exe.
func IsWindowsExecutable(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = defaultPathExt
	}
	for _, candidate := range strings.Split(pathext, ";") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}
