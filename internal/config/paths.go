package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var windowsEnvVar = regexp.MustCompile(`%([^%]+)%`)

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references are expanded as well.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = windowsEnvVar.ReplaceAllStringFunc(p, func(ref string) string {
			if v, ok := os.LookupEnv(ref[1 : len(ref)-1]); ok {
				return v
			}
			return ref
		})
	}
	return expandHome(p)
}

func expandHome(p string) string {
	homeRelative := p == "~" || strings.HasPrefix(p, "~/") ||
		(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`))
	if !homeRelative {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
