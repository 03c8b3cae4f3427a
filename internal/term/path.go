package term

import (
	"context"
	"strings"
)

// PreparePathForShell quotes a filesystem path so it can be typed into the
// given shell verbatim. Paths without special characters pass through
// unchanged.
func PreparePathForShell(path string, shell ShellType) string {
	if path == "" {
		return path
	}
	switch shell {
	case ShellPwsh:
		if !needsQuoting(path) {
			return path
		}
		return "'" + strings.ReplaceAll(path, "'", "''") + "'"
	case ShellCmd:
		if !needsQuoting(path) {
			return path
		}
		return `"` + path + `"`
	default:
		// POSIX shells: sh, bash, zsh, fish.
		if !needsQuoting(path) {
			return path
		}
		return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
	}
}

func needsQuoting(path string) bool {
	return strings.ContainsAny(path, " \t\"'`$&|;()<>#*?![]{}~")
}

// PreparePathForShell exposes path preparation on the service so callers can
// await it like any other operation before sending the result as input.
func (s *Service) PreparePathForShell(ctx context.Context, path string, shell ShellType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return PreparePathForShell(path, shell), nil
}
