// Package pkgmanager picks the Node.js package manager for a project
// directory from the lockfile it contains.
package pkgmanager

import (
	"fmt"
	"os"
	"path/filepath"
)

// Manager is a supported package manager executable.
type Manager string

const (
	NPM  Manager = "npm"
	Yarn Manager = "yarn"
	PNPM Manager = "pnpm"
)

// lockfiles is checked in order; the first hit wins.
var lockfiles = []struct {
	name    string
	manager Manager
}{
	{"package-lock.json", NPM},
	{"yarn.lock", Yarn},
	{"pnpm-lock.yaml", PNPM},
}

// Detect returns the package manager implied by the lockfiles in dir,
// defaulting to npm.
func Detect(dir string) Manager {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.name)); err == nil {
			return lf.manager
		}
	}
	return NPM
}

// Parse validates a configured package manager name.
func Parse(s string) (Manager, error) {
	switch m := Manager(s); m {
	case NPM, Yarn, PNPM:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported package manager %q: must be npm, yarn, or pnpm", s)
	}
}

// Resolve returns the configured override when set, else Detect(dir).
func Resolve(dir, override string) (Manager, error) {
	if override == "" {
		return Detect(dir), nil
	}
	return Parse(override)
}
