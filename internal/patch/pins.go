package patch

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/manifest"
)

// pin is a dependency and the minimum range a feature needs.
type pin struct {
	section string
	name    string
	version string
}

var (
	tailwindPins = []pin{
		{manifest.DevDependencies, "tailwindcss", "^4.0.0"},
		{manifest.DevDependencies, "postcss", "^8.0.0"},
		{manifest.DevDependencies, "autoprefixer", "^10.0.0"},
	}
	bulmaPins = []pin{
		{manifest.Dependencies, "bulma", "^0.9.0"},
	}
	reduxPins = []pin{
		{manifest.Dependencies, "@reduxjs/toolkit", "^2.11.2"},
		{manifest.Dependencies, "react-redux", "^9.1.2"},
	}
	sequelizePins = []pin{
		{manifest.Dependencies, "sequelize", "^6.32.1"},
		{manifest.Dependencies, "sqlite3", "^5.1.6"},
		{manifest.DevDependencies, "ts-node", "^10.9.1"},
	}
	lottiePins = []pin{
		{manifest.Dependencies, "lottie-react", "^2.4.0"},
	}
)

// ensureMinimum writes p unless the manifest already pins the dependency at
// the same or a higher lower bound. Ranges it cannot read (tags, URLs,
// workspace protocols) are left alone. It reports whether it wrote.
func ensureMinimum(m *manifest.Manifest, p pin) (bool, error) {
	existing, ok := m.Get(p.section, p.name)
	if !ok {
		return true, m.Put(p.section, p.name, p.version)
	}
	have, err := lowerBound(existing)
	if err != nil {
		return false, nil
	}
	want, err := lowerBound(p.version)
	if err != nil {
		return false, nil
	}
	if !have.LessThan(want) {
		return false, nil
	}
	return true, m.Put(p.section, p.name, p.version)
}

// ensurePresent writes p only when the dependency is missing.
func ensurePresent(m *manifest.Manifest, p pin) (bool, error) {
	return m.PutIfAbsent(p.section, p.name, p.version)
}

// lowerBound extracts the smallest version a simple npm range admits,
// e.g. "^6.32.1" → 6.32.1, ">=4 <5" → 4.0.0.
func lowerBound(rng string) (*semver.Version, error) {
	rng = strings.TrimSpace(rng)
	if i := strings.IndexAny(rng, " |"); i >= 0 {
		rng = rng[:i]
	}
	rng = strings.TrimLeft(rng, "^~>=v")
	return semver.NewVersion(rng)
}
