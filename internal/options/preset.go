package options

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed presets.yaml
var rawPresets []byte

// Preset is a named bundle of option defaults.
type Preset struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Type        ProjectType  `yaml:"type"`
	CSS         CSSFramework `yaml:"css"`
	Redux       bool         `yaml:"redux"`
	Lottie      bool         `yaml:"lottie"`
	DB          Database     `yaml:"db"`
	Favicon     Favicon      `yaml:"favicon"`
}

// Expansion returns the flags the preset sets, in a stable order, for display.
func (p Preset) Expansion() []string {
	var out []string
	if p.Type != "" {
		out = append(out, "--type "+string(p.Type))
	}
	if p.CSS != "" {
		out = append(out, "--css "+string(p.CSS))
	}
	if p.Redux {
		out = append(out, "--redux")
	}
	if p.Lottie {
		out = append(out, "--lottie")
	}
	if p.DB != "" {
		out = append(out, "--db "+string(p.DB))
	}
	if p.Favicon != "" {
		out = append(out, "--favicon "+string(p.Favicon))
	}
	return out
}

// UnknownPresetError is returned for a --preset value not in the catalogue.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q (available: %s)", e.Name, strings.Join(PresetNames(), ", "))
}

var (
	presetsOnce sync.Once
	presets     map[string]Preset
	presetsErr  error
)

func loadPresets() (map[string]Preset, error) {
	presetsOnce.Do(func() {
		var doc struct {
			Presets []Preset `yaml:"presets"`
		}
		if err := yaml.Unmarshal(rawPresets, &doc); err != nil {
			presetsErr = fmt.Errorf("parsing preset catalogue: %w", err)
			return
		}
		presets = make(map[string]Preset, len(doc.Presets))
		for _, p := range doc.Presets {
			presets[p.Name] = p
		}
	})
	return presets, presetsErr
}

// Presets returns the catalogue sorted by name.
func Presets() ([]Preset, error) {
	m, err := loadPresets()
	if err != nil {
		return nil, err
	}
	out := make([]Preset, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PresetNames returns the sorted preset names.
func PresetNames() []string {
	list, _ := Presets()
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}

// LookupPreset returns the named preset or an *UnknownPresetError.
func LookupPreset(name string) (Preset, error) {
	m, err := loadPresets()
	if err != nil {
		return Preset{}, err
	}
	p, ok := m[name]
	if !ok {
		return Preset{}, &UnknownPresetError{Name: name}
	}
	return p, nil
}

// ApplyPreset expands o.Preset into o. A field is only filled when explicit
// reports that its flag was not given on the command line; explicit may be nil,
// in which case only zero-valued fields are filled.
func ApplyPreset(o *Options, explicit func(flag string) bool) error {
	if o.Preset == "" {
		return nil
	}
	p, err := LookupPreset(o.Preset)
	if err != nil {
		return err
	}

	given := func(flag string, zero bool) bool {
		if explicit != nil && explicit(flag) {
			return true
		}
		return !zero
	}

	if p.Type != "" && !given(FlagType, o.Type == "") {
		o.Type = p.Type
	}
	if p.CSS != "" && !given(FlagCSS, o.CSS == "") {
		o.CSS = p.CSS
	}
	if p.Redux && !given(FlagRedux, !o.Redux) {
		o.Redux = true
	}
	if p.Lottie && !given(FlagLottie, !o.Lottie) {
		o.Lottie = true
	}
	if p.DB != "" && !given(FlagDB, o.DB == "") {
		o.DB = p.DB
	}
	if p.Favicon != "" && !given(FlagFavicon, o.Favicon == "") {
		o.Favicon = p.Favicon
	}
	return nil
}
