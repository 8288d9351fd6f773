package options

import (
	"fmt"
	"strings"
)

// ProjectType selects which template tree is copied.
type ProjectType string

const (
	TypeFrontend ProjectType = "frontend"
	TypeBackend  ProjectType = "backend"
)

// ProjectTypes lists the valid project types in prompt order.
var ProjectTypes = []ProjectType{TypeFrontend, TypeBackend}

// ModuleSystem is the JavaScript module system written to package.json "type".
type ModuleSystem string

const (
	ModuleCJS ModuleSystem = "CJS"
	ModuleESM ModuleSystem = "ESM"
)

// ModuleSystems lists the valid module systems in prompt order.
var ModuleSystems = []ModuleSystem{ModuleCJS, ModuleESM}

// PackageType returns the package.json "type" value for the module system.
func (m ModuleSystem) PackageType() string {
	if m == ModuleCJS {
		return "commonjs"
	}
	return "module"
}

// CSSFramework is an optional CSS framework wired into the project.
type CSSFramework string

const (
	CSSTailwind CSSFramework = "tailwind"
	CSSBulma    CSSFramework = "bulma"
)

// Database is an optional ORM wired into the project.
type Database string

const DBSequelize Database = "sequelize"

// Favicon selects an alternate favicon shipped with the template.
type Favicon string

const FaviconFlaticon Favicon = "flaticon"

// Flag names. They double as keys for tracking which options were explicit.
const (
	FlagName           = "name"
	FlagType           = "type"
	FlagModule         = "module"
	FlagPath           = "path"
	FlagNonInteractive = "non-interactive"
	FlagYes            = "yes"
	FlagDryRun         = "dry-run"
	FlagPreset         = "preset"
	FlagCSS            = "css"
	FlagRedux          = "redux"
	FlagDB             = "db"
	FlagFavicon        = "favicon"
	FlagGit            = "git"
	FlagLottie         = "lottie"
	FlagVerbose        = "verbose"
)

// Options is the parsed command line. Zero values mean "not requested".
type Options struct {
	Name   string
	Type   ProjectType
	Module ModuleSystem
	Path   string

	NonInteractive bool
	Yes            bool
	DryRun         bool
	Verbose        bool

	Preset  string
	CSS     CSSFramework
	Redux   bool
	DB      Database
	Favicon Favicon
	Git     bool
	Lottie  bool
}

// InvalidValueError reports a flag value outside its enumerated set.
type InvalidValueError struct {
	Flag    string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for --%s: must be one of %s",
		e.Value, e.Flag, strings.Join(e.Allowed, ", "))
}

// Normalize validates the enumerated fields and canonicalises their case.
// Empty values are left alone; they mean the option was not given.
func (o *Options) Normalize() error {
	o.Name = strings.TrimSpace(o.Name)

	if o.Type != "" {
		t := ProjectType(strings.ToLower(string(o.Type)))
		if t != TypeFrontend && t != TypeBackend {
			return &InvalidValueError{Flag: FlagType, Value: string(o.Type), Allowed: []string{"frontend", "backend"}}
		}
		o.Type = t
	}

	if o.Module != "" {
		m := ModuleSystem(strings.ToUpper(string(o.Module)))
		if m != ModuleCJS && m != ModuleESM {
			return &InvalidValueError{Flag: FlagModule, Value: string(o.Module), Allowed: []string{"CJS", "ESM"}}
		}
		o.Module = m
	}

	if o.CSS != "" {
		c := CSSFramework(strings.ToLower(string(o.CSS)))
		if c != CSSTailwind && c != CSSBulma {
			return &InvalidValueError{Flag: FlagCSS, Value: string(o.CSS), Allowed: []string{"tailwind", "bulma"}}
		}
		o.CSS = c
	}

	if o.DB != "" {
		d := Database(strings.ToLower(string(o.DB)))
		if d != DBSequelize {
			return &InvalidValueError{Flag: FlagDB, Value: string(o.DB), Allowed: []string{"sequelize"}}
		}
		o.DB = d
	}

	if o.Favicon != "" {
		f := Favicon(strings.ToLower(string(o.Favicon)))
		if f != FaviconFlaticon {
			return &InvalidValueError{Flag: FlagFavicon, Value: string(o.Favicon), Allowed: []string{"flaticon"}}
		}
		o.Favicon = f
	}

	return nil
}

// HasFeatures reports whether any project feature flag is set.
func (o *Options) HasFeatures() bool {
	return o.CSS != "" || o.Redux || o.DB != "" || o.Favicon != "" || o.Lottie
}
