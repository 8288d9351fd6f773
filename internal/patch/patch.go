package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/girijashankarj/garry-ocd-boilerplate/internal/answers"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/manifest"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/templates"
	"github.com/gosimple/slug"
)

// Paths written by feature steps, relative to the project root.
const (
	StylesheetPath     = "src/styles.css"
	TailwindConfigPath = "tailwind.config.cjs"
	PostCSSConfigPath  = "postcss.config.cjs"
	StorePath          = "src/store/index.ts"
	FaviconPath        = "public/favicon.svg"
	FlaticonPath       = "public/favicon-flaticon.svg"
)

const (
	tailwindConfig = "module.exports = { content: ['./src/**/*.{html,js,ts,tsx}'], theme: { extend: {} }, plugins: [] }\n"
	postcssConfig  = "module.exports = { plugins: { tailwindcss: {}, autoprefixer: {} } }\n"
	tailwindHeader = "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n\n"
	bulmaHeader    = "@import 'bulma/css/bulma.css';\n\n"
	storeSource    = "import { configureStore } from '@reduxjs/toolkit';\n\nexport default configureStore({ reducer: {} });\n"

	dbSyncScript = "ts-node ./scripts/db/sync.ts"
	dbSeedScript = "ts-node ./scripts/db/seed.ts"
)

// Result lists what a patch touched.
type Result struct {
	// Files are slash-separated paths relative to the project root.
	Files    []string
	Warnings []string
	Manifest *manifest.Manifest
}

func (r *Result) touched(rel string) {
	for _, f := range r.Files {
		if f == rel {
			return
		}
	}
	r.Files = append(r.Files, rel)
}

// Patcher applies identity and feature changes to a copied template.
type Patcher struct {
	// Templates supplies alternate assets such as the flaticon favicon.
	Templates *templates.Source
	// SelfName is the generator's own npm package, removed from every dependency section.
	SelfName string
}

// Patch edits targetDir/package.json for a and o. A project without a
// package.json is left as is. A malformed package.json is a *manifest.ParseError.
func (p *Patcher) Patch(targetDir string, a answers.Answers, o options.Options) (*Result, error) {
	result := &Result{}
	pkgPath := filepath.Join(targetDir, manifest.FileName)
	if _, err := os.Stat(pkgPath); errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}

	m, err := manifest.Load(pkgPath)
	if err != nil {
		return nil, err
	}
	result.Manifest = m

	if err := stampIdentity(m, a); err != nil {
		return nil, err
	}
	if err := p.removeSelf(m); err != nil {
		return nil, err
	}

	pc := &patchContext{
		dir:      targetDir,
		template: templates.NameFor(a.Type),
		source:   p.Templates,
		m:        m,
		result:   result,
	}
	for _, step := range featureSteps(o) {
		if err := step(pc); err != nil {
			return nil, err
		}
	}

	if err := m.Save(pkgPath); err != nil {
		return nil, err
	}
	result.touched(manifest.FileName)

	validation, err := manifest.ValidateManifest(m)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate %s: %v", manifest.FileName, err))
	} else if !validation.Valid {
		for _, issue := range validation.Issues {
			msg := manifest.FileName + " " + issue.String()
			if issue.Path == "/name" {
				if suggestion := slug.Make(a.Name); suggestion != "" && suggestion != a.Name {
					msg += fmt.Sprintf(" (try %q)", suggestion)
				}
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}

func stampIdentity(m *manifest.Manifest, a answers.Answers) error {
	if err := m.SetName(a.Name); err != nil {
		return err
	}
	if err := m.SetPrivate(true); err != nil {
		return err
	}
	if a.Module != "" {
		if err := m.SetType(a.Module.PackageType()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Patcher) removeSelf(m *manifest.Manifest) error {
	if p.SelfName == "" {
		return nil
	}
	for _, section := range []string{manifest.Dependencies, manifest.DevDependencies} {
		if _, err := m.Remove(section, p.SelfName); err != nil {
			return err
		}
	}
	return nil
}

// patchContext is the state shared by feature steps.
type patchContext struct {
	dir      string
	template string
	source   *templates.Source
	m        *manifest.Manifest
	result   *Result
}

type step func(*patchContext) error

// featureSteps returns the steps o asks for, in application order.
func featureSteps(o options.Options) []step {
	if !o.HasFeatures() {
		return nil
	}
	var steps []step
	switch o.CSS {
	case options.CSSTailwind:
		steps = append(steps, applyTailwind)
	case options.CSSBulma:
		steps = append(steps, applyBulma)
	}
	if o.Redux {
		steps = append(steps, applyRedux)
	}
	if o.DB == options.DBSequelize {
		steps = append(steps, applySequelize)
	}
	if o.Favicon == options.FaviconFlaticon {
		steps = append(steps, applyFlaticon)
	}
	if o.Lottie {
		steps = append(steps, applyLottie)
	}
	return steps
}

func applyTailwind(pc *patchContext) error {
	if err := pc.pins(tailwindPins, ensureMinimum); err != nil {
		return err
	}
	if err := pc.writeIfAbsent(TailwindConfigPath, tailwindConfig); err != nil {
		return err
	}
	if err := pc.writeIfAbsent(PostCSSConfigPath, postcssConfig); err != nil {
		return err
	}
	return pc.prependStylesheet(tailwindHeader)
}

func applyBulma(pc *patchContext) error {
	if err := pc.pins(bulmaPins, ensureMinimum); err != nil {
		return err
	}
	return pc.prependStylesheet(bulmaHeader)
}

func applyRedux(pc *patchContext) error {
	if err := pc.pins(reduxPins, ensureMinimum); err != nil {
		return err
	}
	return pc.writeIfAbsent(StorePath, storeSource)
}

func applySequelize(pc *patchContext) error {
	if err := pc.pins(sequelizePins, ensurePresent); err != nil {
		return err
	}
	if _, err := pc.m.PutIfAbsent(manifest.Scripts, "db:sync", dbSyncScript); err != nil {
		return err
	}
	if _, err := pc.m.PutIfAbsent(manifest.Scripts, "db:seed", dbSeedScript); err != nil {
		return err
	}
	return nil
}

func applyFlaticon(pc *patchContext) error {
	if pc.source == nil || !pc.source.Exists(pc.template, FlaticonPath) {
		pc.result.Warnings = append(pc.result.Warnings,
			fmt.Sprintf("--favicon flaticon: %s has no %s, keeping the default favicon", pc.template, FlaticonPath))
		return nil
	}
	data, err := pc.source.ReadFile(pc.template, FlaticonPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", FlaticonPath, err)
	}
	return pc.write(FaviconPath, data)
}

func applyLottie(pc *patchContext) error {
	return pc.pins(lottiePins, ensureMinimum)
}

func (pc *patchContext) pins(list []pin, merge func(*manifest.Manifest, pin) (bool, error)) error {
	for _, p := range list {
		if _, err := merge(pc.m, p); err != nil {
			return fmt.Errorf("adding %s: %w", p.name, err)
		}
	}
	return nil
}

func (pc *patchContext) abs(rel string) string {
	return filepath.Join(pc.dir, filepath.FromSlash(rel))
}

func (pc *patchContext) write(rel string, data []byte) error {
	path := pc.abs(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	pc.result.touched(rel)
	return nil
}

func (pc *patchContext) writeIfAbsent(rel, content string) error {
	if _, err := os.Stat(pc.abs(rel)); err == nil {
		return nil
	}
	return pc.write(rel, []byte(content))
}

// prependStylesheet puts header in front of the existing stylesheet, once.
// A project without the stylesheet is left alone.
func (pc *patchContext) prependStylesheet(header string) error {
	existing, err := os.ReadFile(pc.abs(StylesheetPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", StylesheetPath, err)
	}
	if strings.HasPrefix(string(existing), header) {
		return nil
	}
	return pc.write(StylesheetPath, append([]byte(header), existing...))
}
