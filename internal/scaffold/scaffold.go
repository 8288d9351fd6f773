package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/answers"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/confirm"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/patch"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/pkgmanager"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/process"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/prompt"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/templates"
	"github.com/sirupsen/logrus"
)

// InstallQuestion is asked after patching in interactive runs.
const InstallQuestion = "Run npm install and tests now?"

// Pipeline stages, logged at debug level.
const (
	StageArgsParsed      = "ARGS_PARSED"
	StageAnswersResolved = "ANSWERS_RESOLVED"
	StageConfirmed       = "CONFIRMED"
	StageCopied          = "COPIED"
	StageManifestPatched = "MANIFEST_PATCHED"
	StageInstallDecision = "INSTALL_DECISION"
	StageDone            = "DONE"
)

// ErrAborted is returned when the user declines the confirmation prompt.
// It is a clean exit, not a failure.
var ErrAborted = errors.New("aborted by user")

// TargetExistsError is returned when the destination already exists.
type TargetExistsError struct {
	Path string
}

func (e *TargetExistsError) Error() string {
	return "Target directory already exists: " + e.Path
}

// Result describes a completed scaffold.
type Result struct {
	TargetDir string
	Template  string
	Answers   answers.Answers
	// Copied and Patched are slash-separated paths relative to TargetDir.
	Copied   []string
	Patched  []string
	Warnings []string

	PackageManager pkgmanager.Manager
	Installed      bool
	Tested         bool
}

// Pipeline holds the collaborators of a scaffold run. Cwd and the
// configuration values are inputs rather than read from the process so
// runs can be reproduced in tests.
type Pipeline struct {
	Templates *templates.Source
	Prompter  prompt.Prompter
	Runner    process.Runner
	Stdout    io.Writer
	Stderr    io.Writer
	Log       *logrus.Logger

	// Cwd anchors relative target paths.
	Cwd string
	// SelfName is stripped from the generated dependency lists.
	SelfName string
	// PackageManager overrides lockfile detection when set.
	PackageManager string
	// DefaultModule applies to non-interactive runs without --module.
	DefaultModule options.ModuleSystem
}

// Interactive reports whether a run with o prompts for its answers.
func Interactive(o options.Options) bool {
	return !o.NonInteractive && !o.Yes && o.Name == ""
}

// Run scaffolds a project for o. o must already be normalized and have its
// preset applied.
func (p *Pipeline) Run(ctx context.Context, o options.Options) (*Result, error) {
	interactive := Interactive(o)
	p.stage(StageArgsParsed, logrus.Fields{"interactive": interactive, "dry_run": o.DryRun})

	collector := &answers.Collector{
		Prompter:      p.Prompter,
		Cwd:           p.Cwd,
		DefaultModule: p.DefaultModule,
		AskModule:     true,
	}
	a, err := collector.Resolve(interactive, o)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TargetDir: answers.TargetDir(p.Cwd, a),
		Template:  templates.NameFor(a.Type),
		Answers:   a,
	}
	p.stage(StageAnswersResolved, logrus.Fields{"name": a.Name, "type": a.Type, "target": result.TargetDir})

	if _, err := os.Lstat(result.TargetDir); err == nil {
		return nil, &TargetExistsError{Path: result.TargetDir}
	}

	gate := &confirm.Gate{Templates: p.Templates, Prompter: p.Prompter, Out: p.Stdout}
	ok, err := gate.Confirm(result.TargetDir, result.Template, o)
	if err != nil {
		return nil, err
	}
	if !ok {
		color.New(color.FgYellow).Fprintln(p.Stdout, "Aborted by user.")
		return nil, ErrAborted
	}
	p.stage(StageConfirmed, nil)

	color.New(color.FgBlue).Fprint(p.Stdout, "Creating project at: ")
	fmt.Fprintln(p.Stdout, result.TargetDir)

	if result.Copied, err = p.Templates.Copy(result.TargetDir, result.Template); err != nil {
		return result, err
	}
	p.stage(StageCopied, logrus.Fields{"files": len(result.Copied)})

	patcher := &patch.Patcher{Templates: p.Templates, SelfName: p.SelfName}
	patched, err := patcher.Patch(result.TargetDir, a, o)
	if err != nil {
		return result, err
	}
	result.Patched = patched.Files
	for _, w := range patched.Warnings {
		p.warn(result, w)
	}
	p.stage(StageManifestPatched, logrus.Fields{"files": len(result.Patched)})

	steps := &process.Steps{Runner: p.Runner, Out: p.Stdout, Log: p.Log}

	if o.Git {
		if err := steps.GitInit(ctx, result.TargetDir, o.DryRun); err != nil {
			p.warn(result, fmt.Sprintf("git init skipped: %v", err))
		}
	}

	if err := p.installAndTest(ctx, steps, result, o); err != nil {
		return result, err
	}

	p.printNextSteps(result)
	p.stage(StageDone, nil)
	return result, nil
}

// installAndTest runs install and tests with --yes, asks when the run is
// interactive, and otherwise only runs tests if dependencies are already
// installed.
func (p *Pipeline) installAndTest(ctx context.Context, steps *process.Steps, result *Result, o options.Options) error {
	install := o.Yes
	if !install && !o.NonInteractive {
		answer, err := p.Prompter.Confirm(InstallQuestion, true)
		if err != nil {
			return err
		}
		install = answer
	}
	p.stage(StageInstallDecision, logrus.Fields{"install": install})

	if install {
		manager, err := pkgmanager.Resolve(result.TargetDir, p.PackageManager)
		if err != nil {
			return err
		}
		result.PackageManager = manager
		if err := steps.Install(ctx, result.TargetDir, manager, o.DryRun); err != nil {
			return err
		}
		result.Installed = !o.DryRun
		if err := steps.Test(ctx, result.TargetDir, o.DryRun); err != nil {
			return err
		}
		result.Tested = !o.DryRun
		return nil
	}

	if _, err := os.Stat(filepath.Join(result.TargetDir, "node_modules")); err == nil {
		if err := steps.Test(ctx, result.TargetDir, o.DryRun); err != nil {
			return err
		}
		result.Tested = !o.DryRun
	}
	return nil
}

func (p *Pipeline) printNextSteps(result *Result) {
	run := "npm run start"
	if result.Answers.Type == options.TypeFrontend {
		run = "npm run dev"
	}
	color.New(color.FgGreen).Fprintln(p.Stdout, "\n✅ Project scaffolded successfully!")
	color.New(color.FgYellow).Fprintf(p.Stdout, "\nNext steps:\n  cd %s\n  npm install\n  %s\n\n", result.TargetDir, run)
}

func (p *Pipeline) warn(result *Result, msg string) {
	result.Warnings = append(result.Warnings, msg)
	color.New(color.FgYellow).Fprintln(p.Stderr, "warning: "+msg)
}

func (p *Pipeline) stage(name string, fields logrus.Fields) {
	p.Log.WithFields(fields).WithField("stage", name).Debug("scaffold stage")
}
