package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/girijashankarj/garry-ocd-boilerplate/internal/answers"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/confirm"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/logging"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/manifest"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/process"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/prompt"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/templates"
	"github.com/google/go-cmp/cmp"
)

const selfName = "garry-ocd-boilerplate"

type recordingRunner struct {
	commands []string
	status   int
}

func (r *recordingRunner) Run(_ context.Context, _ string, name string, args ...string) (int, error) {
	r.commands = append(r.commands, strings.Join(append([]string{name}, args...), " "))
	return r.status, nil
}

type harness struct {
	pipeline *Pipeline
	runner   *recordingRunner
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	cwd      string
}

// newHarness builds a pipeline rooted in a temp dir. input feeds the prompts.
func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	h := &harness{
		runner: &recordingRunner{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		cwd:    t.TempDir(),
	}
	h.pipeline = &Pipeline{
		Templates:     templates.Embedded(),
		Prompter:      prompt.NewTerminal(strings.NewReader(input), h.stdout),
		Runner:        h.runner,
		Stdout:        h.stdout,
		Stderr:        h.stderr,
		Log:           logging.Discard(),
		Cwd:           h.cwd,
		SelfName:      selfName,
		DefaultModule: options.ModuleESM,
	}
	return h
}

func (h *harness) manifest(t *testing.T, name string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Load(filepath.Join(h.cwd, name, manifest.FileName))
	if err != nil {
		t.Fatalf("loading generated manifest: %v", err)
	}
	return m
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (stat err: %v)", path, err)
	}
}

func TestRunDryRunNonInteractive(t *testing.T) {
	h := newHarness(t, "")
	o := options.Options{NonInteractive: true, Name: "demo", Type: options.TypeFrontend, Yes: true, DryRun: true}

	res, err := h.pipeline.Run(context.Background(), o)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.TargetDir != filepath.Join(h.cwd, "demo") {
		t.Errorf("TargetDir = %q", res.TargetDir)
	}
	m := h.manifest(t, "demo")
	if m.Name() != "demo" || !m.Private() {
		t.Errorf("manifest name=%q private=%v", m.Name(), m.Private())
	}
	if m.Type() != "module" {
		t.Errorf("type = %q, want module from the default module system", m.Type())
	}
	if len(h.runner.commands) != 0 {
		t.Errorf("dry run spawned %v", h.runner.commands)
	}
	if res.Installed || res.Tested {
		t.Error("dry run should not report install or tests")
	}
	assertNotExists(t, filepath.Join(res.TargetDir, "node_modules"))
	if !strings.Contains(h.stdout.String(), "Skipping install due to --dry-run flag.") {
		t.Errorf("stdout missing dry-run notice:\n%s", h.stdout)
	}
	if !strings.Contains(h.stdout.String(), "npm run dev") {
		t.Errorf("stdout missing next steps:\n%s", h.stdout)
	}
}

func TestRunNeverListsItself(t *testing.T) {
	for _, typ := range options.ProjectTypes {
		t.Run(string(typ), func(t *testing.T) {
			h := newHarness(t, "")
			o := options.Options{NonInteractive: true, Name: "demo", Type: typ, Yes: true, DryRun: true}
			if _, err := h.pipeline.Run(context.Background(), o); err != nil {
				t.Fatal(err)
			}
			m := h.manifest(t, "demo")
			for _, section := range []string{manifest.Dependencies, manifest.DevDependencies} {
				if _, ok := m.Get(section, selfName); ok {
					t.Errorf("%s lists %s", section, selfName)
				}
			}
		})
	}
}

func TestRunExistingTargetIsUntouched(t *testing.T) {
	h := newHarness(t, "")
	target := filepath.Join(h.cwd, "demo")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(target, "keep.txt")
	if err := os.WriteFile(keep, []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}

	o := options.Options{NonInteractive: true, Name: "demo", Type: options.TypeBackend, Yes: true}
	_, err := h.pipeline.Run(context.Background(), o)

	var exists *TargetExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("error = %v, want *TargetExistsError", err)
	}
	entries, _ := os.ReadDir(target)
	if len(entries) != 1 {
		t.Errorf("target has %d entries, want 1", len(entries))
	}
	if data, _ := os.ReadFile(keep); string(data) != "mine" {
		t.Errorf("keep.txt = %q", data)
	}
	if len(h.runner.commands) != 0 {
		t.Errorf("runner called: %v", h.runner.commands)
	}
}

func TestRunMissingNameNonInteractive(t *testing.T) {
	h := newHarness(t, "")
	_, err := h.pipeline.Run(context.Background(), options.Options{NonInteractive: true, Type: options.TypeFrontend})

	var missing *answers.MissingRequiredArgumentError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *answers.MissingRequiredArgumentError", err)
	}
	if !strings.Contains(err.Error(), "--name") || !strings.Contains(err.Error(), "--type") {
		t.Errorf("error %q should name --name and --type", err)
	}
	entries, _ := os.ReadDir(h.cwd)
	if len(entries) != 0 {
		t.Errorf("cwd should stay empty, has %d entries", len(entries))
	}
}

func TestRunNonInteractiveRequiresYes(t *testing.T) {
	h := newHarness(t, "")
	_, err := h.pipeline.Run(context.Background(), options.Options{NonInteractive: true, Name: "demo", Type: options.TypeBackend})

	var cre *confirm.ConfirmationRequiredError
	if !errors.As(err, &cre) {
		t.Fatalf("error = %v, want *confirm.ConfirmationRequiredError", err)
	}
	assertNotExists(t, filepath.Join(h.cwd, "demo"))
}

func TestRunWithYesInstallsAndTests(t *testing.T) {
	h := newHarness(t, "")
	o := options.Options{Name: "api", Type: options.TypeBackend, Yes: true, DB: options.DBSequelize}

	res, err := h.pipeline.Run(context.Background(), o)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{"npm install", "npm test --silent"}
	if diff := cmp.Diff(want, h.runner.commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if !res.Installed || !res.Tested {
		t.Errorf("Installed=%v Tested=%v", res.Installed, res.Tested)
	}
	if _, ok := h.manifest(t, "api").Get(manifest.Scripts, "db:sync"); !ok {
		t.Error("db:sync script missing")
	}
}

func TestRunPackageManagerOverride(t *testing.T) {
	h := newHarness(t, "")
	h.pipeline.PackageManager = "yarn"
	o := options.Options{Name: "api", Type: options.TypeBackend, Yes: true}

	if _, err := h.pipeline.Run(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if len(h.runner.commands) == 0 || h.runner.commands[0] != "yarn install" {
		t.Errorf("commands = %v, want yarn install first", h.runner.commands)
	}
}

func TestRunInstallFailurePropagatesStatus(t *testing.T) {
	h := newHarness(t, "")
	h.runner.status = 3
	o := options.Options{Name: "api", Type: options.TypeBackend, Yes: true}

	res, err := h.pipeline.Run(context.Background(), o)
	var exitErr *process.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *process.ExitError", err)
	}
	if exitErr.Status != 3 {
		t.Errorf("Status = %d, want 3", exitErr.Status)
	}
	if diff := cmp.Diff([]string{"npm install"}, h.runner.commands); diff != "" {
		t.Errorf("tests should not run after a failed install (-want +got):\n%s", diff)
	}
	// No rollback: the scaffolded project stays on disk.
	if _, err := os.Stat(filepath.Join(res.TargetDir, manifest.FileName)); err != nil {
		t.Errorf("project was removed after failure: %v", err)
	}
}

func TestInstallAndTestWithExistingNodeModules(t *testing.T) {
	h := newHarness(t, "")
	target := filepath.Join(h.cwd, "api")
	if err := os.MkdirAll(filepath.Join(target, "node_modules"), 0755); err != nil {
		t.Fatal(err)
	}
	steps := &process.Steps{Runner: h.runner, Out: h.stdout, Log: logging.Discard()}
	res := &Result{TargetDir: target}

	if err := h.pipeline.installAndTest(context.Background(), steps, res, options.Options{NonInteractive: true}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"npm test --silent"}, h.runner.commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if res.Installed || !res.Tested {
		t.Errorf("Installed=%v Tested=%v", res.Installed, res.Tested)
	}
}

func TestInstallAndTestSkipsWithoutNodeModules(t *testing.T) {
	h := newHarness(t, "")
	steps := &process.Steps{Runner: h.runner, Out: h.stdout, Log: logging.Discard()}
	res := &Result{TargetDir: h.cwd}

	if err := h.pipeline.installAndTest(context.Background(), steps, res, options.Options{NonInteractive: true}); err != nil {
		t.Fatal(err)
	}
	if len(h.runner.commands) != 0 {
		t.Errorf("commands = %v", h.runner.commands)
	}
}

func TestRunInteractive(t *testing.T) {
	// name, type, module, path, confirm, install
	h := newHarness(t, "shop\n1\nCJS\n\ny\nn\n")

	res, err := h.pipeline.Run(context.Background(), options.Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.TargetDir != filepath.Join(h.cwd, "shop") {
		t.Errorf("TargetDir = %q", res.TargetDir)
	}
	m := h.manifest(t, "shop")
	if m.Type() != "commonjs" {
		t.Errorf("type = %q, want commonjs", m.Type())
	}
	if len(h.runner.commands) != 0 {
		t.Errorf("declined install still ran %v", h.runner.commands)
	}
}

func TestRunInteractiveDeclined(t *testing.T) {
	h := newHarness(t, "shop\nbackend\nESM\n\nn\n")

	_, err := h.pipeline.Run(context.Background(), options.Options{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("error = %v, want ErrAborted", err)
	}
	assertNotExists(t, filepath.Join(h.cwd, "shop"))
	if !strings.Contains(h.stdout.String(), "Aborted by user.") {
		t.Errorf("stdout missing abort notice:\n%s", h.stdout)
	}
}

func TestRunFeatures(t *testing.T) {
	h := newHarness(t, "")
	o := options.Options{
		NonInteractive: true, Yes: true, DryRun: true,
		Name: "web", Type: options.TypeFrontend,
		CSS: options.CSSTailwind, Redux: true, Lottie: true, Git: true,
	}

	res, err := h.pipeline.Run(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	m := h.manifest(t, "web")
	if _, ok := m.Get(manifest.DevDependencies, "tailwindcss"); !ok {
		t.Error("tailwindcss missing from devDependencies")
	}
	if _, ok := m.Get(manifest.Dependencies, "@reduxjs/toolkit"); !ok {
		t.Error("@reduxjs/toolkit missing from dependencies")
	}
	for _, rel := range []string{"tailwind.config.cjs", "src/store/index.ts"} {
		if _, err := os.Stat(filepath.Join(res.TargetDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s not written: %v", rel, err)
		}
	}
	if len(h.runner.commands) != 0 {
		t.Errorf("dry run spawned %v", h.runner.commands)
	}
}

func TestRunGitInit(t *testing.T) {
	h := newHarness(t, "")
	o := options.Options{Name: "api", Type: options.TypeBackend, Yes: true, Git: true}

	if _, err := h.pipeline.Run(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	want := []string{"git init", "npm install", "npm test --silent"}
	if diff := cmp.Diff(want, h.runner.commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestInteractive(t *testing.T) {
	tests := []struct {
		name string
		o    options.Options
		want bool
	}{
		{"no flags", options.Options{}, true},
		{"name given", options.Options{Name: "x"}, false},
		{"yes", options.Options{Yes: true}, false},
		{"non-interactive", options.Options{NonInteractive: true}, false},
	}
	for _, tt := range tests {
		if got := Interactive(tt.o); got != tt.want {
			t.Errorf("%s: Interactive() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
