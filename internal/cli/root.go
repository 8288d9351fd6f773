package cli

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/branding"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/process"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/scaffold"
	"github.com/spf13/cobra"
)

// App carries everything an invocation reads from its process, so tests can
// run the full command tree against buffers and a fake runner.
type App struct {
	Version string
	Commit  string
	Date    string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Cwd anchors relative --path values. Empty means os.Getwd.
	Cwd    string
	Runner process.Runner
}

// NewRootCmd builds the command tree for app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` copies a frontend or backend template into a new directory,
patches its package.json and wires optional features (CSS framework, Redux,
Sequelize, favicon, Lottie). It can then install dependencies and run the tests.

Run without flags to answer the questions interactively.`,
		Example: `  ` + branding.CLIName() + `
  ` + branding.CLIName() + ` --non-interactive --yes --name demo --type frontend
  ` + branding.CLIName() + ` --name api --type backend --db sequelize --yes
  ` + branding.CLIName() + ` --preset frontend-full --name web --yes --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(app.Stdin)
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	bindScaffold(root, app)

	root.AddCommand(
		newVersionCmd(app),
		newConfigCmd(),
		newPresetsCmd(),
		newDoctorCmd(app),
	)
	return root
}

// Execute runs the CLI on os.Args and returns the process exit code.
func Execute(version, commit, date string) int {
	app := &App{
		Version: version,
		Commit:  commit,
		Date:    date,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Runner:  &process.ExecRunner{},
	}
	return app.Run(os.Args[1:])
}

// Run executes args and reports failures on Stderr exactly once.
func (app *App) Run(args []string) int {
	root := NewRootCmd(app)
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	code := ExitCode(err)
	if err == nil || code == 0 {
		return code
	}

	red := color.New(color.FgRed)
	if cmd == root {
		red.Fprint(app.Stderr, "Failed to create project: ")
	} else {
		red.Fprint(app.Stderr, "Error: ")
	}
	io.WriteString(app.Stderr, err.Error()+"\n")
	return code
}

// ExitCode maps an error returned by the command tree to a process exit
// code. A declined confirmation is a clean exit, and a failed install or
// test run exits with the child's own status.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, scaffold.ErrAborted) {
		return 0
	}
	var exitErr *process.ExitError
	if errors.As(err, &exitErr) && exitErr.Status > 0 {
		return exitErr.Status
	}
	return 1
}
