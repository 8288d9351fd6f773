package process

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/pkgmanager"
	"github.com/sirupsen/logrus"
)

// Steps runs the post-scaffold commands through a Runner.
type Steps struct {
	Runner Runner
	Out    io.Writer
	Log    *logrus.Logger
}

// Install runs "<manager> install" in dir. It prints a notice and does
// nothing on a dry run.
func (s *Steps) Install(ctx context.Context, dir string, manager pkgmanager.Manager, dryRun bool) error {
	if dryRun {
		color.New(color.FgYellow).Fprintln(s.Out, "Skipping install due to --dry-run flag.")
		return nil
	}
	color.New(color.FgBlue).Fprintf(s.Out, "Running %s install in %s\n", manager, dir)
	return s.run(ctx, dir, string(manager), "install")
}

// Test runs "npm test --silent" in dir. A dry run skips it silently.
func (s *Steps) Test(ctx context.Context, dir string, dryRun bool) error {
	if dryRun {
		return nil
	}
	return s.run(ctx, dir, "npm", "test", "--silent")
}

// GitInit runs "git init" in dir. A dry run skips it silently.
func (s *Steps) GitInit(ctx context.Context, dir string, dryRun bool) error {
	if dryRun {
		return nil
	}
	return s.run(ctx, dir, "git", "init")
}

func (s *Steps) run(ctx context.Context, dir, name string, args ...string) error {
	command := strings.Join(append([]string{name}, args...), " ")
	s.Log.WithFields(logrus.Fields{"dir": dir, "command": command}).Debug("running command")

	status, err := s.Runner.Run(ctx, dir, name, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	if status != 0 {
		return &ExitError{Command: command, Status: status}
	}
	return nil
}
