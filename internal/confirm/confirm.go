// Package confirm prints what a scaffold is about to create and decides
// whether to go ahead.
package confirm

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/fatih/color"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/manifest"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/prompt"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/templates"
)

// Question is the confirmation prompt text.
const Question = "Proceed with project creation?"

// Structure describes the layout every template follows.
var Structure = []string{
	"config (theme/client/env JSON, no secrets)",
	"src/common (enums/types/constants/interfaces/messages/fileNames/operations)",
	"src/utils (loggerUtils/lodashUtils)",
	"src/components or src/apis (template-specific)",
	"tests/src mirrors src",
	"tests/mock (test-only data/factories)",
}

// ConfirmationRequiredError is returned when a non-interactive run would
// write files without --yes.
type ConfirmationRequiredError struct{}

func (e *ConfirmationRequiredError) Error() string {
	return "Use --yes to confirm scaffold in non-interactive mode."
}

// Summary is the pre-flight view of a scaffold.
type Summary struct {
	TargetDir       string
	Template        string
	Dependencies    []string
	DevDependencies []string
	Scripts         []string
}

// Gate renders the summary and asks for confirmation.
type Gate struct {
	Templates *templates.Source
	Prompter  prompt.Prompter
	Out       io.Writer
}

// Summarize reads the template manifest. A template without a package.json
// yields empty lists.
func (g *Gate) Summarize(targetDir, templateName string) (*Summary, error) {
	s := &Summary{TargetDir: targetDir, Template: templateName}

	data, err := g.Templates.ReadFile(templateName, manifest.FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}

	if s.Dependencies, err = m.SectionKeys(manifest.Dependencies); err != nil {
		return nil, err
	}
	if s.DevDependencies, err = m.SectionKeys(manifest.DevDependencies); err != nil {
		return nil, err
	}
	if s.Scripts, err = m.SectionKeys(manifest.Scripts); err != nil {
		return nil, err
	}
	return s, nil
}

// Print writes s to w.
func (s *Summary) Print(w io.Writer) {
	heading := color.New(color.FgCyan)

	heading.Fprintln(w, "\nScaffold summary")
	heading.Fprint(w, "Target path: ")
	fmt.Fprintln(w, s.TargetDir)
	heading.Fprint(w, "Template: ")
	fmt.Fprintln(w, s.Template)

	printList(w, heading, "Dependencies:", s.Dependencies)
	printList(w, heading, "Dev dependencies:", s.DevDependencies)
	printList(w, heading, "Scripts:", s.Scripts)
	printList(w, heading, "Structure:", Structure)
}

func printList(w io.Writer, heading *color.Color, title string, items []string) {
	heading.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

// Confirm prints the summary and reports whether to proceed. With
// --non-interactive or --yes it never prompts: --yes (or --dry-run)
// proceeds, anything else is a *ConfirmationRequiredError.
func (g *Gate) Confirm(targetDir, templateName string, o options.Options) (bool, error) {
	s, err := g.Summarize(targetDir, templateName)
	if err != nil {
		return false, err
	}
	s.Print(g.Out)

	if o.NonInteractive || o.Yes {
		if !o.Yes && !o.DryRun {
			return false, &ConfirmationRequiredError{}
		}
		return true, nil
	}
	return g.Prompter.Confirm(Question, true)
}
