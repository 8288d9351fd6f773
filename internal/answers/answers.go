// Package answers resolves the project name, type, module system, and
// destination, either from flags or by asking the user.
package answers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/prompt"
)

// DefaultName is the placeholder offered by the project name prompt.
const DefaultName = "my-app"

// Answers is the resolved project identity.
type Answers struct {
	Name   string
	Type   options.ProjectType
	Module options.ModuleSystem // empty leaves the template's "type" untouched
	Path   string               // as supplied; may be relative or empty
}

// MissingRequiredArgumentError is returned when a non-interactive run lacks
// --name or --type.
type MissingRequiredArgumentError struct {
	Flags []string
}

func (e *MissingRequiredArgumentError) Error() string {
	quoted := make([]string, len(e.Flags))
	for i, f := range e.Flags {
		quoted[i] = "--" + f
	}
	return fmt.Sprintf("when running non-interactive, %s are required", strings.Join(quoted, " and "))
}

// Collector resolves Answers.
type Collector struct {
	Prompter prompt.Prompter
	// Cwd anchors the default destination path offered interactively.
	Cwd string
	// DefaultModule fills Module when a non-interactive run omits --module.
	DefaultModule options.ModuleSystem
	// AskModule enables the module-system prompt.
	AskModule bool
}

// Resolve returns the answers from o when interactive is false, or by
// prompting in order: name, type, module (when enabled), path.
func (c *Collector) Resolve(interactive bool, o options.Options) (Answers, error) {
	if !interactive {
		return c.fromOptions(o)
	}
	return c.ask()
}

func (c *Collector) fromOptions(o options.Options) (Answers, error) {
	if o.Name == "" || o.Type == "" {
		return Answers{}, &MissingRequiredArgumentError{Flags: []string{options.FlagName, options.FlagType}}
	}
	module := o.Module
	if module == "" {
		module = c.DefaultModule
	}
	return Answers{
		Name:   o.Name,
		Type:   o.Type,
		Module: module,
		Path:   o.Path,
	}, nil
}

func (c *Collector) ask() (Answers, error) {
	if c.Prompter == nil {
		return Answers{}, fmt.Errorf("interactive mode requires a terminal prompter")
	}

	name, err := c.Prompter.Input("Project name", DefaultName)
	if err != nil {
		return Answers{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Answers{}, fmt.Errorf("project name must not be empty")
	}

	typeChoices := make([]string, len(options.ProjectTypes))
	for i, t := range options.ProjectTypes {
		typeChoices[i] = string(t)
	}
	typ, err := c.Prompter.Select("Project type", typeChoices)
	if err != nil {
		return Answers{}, err
	}

	var module options.ModuleSystem
	if c.AskModule {
		moduleChoices := make([]string, len(options.ModuleSystems))
		for i, m := range options.ModuleSystems {
			moduleChoices[i] = string(m)
		}
		m, err := c.Prompter.Select("Module system", moduleChoices)
		if err != nil {
			return Answers{}, err
		}
		module = options.ModuleSystem(m)
	}

	// The default path depends on the name answered above.
	path, err := c.Prompter.Input("Project directory path", filepath.Join(c.Cwd, name))
	if err != nil {
		return Answers{}, err
	}

	return Answers{
		Name:   name,
		Type:   options.ProjectType(typ),
		Module: module,
		Path:   path,
	}, nil
}

// TargetDir resolves the destination against cwd. An empty path means ./<name>.
func TargetDir(cwd string, a Answers) string {
	p := a.Path
	if p == "" {
		p = a.Name
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}
