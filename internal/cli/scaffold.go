package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/branding"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/config"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/logging"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/prompt"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/scaffold"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/templates"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// scaffoldFlags holds the raw flag values of the root command.
type scaffoldFlags struct {
	name, typ, module, path string
	nonInteractive, yes     bool
	dryRun, verbose         bool
	preset, css, db, fav    string
	redux, git, lottie      bool
}

func (f *scaffoldFlags) options() options.Options {
	return options.Options{
		Name:           f.name,
		Type:           options.ProjectType(f.typ),
		Module:         options.ModuleSystem(f.module),
		Path:           f.path,
		NonInteractive: f.nonInteractive,
		Yes:            f.yes,
		DryRun:         f.dryRun,
		Verbose:        f.verbose,
		Preset:         f.preset,
		CSS:            options.CSSFramework(f.css),
		Redux:          f.redux,
		DB:             options.Database(f.db),
		Favicon:        options.Favicon(f.fav),
		Git:            f.git,
		Lottie:         f.lottie,
	}
}

func bindScaffold(root *cobra.Command, app *App) {
	f := &scaffoldFlags{}
	fl := root.Flags()

	fl.StringVarP(&f.name, options.FlagName, "n", "", "Project name")
	fl.StringVarP(&f.typ, options.FlagType, "t", "", "Project type: frontend or backend")
	fl.StringVarP(&f.module, options.FlagModule, "m", "", "Module system: CJS or ESM")
	fl.StringVarP(&f.path, options.FlagPath, "p", "", "Destination directory (default ./<name>)")
	fl.BoolVar(&f.nonInteractive, options.FlagNonInteractive, false, "Never prompt; requires --name and --type")
	fl.BoolVar(&f.yes, options.FlagYes, false, "Confirm the scaffold and run install and tests")
	fl.BoolVar(&f.dryRun, options.FlagDryRun, false, "Write the project but skip install, tests and git")
	fl.StringVar(&f.preset, options.FlagPreset, "", "Feature preset: "+strings.Join(options.PresetNames(), ", "))
	fl.StringVar(&f.css, options.FlagCSS, "", "CSS framework: tailwind or bulma")
	fl.BoolVar(&f.redux, options.FlagRedux, false, "Add Redux Toolkit and a store")
	fl.StringVar(&f.db, options.FlagDB, "", "Database layer: sequelize")
	fl.StringVar(&f.fav, options.FlagFavicon, "", "Alternate favicon: flaticon")
	fl.BoolVar(&f.git, options.FlagGit, false, "Run git init in the new project")
	fl.BoolVar(&f.lottie, options.FlagLottie, false, "Add lottie-react")
	fl.BoolVarP(&f.verbose, options.FlagVerbose, "v", false, "Log each scaffold stage")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		o, err := resolveOptions(f, cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return runScaffold(cmd, app, o)
	}
}

// resolveOptions validates the flags and expands --preset without touching
// flags given explicitly.
func resolveOptions(f *scaffoldFlags, changed func(string) bool) (options.Options, error) {
	o := f.options()
	if err := o.Normalize(); err != nil {
		return o, err
	}
	if err := options.ApplyPreset(&o, changed); err != nil {
		return o, err
	}
	return o, nil
}

func runScaffold(cmd *cobra.Command, app *App, o options.Options) error {
	config.Load()
	log := logging.New(app.Stderr, o.Verbose)

	cwd := app.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		cwd = wd
	}

	defaultModule := options.ModuleSystem(strings.ToUpper(config.DefaultModule()))
	if defaultModule != "" && defaultModule != options.ModuleCJS && defaultModule != options.ModuleESM {
		return fmt.Errorf("config %s: invalid value %q: must be CJS or ESM", config.KeyDefaultModule, config.DefaultModule())
	}

	src := templates.FromConfig(config.TemplatesDir())
	log.WithFields(logrus.Fields{"templates": src.Location(""), "cwd": cwd}).Debug("configuration loaded")

	color.New(color.FgGreen).Fprintf(app.Stdout, "\n%s - project initializer\n\n", branding.DisplayName())

	pipeline := &scaffold.Pipeline{
		Templates:      src,
		Prompter:       prompt.NewTerminal(app.Stdin, app.Stdout),
		Runner:         app.Runner,
		Stdout:         app.Stdout,
		Stderr:         app.Stderr,
		Log:            log,
		Cwd:            cwd,
		SelfName:       branding.PackageName(),
		PackageManager: config.PackageManager(),
		DefaultModule:  defaultModule,
	}

	res, err := pipeline.Run(cmd.Context(), o)
	if err != nil {
		log.WithError(err).Debug("scaffold failed")
		if res != nil && len(res.Copied) > 0 {
			color.New(color.FgYellow).Fprintf(app.Stderr, "The partially created project was left at %s.\n", res.TargetDir)
		}
		return err
	}
	return nil
}
