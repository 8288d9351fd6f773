package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/girijashankarj/garry-ocd-boilerplate/internal/config"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/manifest"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/pkgmanager"
	"github.com/girijashankarj/garry-ocd-boilerplate/internal/templates"
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var checkManifest string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the toolchain, settings and templates",
		Long: `Run diagnostic checks on the tools a scaffold shells out to, the user
settings and the template source.

With --check-manifest, validate an existing package.json instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if checkManifest != "" {
				return runManifestCheck(out, checkManifest)
			}

			config.Load()
			runRuntimeCheck(out)
			runConfigCheck(out)
			runTemplatesCheck(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a package.json at the given path")
	return cmd
}

func runRuntimeCheck(w io.Writer) {
	fmt.Fprintln(w, "Runtime check:")
	bins := []string{"node", "npm", "git"}
	if pm := config.PackageManager(); pm != "" && pm != string(pkgmanager.NPM) {
		bins = append(bins, pm)
	}
	for _, name := range bins {
		checkBinary(w, name)
	}
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	if _, err := os.Stat(config.FilePath()); err != nil {
		fmt.Fprintf(w, "  [INFO] no config file at %s, using defaults\n", config.FilePath())
	} else {
		fmt.Fprintf(w, "  [ OK ] %s\n", config.FilePath())
	}

	if pm := config.PackageManager(); pm != "" {
		if _, err := pkgmanager.Parse(pm); err != nil {
			fmt.Fprintf(w, "  [FAIL] %s: %v\n", config.KeyPackageManager, err)
		} else {
			fmt.Fprintf(w, "  [ OK ] %s = %s\n", config.KeyPackageManager, pm)
		}
	}

	switch m := config.DefaultModule(); m {
	case "", "CJS", "ESM", "cjs", "esm":
		fmt.Fprintf(w, "  [ OK ] %s = %q\n", config.KeyDefaultModule, m)
	default:
		fmt.Fprintf(w, "  [FAIL] %s = %q: must be CJS or ESM\n", config.KeyDefaultModule, m)
	}
}

func runTemplatesCheck(w io.Writer) {
	fmt.Fprintln(w, "Templates check:")
	src := templates.FromConfig(config.TemplatesDir())
	for _, name := range []string{templates.Frontend, templates.Backend} {
		if _, err := src.Open(name); err != nil {
			fmt.Fprintf(w, "  [FAIL] %v\n", err)
			continue
		}
		if !src.Exists(name, manifest.FileName) {
			fmt.Fprintf(w, "  [WARN] %s has no %s\n", src.Location(name), manifest.FileName)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s\n", src.Location(name))
	}
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	m, err := manifest.Load(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}

	result, err := manifest.ValidateManifest(m)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	if result.Valid {
		fmt.Fprintf(w, "  [ OK ] Valid package.json: %s\n", m.Name())
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    - %s\n", issue.String())
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
