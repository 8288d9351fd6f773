package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
)

//go:embed all:files
var embedded embed.FS

// Template directory names.
const (
	Frontend = "garry-frontend-template"
	Backend  = "garry-backend-template"
)

// NameFor maps a project type to its template directory name.
func NameFor(t options.ProjectType) string {
	if t == options.TypeFrontend {
		return Frontend
	}
	return Backend
}

// excludedNames are never copied out of a template.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// TemplateNotFoundError reports a template name that does not resolve to a directory.
type TemplateNotFoundError struct {
	Name     string
	Location string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found at %s", e.Name, e.Location)
}

// Source is a read-only collection of template trees.
type Source struct {
	fsys  fs.FS
	label string
}

// Embedded returns the templates compiled into the binary.
func Embedded() *Source {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return &Source{fsys: sub, label: "embedded"}
}

// Dir returns templates read from an on-disk directory.
func Dir(dir string) *Source {
	return &Source{fsys: os.DirFS(dir), label: dir}
}

// FromConfig returns Dir(dir) when dir is set, else Embedded().
func FromConfig(dir string) *Source {
	if dir == "" {
		return Embedded()
	}
	return Dir(dir)
}

// Location describes where a template lives, for messages.
func (s *Source) Location(name string) string {
	if s.label == "embedded" {
		return "embedded:" + name
	}
	return filepath.Join(s.label, name)
}

// Open returns the tree of the named template.
func (s *Source) Open(name string) (fs.FS, error) {
	if name != Frontend && name != Backend {
		return nil, &TemplateNotFoundError{Name: name, Location: s.Location(name)}
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil || !info.IsDir() {
		return nil, &TemplateNotFoundError{Name: name, Location: s.Location(name)}
	}
	return fs.Sub(s.fsys, name)
}

// ReadFile reads a slash-separated path inside the named template.
func (s *Source) ReadFile(name, rel string) ([]byte, error) {
	tree, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(tree, rel)
}

// Exists reports whether rel exists inside the named template.
func (s *Source) Exists(name, rel string) bool {
	tree, err := s.Open(name)
	if err != nil {
		return false
	}
	_, err = fs.Stat(tree, rel)
	return err == nil
}

// Copy copies the named template into dst and returns the copied files as
// slash-separated paths relative to dst. It stops at the first failure and
// does not remove what was already written.
func (s *Source) Copy(dst, name string) ([]string, error) {
	tree, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dst, err)
	}

	var files []string
	err = fs.WalkDir(tree, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == "." {
			return nil
		}
		if shouldExclude(path.Base(p)) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		// Skip symlinks and other special files.
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(tree, p, target); err != nil {
			return err
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("copying template %s to %s: %w", name, dst, err)
	}
	return files, nil
}

// copyFile copies one file out of tree, keeping the executable bit.
func copyFile(tree fs.FS, src, dst string) error {
	data, err := fs.ReadFile(tree, src)
	if err != nil {
		return err
	}
	info, err := fs.Stat(tree, src)
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info.Mode()&0111 != 0 {
		mode = 0755
	}
	return os.WriteFile(dst, data, mode)
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}

// IsNotFound reports whether err is a *TemplateNotFoundError.
func IsNotFound(err error) bool {
	var tnf *TemplateNotFoundError
	return errors.As(err, &tnf)
}
