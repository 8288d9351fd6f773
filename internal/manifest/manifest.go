package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// FileName is the manifest file at a project root.
const FileName = "package.json"

// Dependency and script sections.
const (
	Dependencies    = "dependencies"
	DevDependencies = "devDependencies"
	Scripts         = "scripts"
)

// ParseError reports a manifest that is not a JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing manifest: %v", e.Err)
	}
	return fmt.Sprintf("parsing manifest %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Manifest is a package.json document.
type Manifest struct {
	obj *Object
}

// Parse decodes a manifest from data.
func Parse(data []byte) (*Manifest, error) {
	obj, err := ParseObject(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &Manifest{obj: obj}, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Bytes returns the manifest pretty-printed with two-space indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.obj); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Keys returns the top-level keys in order.
func (m *Manifest) Keys() []string { return m.obj.Keys() }

// Name returns the "name" field.
func (m *Manifest) Name() string {
	s, _ := m.obj.String("name")
	return s
}

// SetName sets the "name" field.
func (m *Manifest) SetName(name string) error { return m.obj.Set("name", name) }

// Private reports the "private" field.
func (m *Manifest) Private() bool {
	raw, ok := m.obj.Raw("private")
	if !ok {
		return false
	}
	var b bool
	_ = json.Unmarshal(raw, &b)
	return b
}

// SetPrivate sets the "private" field.
func (m *Manifest) SetPrivate(private bool) error { return m.obj.Set("private", private) }

// Type returns the "type" field ("module" or "commonjs").
func (m *Manifest) Type() string {
	s, _ := m.obj.String("type")
	return s
}

// SetType sets the "type" field.
func (m *Manifest) SetType(t string) error { return m.obj.Set("type", t) }

// Section returns a copy of a nested string map such as "dependencies".
// A missing section yields an empty object.
func (m *Manifest) Section(name string) (*Object, error) {
	sec, err := m.obj.Object(name)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if sec == nil {
		return NewObject(), nil
	}
	return sec, nil
}

// SetSection stores sec under name.
func (m *Manifest) SetSection(name string, sec *Object) error {
	return m.obj.Set(name, sec)
}

// SectionKeys returns the sorted keys of a section, or nil when absent.
func (m *Manifest) SectionKeys(name string) ([]string, error) {
	sec, err := m.Section(name)
	if err != nil {
		return nil, err
	}
	keys := sec.Keys()
	sort.Strings(keys)
	return keys, nil
}

// Get returns entry key of section name.
func (m *Manifest) Get(section, key string) (string, bool) {
	sec, err := m.Section(section)
	if err != nil {
		return "", false
	}
	return sec.String(key)
}

// Put sets entry key of section name, creating the section when needed.
func (m *Manifest) Put(section, key, value string) error {
	sec, err := m.Section(section)
	if err != nil {
		return err
	}
	if err := sec.SetSorted(key, value); err != nil {
		return err
	}
	return m.SetSection(section, sec)
}

// PutIfAbsent sets entry key of section only when it is missing and
// reports whether it wrote.
func (m *Manifest) PutIfAbsent(section, key, value string) (bool, error) {
	if _, ok := m.Get(section, key); ok {
		return false, nil
	}
	return true, m.Put(section, key, value)
}

// Remove deletes entry key of section and reports whether it was present.
// A missing section is not an error.
func (m *Manifest) Remove(section, key string) (bool, error) {
	if !m.obj.Has(section) {
		return false, nil
	}
	sec, err := m.Section(section)
	if err != nil {
		return false, err
	}
	if !sec.Delete(key) {
		return false, nil
	}
	return true, m.SetSection(section, sec)
}
