package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `{
  "name": "garry-backend-template",
  "version": "0.1.0",
  "scripts": {
    "build": "tsc && node build.js",
    "start": "node dist/index.js"
  },
  "dependencies": {
    "express": "^4.19.2",
    "sequelize": "^6.37.3"
  },
  "devDependencies": {
    "garry-ocd-boilerplate": "^1.0.0",
    "jest": "^29.7.0"
  }
}
`

func TestParseKeepsKeyOrder(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []string{"name", "version", "scripts", "dependencies", "devDependencies"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripIsStable(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	out, err := m.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != sample {
		t.Errorf("round trip changed the document:\n%s", out)
	}
	if strings.Contains(string(out), `\u0026`) {
		t.Error("ampersands should not be HTML-escaped")
	}
}

func TestSetFields(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetName("demo"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetPrivate(true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetType("commonjs"); err != nil {
		t.Fatal(err)
	}

	if m.Name() != "demo" || !m.Private() || m.Type() != "commonjs" {
		t.Errorf("got name=%q private=%v type=%q", m.Name(), m.Private(), m.Type())
	}
	// "name" keeps its slot; new keys are appended.
	keys := m.Keys()
	if keys[0] != "name" || keys[len(keys)-1] != "type" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestPutKeepsSectionsSorted(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Put(Dependencies, "bulma", "^0.9.0"); err != nil {
		t.Fatal(err)
	}
	if err := m.Put(Dependencies, "zod", "^3.0.0"); err != nil {
		t.Fatal(err)
	}
	sec, err := m.Section(Dependencies)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"bulma", "express", "sequelize", "zod"}
	if diff := cmp.Diff(want, sec.Keys()); diff != "" {
		t.Errorf("dependency order mismatch (-want +got):\n%s", diff)
	}
}

func TestPutCreatesSection(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Put(DevDependencies, "tailwindcss", "^4.0.0"); err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get(DevDependencies, "tailwindcss"); !ok || v != "^4.0.0" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
}

func TestPutIfAbsent(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	wrote, err := m.PutIfAbsent(Dependencies, "sequelize", "^6.0.0")
	if err != nil || wrote {
		t.Errorf("PutIfAbsent(existing) = %v, %v; want false", wrote, err)
	}
	if v, _ := m.Get(Dependencies, "sequelize"); v != "^6.37.3" {
		t.Errorf("existing pin changed to %q", v)
	}
	wrote, err = m.PutIfAbsent(Dependencies, "sqlite3", "^5.1.6")
	if err != nil || !wrote {
		t.Errorf("PutIfAbsent(new) = %v, %v; want true", wrote, err)
	}
}

func TestRemove(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	removed, err := m.Remove(DevDependencies, "garry-ocd-boilerplate")
	if err != nil || !removed {
		t.Fatalf("Remove() = %v, %v", removed, err)
	}
	removed, err = m.Remove(DevDependencies, "garry-ocd-boilerplate")
	if err != nil || removed {
		t.Errorf("second Remove() = %v, %v; want false, nil", removed, err)
	}
	removed, err = m.Remove("peerDependencies", "anything")
	if err != nil || removed {
		t.Errorf("Remove() on missing section = %v, %v", removed, err)
	}
}

func TestSectionNotObject(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x","dependencies":["react"]}`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.Section(Dependencies)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("Section() error = %v, want *ParseError", err)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{``, `{`, `[]`, `{"name": }`, `{"a":1} {"b":2}`} {
		_, err := Parse([]byte(input))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q) error = %v, want *ParseError", input, err)
		}
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := m.SetName("saved"); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name() != "saved" {
		t.Errorf("Name() after reload = %q", again.Name())
	}
}

func TestLoadMalformedNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
}

func TestNullSectionsAreAbsent(t *testing.T) {
	m, err := Parse([]byte(`{"name":"x","dependencies":null,"scripts":null}`))
	if err != nil {
		t.Fatal(err)
	}
	keys, err := m.SectionKeys(Dependencies)
	if err != nil {
		t.Fatalf("SectionKeys() error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("SectionKeys() = %v, want none", keys)
	}
	if removed, err := m.Remove(Dependencies, "react"); err != nil || removed {
		t.Errorf("Remove() = %v, %v", removed, err)
	}
	if err := m.Put(Scripts, "test", "jest"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if got, _ := m.Get(Scripts, "test"); got != "jest" {
		t.Errorf("scripts.test = %q", got)
	}
}
