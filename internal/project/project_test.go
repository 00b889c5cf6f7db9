package project

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRelativeDir(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "A")
	b := filepath.Join(base, "B")
	roots := []string{a, b}

	tests := []struct {
		name string
		file string
		want string
	}{
		{"first root", filepath.Join(a, "pkg", "Foo.j"), "pkg"},
		{"second root", filepath.Join(b, "x", "y", "Bar.j"), filepath.Join("x", "y")},
		{"default package", filepath.Join(a, "Top.j"), ""},
		{"outside roots", filepath.Join(base, "C", "pkg", "Foo.j"), ""},
		{"sibling prefix", filepath.Join(base, "AB", "Foo.j"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeDir(roots, tt.file); got != tt.want {
				t.Errorf("RelativeDir(%s) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestRelativeDirNestedRoots(t *testing.T) {
	base := t.TempDir()
	outer := filepath.Join(base, "src")
	inner := filepath.Join(outer, "gen")
	file := filepath.Join(inner, "p", "Foo.j")

	if got := RelativeDir([]string{outer, inner}, file); got != filepath.Join("gen", "p") {
		t.Errorf("outer first: got %q", got)
	}
	if got := RelativeDir([]string{inner, outer}, file); got != "p" {
		t.Errorf("inner first: got %q", got)
	}
}

func TestMaterialize(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out")

	dir, err := Materialize(dest, filepath.Join("pkg", "sub"))
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if dir != filepath.Join(dest, "pkg", "sub") {
		t.Errorf("dir = %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}

	// 再次调用不报错
	if _, err := Materialize(dest, filepath.Join("pkg", "sub")); err != nil {
		t.Errorf("second Materialize failed: %v", err)
	}
	if dir, err := Materialize(dest, ""); err != nil || dir != dest {
		t.Errorf("Materialize(dest, \"\") = %q, %v", dir, err)
	}
}

func TestMaterializeOverFile(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "pkg"), "not a directory")

	if _, err := Materialize(dest, "pkg"); err == nil {
		t.Error("expected error when a file blocks the directory chain")
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("out", "pkg", "Foo")
	if got != filepath.Join("out", "pkg", "Foo.class") {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestCollectSources(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "A")
	b := filepath.Join(base, "B")
	writeFile(t, filepath.Join(a, "pkg", "Foo.j"), "")
	writeFile(t, filepath.Join(a, "Top.j"), "")
	writeFile(t, filepath.Join(a, "pkg", "notes.txt"), "")
	writeFile(t, filepath.Join(b, "q", "Bar.j"), "")

	sources, err := CollectSources([]string{a, b, filepath.Join(base, "missing")})
	if err != nil {
		t.Fatalf("CollectSources failed: %v", err)
	}

	want := []Source{
		{Path: filepath.Join(a, "Top.j"), Root: a, Rel: ""},
		{Path: filepath.Join(a, "pkg", "Foo.j"), Root: a, Rel: "pkg"},
		{Path: filepath.Join(b, "q", "Bar.j"), Root: b, Rel: "q"},
	}
	if !reflect.DeepEqual(sources, want) {
		t.Errorf("sources = %+v\nwant %+v", sources, want)
	}
}

func TestCollectSourcesOverlappingRoots(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "src", "p", "Foo.j"), "")

	sources, err := CollectSources([]string{filepath.Join(base, "src"), filepath.Join(base, "src", "p")})
	if err != nil {
		t.Fatalf("CollectSources failed: %v", err)
	}
	if len(sources) != 1 || sources[0].Rel != "p" {
		t.Errorf("sources = %+v", sources)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "[build]\nsource_dirs = [\"asm\", \"gen\"]\nworkers = 3\nkeep_going = true\n")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	b := config.Build
	if !reflect.DeepEqual(b.SourceDirs, []string{"asm", "gen"}) {
		t.Errorf("SourceDirs = %v", b.SourceDirs)
	}
	if b.Workers != 3 || !b.KeepGoing {
		t.Errorf("Workers = %d, KeepGoing = %v", b.Workers, b.KeepGoing)
	}
	// 未给出的字段保留默认值
	if b.OutputDir != DefaultOutputDir || b.Encoding != DefaultEncoding || !b.Verify {
		t.Errorf("defaults lost: %+v", b)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "[build\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for invalid TOML")
	}

	negative := filepath.Join(dir, "negative.toml")
	writeFile(t, negative, "[build]\nworkers = -1\n")
	if _, err := LoadConfig(negative); err == nil {
		t.Error("expected error for negative workers")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	config := Default()
	config.Build.Workers = 2
	config.Build.Report = "build/report.json"

	if err := config.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, config) {
		t.Errorf("loaded = %+v, want %+v", loaded, config)
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), "")
	deep := filepath.Join(root, "src", "main", "jasmin")
	writeFile(t, filepath.Join(deep, "Foo.j"), "")

	want, _ := filepath.Abs(filepath.Join(root, ConfigFileName))
	if got := FindConfigFile(deep); got != want {
		t.Errorf("from directory: got %q, want %q", got, want)
	}
	if got := FindConfigFile(filepath.Join(deep, "Foo.j")); got != want {
		t.Errorf("from file: got %q, want %q", got, want)
	}
	if got := ProjectRoot(deep); got != filepath.Dir(want) {
		t.Errorf("ProjectRoot = %q", got)
	}
	if got := FindConfigFile(filepath.Join(root, "missing")); got != "" {
		t.Errorf("missing start path: got %q", got)
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), "[build]\nsource_dirs = [\"asm\"]\noutput_dir = \"out\"\nreport = \"r.json\"\n")
	sub := filepath.Join(root, "asm")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	config, found, err := Load(sub)
	if err != nil || !found {
		t.Fatalf("Load = %v, %v", found, err)
	}
	abs, _ := filepath.Abs(root)
	b := config.Build
	if b.SourceDirs[0] != filepath.Join(abs, "asm") || b.OutputDir != filepath.Join(abs, "out") || b.Report != filepath.Join(abs, "r.json") {
		t.Errorf("paths not resolved: %+v", b)
	}
}

func TestWorkerCount(t *testing.T) {
	b := BuildConfig{}
	if b.WorkerCount() != runtime.NumCPU() {
		t.Errorf("WorkerCount() = %d", b.WorkerCount())
	}
	b.Workers = 5
	if b.WorkerCount() != 5 {
		t.Errorf("WorkerCount() = %d", b.WorkerCount())
	}
}
