package builder

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/tangzhangming/jasm/internal/classfile"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/project"
)

func classSource(name string) string {
	return ".class public " + name + "\n" +
		".super java/lang/Object\n" +
		".method public static f()V\n" +
		"    return\n" +
		".end method\n"
}

const broken = ".class public pkg/Broken\n.super java/lang/Object\n.bogus\n"

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// newProject 在临时目录中创建两个源码根目录 A、B 和输出目录
func newProject(t *testing.T) (cfg project.BuildConfig, a, b string) {
	t.Helper()
	base := t.TempDir()
	a = filepath.Join(base, "A")
	b = filepath.Join(base, "B")
	cfg = project.Default().Build
	cfg.SourceDirs = []string{a, b}
	cfg.OutputDir = filepath.Join(base, "out")
	return cfg, a, b
}

func TestBuildDirectoryMapping(t *testing.T) {
	cfg, a, b := newProject(t)
	writeSource(t, filepath.Join(a, "pkg", "Foo.j"), classSource("pkg/Foo"))
	writeSource(t, filepath.Join(b, "Top.j"), classSource("Top"))

	report, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if report.Compiled != 2 || !report.OK() {
		t.Fatalf("report = %+v", report)
	}

	out := filepath.Join(cfg.OutputDir, "pkg", "Foo.class")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	cf, err := classfile.Parse(data)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if name, _ := cf.ThisClassName(); name != "pkg/Foo" {
		t.Errorf("class name = %q", name)
	}
	if !exists(filepath.Join(cfg.OutputDir, "Top.class")) {
		t.Error("default package output missing")
	}

	for _, u := range report.Units {
		if u.Status != StatusCompiled || len(u.Warnings) != 0 {
			t.Errorf("unit %+v", u)
		}
		if u.Source == filepath.Join(a, "pkg", "Foo.j") {
			if u.Output != out || u.Digest != Digest(data) || u.Size != len(data) || u.Class != "pkg.Foo" {
				t.Errorf("unit %+v", u)
			}
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	cfg, a, _ := newProject(t)
	writeSource(t, filepath.Join(a, "pkg", "Foo.j"), classSource("pkg/Foo"))

	first, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if first.Units[0].Digest != second.Units[0].Digest {
		t.Error("rebuild produced different bytes")
	}
}

func TestBuildWarnings(t *testing.T) {
	cfg, a, _ := newProject(t)
	writeSource(t, filepath.Join(a, "pkg", "Bar.j"), classSource("other/Foo"))

	report, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 产物以声明的类名命名，放在源文件的相对目录下
	if !exists(filepath.Join(cfg.OutputDir, "pkg", "Foo.class")) {
		t.Error("output not named after the declared class")
	}
	if exists(filepath.Join(cfg.OutputDir, "pkg", "Bar.class")) {
		t.Error("output named after the source file")
	}
	want := []string{i18n.T(i18n.MsgNameMismatch), i18n.T(i18n.MsgPackageMismatch)}
	got := report.Units[0].Warnings
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("warnings = %q, want %q", got, want)
	}
}

func TestBuildRemovesStaleOutput(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		src    string
		stale  string
		status Status
	}{
		{"class header parsed", "Broken.j", broken, "Broken.class", StatusFailed},
		{"no class header", "Gone.j", ".bogus\n", "Gone.class", StatusFailed},
		{"stack underflow", "Bad.j", ".class public pkg/Bad\n.super java/lang/Object\n.method public static f()V\n    pop\n    return\n.end method\n", "Bad.class", StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, a, _ := newProject(t)
			cfg.KeepGoing = true
			writeSource(t, filepath.Join(a, "pkg", tt.file), tt.src)
			stale := filepath.Join(cfg.OutputDir, "pkg", tt.stale)
			writeSource(t, stale, "stale")

			report, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
			if err == nil {
				t.Fatal("expected build error")
			}
			if exists(stale) {
				t.Error("stale output survived a failed build")
			}
			if report.Failed != 1 || report.Units[0].Status != tt.status || report.Units[0].Code == "" {
				t.Errorf("report = %+v", report)
			}
		})
	}
}

func TestBuildKeepGoing(t *testing.T) {
	cfg, a, _ := newProject(t)
	cfg.KeepGoing = true
	writeSource(t, filepath.Join(a, "pkg", "A1.j"), broken)
	writeSource(t, filepath.Join(a, "pkg", "B2.j"), classSource("pkg/B2"))
	writeSource(t, filepath.Join(a, "pkg", "C3.j"), ".class public pkg/C3\n.super java/lang/Object\n.method static f()V\n")

	report, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
	for _, e := range errs {
		if !jerrors.IsKind(e, jerrors.KindParse) {
			t.Errorf("error %v is not a parse error", e)
		}
	}
	if report.Compiled != 1 || report.Failed != 2 || report.Skipped != 0 {
		t.Errorf("report = %+v", report)
	}
	statuses := []Status{report.Units[0].Status, report.Units[1].Status, report.Units[2].Status}
	if statuses[0] != StatusFailed || statuses[1] != StatusCompiled || statuses[2] != StatusFailed {
		t.Errorf("statuses = %v", statuses)
	}
	if !exists(filepath.Join(cfg.OutputDir, "pkg", "B2.class")) {
		t.Error("good unit was not written")
	}
}

func TestBuildFailFast(t *testing.T) {
	cfg, a, _ := newProject(t)
	cfg.Workers = 1
	writeSource(t, filepath.Join(a, "A1.j"), broken)
	writeSource(t, filepath.Join(a, "B2.j"), classSource("B2"))
	writeSource(t, filepath.Join(a, "C3.j"), classSource("C3"))

	report, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	if !jerrors.IsKind(err, jerrors.KindParse) {
		t.Fatalf("err = %v, want a parse error", err)
	}
	if report.Failed != 1 || report.Compiled != 0 || report.Skipped != 2 {
		t.Errorf("report = %+v", report)
	}
	if report.Units[1].Status != StatusSkipped || report.Units[2].Status != StatusSkipped {
		t.Errorf("units = %+v", report.Units)
	}
	if exists(filepath.Join(cfg.OutputDir, "B2.class")) {
		t.Error("queued unit ran after a failure")
	}
}

func TestBuildCancelled(t *testing.T) {
	cfg, a, _ := newProject(t)
	writeSource(t, filepath.Join(a, "Foo.j"), classSource("Foo"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Build(ctx, cfg, zaptest.NewLogger(t))
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report.Skipped != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestBuildUnreadableSource(t *testing.T) {
	cfg, a, _ := newProject(t)
	b := New(cfg, zaptest.NewLogger(t))

	missing := project.NewSource(cfg.SourceDirs, filepath.Join(a, "Missing.j"))
	report, err := b.BuildSources(context.Background(), []project.Source{missing})
	if !jerrors.IsKind(err, jerrors.KindIO) {
		t.Fatalf("err = %v, want an IO error", err)
	}
	if report.Units[0].Code != jerrors.E0500 {
		t.Errorf("unit = %+v", report.Units[0])
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.class")

	for _, content := range []string{"first", "second"} {
		if err := writeFile(path, []byte(content)); err != nil {
			t.Fatalf("writeFile failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != content {
			t.Errorf("content = %q, %v", data, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	err = writeFile(filepath.Join(dir, "missing", "Foo.class"), []byte("x"))
	if !jerrors.IsKind(err, jerrors.KindIO) {
		t.Errorf("err = %v, want an IO error", err)
	}
}

func TestBuildWriteFailureRemovesOldOutput(t *testing.T) {
	cfg, a, _ := newProject(t)
	writeSource(t, filepath.Join(a, "pkg", "Foo.j"), classSource("pkg/Foo"))
	old := filepath.Join(cfg.OutputDir, "pkg", "Foo.class")
	writeSource(t, old, "old")

	sources, err := project.CollectSources(cfg.SourceDirs)
	if err != nil {
		t.Fatal(err)
	}
	b := New(cfg, zaptest.NewLogger(t))
	b.write = func(path string, data []byte) error {
		return jerrors.New(jerrors.E0501, "disk full").At(path, 0, 0)
	}

	report, err := b.BuildSources(context.Background(), sources)
	if !jerrors.IsKind(err, jerrors.KindIO) {
		t.Fatalf("expected IO error, got %v", err)
	}
	if report.Failed != 1 || report.Units[0].Code != jerrors.E0501 {
		t.Errorf("report = %+v", report)
	}
	if exists(old) {
		t.Error("output from the previous build survived a failed write")
	}
}

func TestWriteFileOverDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Foo.class")
	if err := os.MkdirAll(filepath.Join(target, "child"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := writeFile(target, []byte("x")); err == nil {
		t.Fatal("expected rename over a non-empty directory to fail")
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestWriteReport(t *testing.T) {
	cfg, a, _ := newProject(t)
	writeSource(t, filepath.Join(a, "Foo.j"), classSource("Foo"))
	report, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "reports", "build.json")
	if err := WriteReport(report, path); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	loaded, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if loaded.Compiled != 1 || len(loaded.Units) != 1 || loaded.Units[0].Digest != report.Units[0].Digest {
		t.Errorf("loaded = %+v", loaded)
	}
}
