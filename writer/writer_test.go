package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ridoystarlord/knexgen/generator"
	"github.com/ridoystarlord/knexgen/schema"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 500, time.UTC)
}

func document(t *testing.T, schemaName, table string, r generator.Renderer) *generator.Document {
	t.Helper()
	doc, err := generator.Generate(schema.Table{
		Schema:  schemaName,
		Name:    table,
		Columns: []schema.ColumnDescriptor{{Name: "id", DataType: "uuid"}},
	}, generator.Options{Renderer: r})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return doc
}

func TestFileName(t *testing.T) {
	w := &Writer{Dir: "out", Now: fixedNow}

	tests := []struct {
		name string
		doc  *generator.Document
		seq  int
		want string
	}{
		{"typescript", document(t, "public", "users", generator.TypeScript), 0, "20240301100000_create_public_users.ts"},
		{"commonjs", document(t, "public", "users", generator.CommonJS), 0, "20240301100000_create_public_users.js"},
		{"sequence offsets seconds", document(t, "public", "orders", nil), 61, "20240301100101_create_public_orders.ts"},
		{"unsafe characters", document(t, "my schema", "a/b", nil), 0, "20240301100000_create_my_schema_a_b.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.FileName(tt.doc, tt.seq); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBaseTimeIsStable(t *testing.T) {
	calls := 0
	w := &Writer{Dir: "out", Now: func() time.Time {
		calls++
		return fixedNow().Add(time.Duration(calls) * time.Hour)
	}}
	doc := document(t, "public", "users", nil)

	first := w.FileName(doc, 0)
	second := w.FileName(doc, 0)
	if first != second || calls != 1 {
		t.Errorf("base timestamp changed between files: %s vs %s (%d calls)", first, second, calls)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	w := &Writer{Dir: dir, Now: fixedNow}
	if err := w.Prepare(false); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	doc := document(t, "public", "users", nil)
	path, err := w.Write(doc, 2)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Base(path) != "20240301100002_create_public_users.ts" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != doc.Text() {
		t.Errorf("file content differs from document text")
	}
}

func TestPrepareClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "20200101000000_create_public_old.ts")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(dir)
	if err := w.Prepare(false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("Prepare(false) removed existing files: %v", err)
	}

	if err := w.Prepare(true); err != nil {
		t.Fatalf("Prepare(true) error = %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived clean: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not recreated: %v", err)
	}
}

func TestPrepareCleanRefusesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	for _, target := range []string{".", dir, ".."} {
		err := New(target).Prepare(true)
		if err == nil || !strings.Contains(err.Error(), "refusing") {
			t.Errorf("Prepare(true) on %q = %v, want refusal", target, err)
		}
	}
}
