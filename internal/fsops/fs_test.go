package fsops

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestRealFS_CreateCommit(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "backup-1.sql")

	out, err := fs.Create(target)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := io.WriteString(out, "CREATE TABLE wp_posts;"); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	exists, _ := fs.Exists(target)
	if exists {
		t.Error("target must not exist before Commit")
	}
	exists, _ = fs.Exists(target + PartialSuffix)
	if !exists {
		t.Error("partial file should exist while writing")
	}

	if err := out.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if string(data) != "CREATE TABLE wp_posts;" {
		t.Errorf("unexpected content: %q", data)
	}

	exists, _ = fs.Exists(target + PartialSuffix)
	if exists {
		t.Error("partial file should be gone after Commit")
	}

	if err := out.Commit(); err == nil {
		t.Error("second Commit should fail")
	}
}

func TestRealFS_CreateAbort(t *testing.T) {
	fs := NewRealFS()
	target := filepath.Join(t.TempDir(), "backup-2.sql")

	out, err := fs.Create(target)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, _ = io.WriteString(out, "half a dump")

	if err := out.Abort(); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}

	for _, p := range []string{target, target + PartialSuffix} {
		exists, err := fs.Exists(p)
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Errorf("%s should not exist after Abort", p)
		}
	}

	if err := out.Abort(); err != nil {
		t.Errorf("second Abort should be a no-op, got %v", err)
	}
}

func TestRealFS_CreateGzip(t *testing.T) {
	fs := NewRealFS()
	target := filepath.Join(t.TempDir(), "backup-1.sql.gz")

	out, err := fs.Create(target)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, _ = io.WriteString(out, "INSERT INTO wp_options VALUES (1);")
	if err := out.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	f, err := os.Open(target)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("target is not gzip: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if string(data) != "INSERT INTO wp_options VALUES (1);" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	exists, err := fs.Exists(filepath.Join(dir, "missing.sql"))
	if err != nil || exists {
		t.Errorf("Exists(missing) = %v, %v", exists, err)
	}

	exists, err = fs.Exists(dir)
	if err != nil || !exists {
		t.Errorf("Exists(dir) = %v, %v", exists, err)
	}
}
