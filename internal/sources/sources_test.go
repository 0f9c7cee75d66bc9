package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestScanListsFilesRecursively(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.rs":          "fn main() {}",
		"nested/lib.rs":    "pub fn lib() {}",
		"nested/deep/x.rs": "// x",
	})

	handles, err := Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"main.rs", "nested/deep/x.rs", "nested/lib.rs"}
	if len(handles) != len(want) {
		t.Fatalf("expected %d handles, got %d: %#v", len(want), len(handles), handles)
	}
	for i, name := range want {
		if handles[i].Name != name {
			t.Fatalf("handle %d = %q, want %q", i, handles[i].Name, name)
		}
	}
	if handles[0].Size != int64(len("fn main() {}")) {
		t.Fatalf("unexpected size: %d", handles[0].Size)
	}
	if TotalSize(handles) != int64(len("fn main() {}")+len("pub fn lib() {}")+len("// x")) {
		t.Fatalf("unexpected total size: %d", TotalSize(handles))
	}
}

func TestScanSingleFile(t *testing.T) {
	root := writeTree(t, map[string]string{"solo.go": "package solo"})
	handles, err := Scan(filepath.Join(root, "solo.go"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(handles) != 1 || handles[0].Name != "solo.go" {
		t.Fatalf("unexpected handles: %#v", handles)
	}
}

func TestScanMissingPath(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDecodeAllPreservesOrder(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("f%02d.txt", i)] = fmt.Sprintf("content %d", i)
	}
	root := writeTree(t, files)
	handles, err := Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	docs, err := DecodeAll(context.Background(), handles)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 40 {
		t.Fatalf("expected 40 documents, got %d", len(docs))
	}
	for i, doc := range docs {
		if doc.Name != fmt.Sprintf("f%02d.txt", i) || doc.Content != fmt.Sprintf("content %d", i) {
			t.Fatalf("document %d out of order: %#v", i, doc)
		}
	}
}

func TestDecodeAllFailsWhenFileVanishes(t *testing.T) {
	root := writeTree(t, map[string]string{"a.rs": "a", "b.rs": "b", "c.rs": "c"})
	handles, err := Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if err := os.Remove(filepath.Join(root, "b.rs")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	docs, err := DecodeAll(context.Background(), handles)
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if docs != nil {
		t.Fatalf("partial documents returned: %#v", docs)
	}
	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) || readErr.Name != "b.rs" {
		t.Fatalf("expected ReadError naming b.rs, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist cause, got %v", err)
	}
}

func TestDecodeAllEmptySelection(t *testing.T) {
	docs, err := DecodeAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestDecodeTextLikeBrowser(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "odd.txt")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbfhi \xff there"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Decode(Handle{Name: "odd.txt", Path: path})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "hi \uFFFD there" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestDecodeRejectsBrokenPDF(t *testing.T) {
	root := writeTree(t, map[string]string{"paper.PDF": "definitely not a pdf"})
	handles, err := Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := DecodeAll(context.Background(), handles); !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead for broken pdf, got %v", err)
	}
}

func TestToValidTextReplacesMaximalSubparts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid", "héllo", "héllo"},
		{"single bad byte", "a\xffb", "a\uFFFDb"},
		{"run of bad bytes", "\xff\xfe", "\uFFFD\uFFFD"},
		{"truncated sequence", "\xe2\x82a", "\uFFFDa"},
		{"truncated at end", "ok\xf0\x9f\x98", "ok\uFFFD"},
		{"surrogate", "\xed\xa0\x80", "\uFFFD\uFFFD\uFFFD"},
		{"overlong", "\xc0\xaf", "\uFFFD\uFFFD"},
		{"literal replacement char", "\uFFFD", "\uFFFD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toValidText([]byte(tt.in)); got != tt.want {
				t.Fatalf("toValidText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
