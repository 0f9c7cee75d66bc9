package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestScanJobResolvesAbsoluteRoot(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "package a", "sub/b.go": "package b"})
	msg, err := scanJob(dir)(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	result := msg.(selectionResultMsg)
	if !filepath.IsAbs(result.root) {
		t.Fatalf("root should be absolute, got %q", result.root)
	}
	if len(result.files) != 2 {
		t.Fatalf("files = %d, want 2", len(result.files))
	}
}

func TestDecodeJobKeepsCycle(t *testing.T) {
	m := newTestModel(t)
	selectTree(t, m, map[string]string{"a.txt": "alpha"})
	msg, err := decodeJob(3, m.state.Files)(context.Background())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	result := msg.(decodeResultMsg)
	if result.cycle != 3 || len(result.docs) != 1 || result.docs[0].Content != "alpha" {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestAnalyzeJobWithoutClient(t *testing.T) {
	msg, err := analyzeJob(1, nil, "q", nil)(context.Background())
	if !errors.Is(err, errNoAnalyzer) {
		t.Fatalf("err = %v, want errNoAnalyzer", err)
	}
	if result := msg.(analyzeResultMsg); !errors.Is(result.err, errNoAnalyzer) {
		t.Fatalf("result err = %v", result.err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cases := map[string]string{
		"~":        home,
		"~/src":    filepath.Join(home, "src"),
		" /tmp/x ": "/tmp/x",
		"~other/x": "~other/x",
		"relative": "relative",
	}
	for in, want := range cases {
		if got := expandHome(in); got != want {
			t.Errorf("expandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecordJobKeepsNewestSnapshot(t *testing.T) {
	m := newTestModel(t)
	now := time.Now()
	m.recordJob(jobSnapshot{ID: "decode-2", Kind: jobKindDecode, Status: jobStatusRunning, StartedAt: now})
	m.recordJob(jobSnapshot{ID: "decode-1", Kind: jobKindDecode, Status: jobStatusFailed, StartedAt: now.Add(-time.Second)})
	if got := m.jobSnapshots[jobKindDecode].ID; got != "decode-2" {
		t.Fatalf("older snapshot replaced newer one, got %s", got)
	}
	badges := m.jobStatusBadges()
	if len(badges) != 1 || badges[0] != "decode…" {
		t.Fatalf("badges = %v", badges)
	}
}

func TestFinishSnapshot(t *testing.T) {
	start := jobSnapshot{ID: "analyze-1", Kind: jobKindAnalyze, Status: jobStatusRunning, StartedAt: time.Now()}
	if got := finishSnapshot(start, nil); got.Status != jobStatusSucceeded {
		t.Fatalf("status = %s", got.Status)
	}
	failed := finishSnapshot(start, errors.New("boom"))
	if failed.Status != jobStatusFailed || failed.Err != "boom" {
		t.Fatalf("unexpected snapshot %#v", failed)
	}
}
