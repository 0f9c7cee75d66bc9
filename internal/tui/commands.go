package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/srcscout/internal/analysis"
	"github.com/csheth/srcscout/internal/sources"
)

const decodeTimeout = time.Minute

func scanJob(path string) jobRunner {
	root := expandHome(path)
	return func(context.Context) (tea.Msg, error) {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		files, err := sources.Scan(root)
		return selectionResultMsg{root: root, files: files, err: err}, err
	}
}

func decodeJob(cycle uint64, files []sources.Handle) jobRunner {
	toDecode := append([]sources.Handle(nil), files...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, decodeTimeout)
		defer cancel()
		docs, err := sources.DecodeAll(ctx, toDecode)
		return decodeResultMsg{cycle: cycle, docs: docs, err: err}, err
	}
}

func analyzeJob(cycle uint64, client analysis.Analyzer, question string, docs []sources.Document) jobRunner {
	files := make([]analysis.File, 0, len(docs))
	for _, doc := range docs {
		files = append(files, analysis.File{Name: doc.Name, Content: doc.Content})
	}
	return func(parent context.Context) (tea.Msg, error) {
		if client == nil {
			return analyzeResultMsg{cycle: cycle, err: errNoAnalyzer}, errNoAnalyzer
		}
		outcome, err := client.Analyze(parent, analysis.Request{Question: question, Files: files})
		return analyzeResultMsg{cycle: cycle, outcome: outcome, err: err}, err
	}
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
