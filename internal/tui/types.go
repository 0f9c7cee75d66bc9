package tui

import (
	"errors"

	"github.com/csheth/srcscout/internal/analysis"
	"github.com/csheth/srcscout/internal/sources"
)

type stage int

const (
	stageCompose stage = iota
	stagePicker
)

const heroTagline = "Ask questions about your source tree with SrcScout."

const (
	minViewportWidth          = 40
	minComposerWidth          = 20
	viewportHorizontalPadding = 4
	sendButtonWidth           = 16
	composerMinRows           = 1
	composerMaxRows           = 6
	composerCharLimit         = 8000
)

const (
	composerPlaceholder = "Upload your project src folder and ask a question!"
	pickerPlaceholder   = "Path to a source directory or file…"
	capacityWarning     = "⚠️ This tool is best used with small to mid sized projects. Large folders may exceed processing capacity."
)

var errNoAnalyzer = errors.New("no analysis endpoint configured")

type selectionResultMsg struct {
	root  string
	files []sources.Handle
	err   error
}

type decodeResultMsg struct {
	cycle uint64
	docs  []sources.Document
	err   error
}

type analyzeResultMsg struct {
	cycle   uint64
	outcome analysis.Outcome
	err     error
}
