package tuitest

import (
	"bytes"
	"io"
)

// terminalQuery is a sequence the program writes to probe the terminal and
// the reply a real terminal would send back.
type terminalQuery struct {
	query []byte
	reply []byte
}

// Cursor position and foreground/background colour queries, with BEL and ST
// terminators. lipgloss and bubbletea block on these at startup.
var terminalQueries = []terminalQuery{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

const (
	responderMaxBuffer = 256
	responderTail      = 64
)

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

// Process answers every query found in chunk. A short tail is kept so
// queries split across reads are still detected.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > responderMaxBuffer {
		tr.buf = tr.buf[len(tr.buf)-responderTail:]
	}
}

// answerNext replies to the earliest pending query and drops the buffer up
// to its end.
func (tr *terminalResponder) answerNext() bool {
	first, end := -1, 0
	var reply []byte
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.buf, q.query)
		if idx < 0 || (first >= 0 && idx >= first) {
			continue
		}
		first, end, reply = idx, idx+len(q.query), q.reply
	}
	if first < 0 {
		return false
	}
	tr.buf = tr.buf[end:]
	_, _ = tr.w.Write(reply)
	return true
}
