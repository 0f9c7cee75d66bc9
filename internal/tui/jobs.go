package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindScan    jobKind = "scan"
	jobKindDecode  jobKind = "decode"
	jobKindAnalyze jobKind = "analyze"
)

var jobKindOrder = []jobKind{jobKindScan, jobKindDecode, jobKindAnalyze}

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start emits a running snapshot, then runs the job and wraps its payload in
// a jobResultEnvelope carrying the final snapshot.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(context.Background())
		return jobResultEnvelope{Snapshot: finishSnapshot(startSnapshot, err), Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

func finishSnapshot(start jobSnapshot, err error) jobSnapshot {
	snapshot := start
	snapshot.CompletedAt = time.Now()
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	} else {
		snapshot.Status = jobStatusSucceeded
	}
	snapshot.Duration = snapshot.CompletedAt.Sub(start.StartedAt)
	log.Printf("[jobs] %s %s (duration=%s, err=%v)", snapshot.ID, snapshot.Status, snapshot.Duration, err)
	return snapshot
}

func (m *model) recordJob(snapshot jobSnapshot) {
	if m.jobSnapshots == nil {
		m.jobSnapshots = map[jobKind]jobSnapshot{}
	}
	if current, ok := m.jobSnapshots[snapshot.Kind]; ok && current.ID != snapshot.ID && current.StartedAt.After(snapshot.StartedAt) {
		return
	}
	m.jobSnapshots[snapshot.Kind] = snapshot
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	for _, kind := range jobKindOrder {
		snapshot, ok := m.jobSnapshots[kind]
		if !ok {
			continue
		}
		switch snapshot.Status {
		case jobStatusRunning:
			badges = append(badges, fmt.Sprintf("%s…", kind))
		case jobStatusSucceeded:
			badges = append(badges, fmt.Sprintf("%s ✓ %s", kind, snapshot.Duration.Round(time.Millisecond)))
		case jobStatusFailed:
			badges = append(badges, fmt.Sprintf("%s ✗", kind))
		}
	}
	return badges
}
