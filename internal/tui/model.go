package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/srcscout/internal/analysis"
	"github.com/csheth/srcscout/internal/session"
	"github.com/csheth/srcscout/internal/sources"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Analyzer analysis.Analyzer
	// InitialPath is scanned and selected when the program starts.
	InitialPath string
	// Question prefills the composer.
	Question string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	layout := newPageLayout()

	composer := textarea.New()
	composer.Placeholder = composerPlaceholder
	composer.ShowLineNumbers = false
	composer.Prompt = "┃ "
	composer.CharLimit = composerCharLimit
	composer.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	composer.SetWidth(layout.composerWidth)
	composer.SetHeight(composerMinRows)
	composer.Focus()

	pathInput := textinput.New()
	pathInput.Placeholder = pickerPlaceholder
	pathInput.CharLimit = 512
	pathInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	m := &model{
		config:    config,
		stage:     stageCompose,
		composer:  composer,
		pathInput: pathInput,
		spinner:   spin,
		viewport:  vp,
		layout:    layout,
		jobs:      newJobBus(),
		cooldown:  newCooldownTimer(),
	}
	if config.Question != "" {
		m.composer.SetValue(config.Question)
		m.state, _ = session.Reduce(m.state, session.QuestionEdited{Text: config.Question})
		m.resizeComposer()
	}
	return m
}

type model struct {
	config Config
	stage  stage
	state  session.State

	composer  textarea.Model
	pathInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model
	layout    pageLayout

	jobs         *jobBus
	jobSnapshots map[jobKind]jobSnapshot
	cooldown     cooldownTimer
	pendingDocs  []sources.Document

	viewportDirty bool
	helpVisible   bool
	quitting      bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if strings.TrimSpace(m.config.InitialPath) != "" {
		cmds = append(cmds, m.jobs.Start(jobKindScan, scanJob(m.config.InitialPath)))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state.InFlight() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.composer.SetWidth(m.layout.composerWidth)
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case selectionResultMsg:
		if msg.err != nil {
			return m, m.apply(session.SelectionFailed{Err: msg.err})
		}
		return m, m.apply(session.FilesSelected{Root: msg.root, Files: msg.files})
	case decodeResultMsg:
		if msg.err != nil {
			return m, m.apply(session.DecodeFailed{Cycle: msg.cycle, Err: msg.err})
		}
		m.pendingDocs = msg.docs
		return m, m.apply(session.DecodeSucceeded{Cycle: msg.cycle})
	case analyzeResultMsg:
		if msg.err != nil {
			return m, m.apply(session.RequestFailed{Cycle: msg.cycle, Err: msg.err})
		}
		return m, m.apply(session.ResponseReceived{Cycle: msg.cycle, Outcome: msg.outcome})
	case cooldownTickMsg:
		if !m.cooldown.Accept(msg) {
			return m, nil
		}
		cmd := m.apply(session.CooldownTicked{})
		if !m.state.CoolingDown() {
			m.cooldown.Stop()
		}
		return m, cmd
	}
	return m, nil
}

// apply runs ev through the session reducer and turns the resulting effect
// into a command.
func (m *model) apply(ev session.Event) tea.Cmd {
	prev := m.state
	next, effect := session.Reduce(m.state, ev)
	m.state = next
	if prev.Response != next.Response {
		m.viewport.GotoTop()
		m.markViewportDirty()
	}
	switch effect {
	case session.EffectDecode:
		m.pendingDocs = nil
		return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindDecode, decodeJob(next.Cycle, next.Files)))
	case session.EffectSend:
		docs := m.pendingDocs
		m.pendingDocs = nil
		return m.jobs.Start(jobKindAnalyze, analyzeJob(next.Cycle, m.config.Analyzer, next.Question, docs))
	case session.EffectStartCooldown:
		return m.cooldown.Start()
	case session.EffectScheduleTick:
		return m.cooldown.Next()
	}
	return nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, m.quit()
	}
	switch m.stage {
	case stagePicker:
		return m.handlePickerKey(msg)
	default:
		return m.handleComposeKey(msg)
	}
}

func (m *model) quit() tea.Cmd {
	m.quitting = true
	m.cooldown.Stop()
	return tea.Quit
}

func (m *model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submit()
	case "ctrl+o":
		return m, m.openPicker()
	case "ctrl+x":
		return m, m.apply(session.FilesCleared{})
	case "ctrl+k":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.resizeComposer()
	if value := m.composer.Value(); value != m.state.Question {
		return m, tea.Batch(cmd, m.apply(session.QuestionEdited{Text: value}))
	}
	return m, cmd
}

// submit is the Send button: a no-op while disabled.
func (m *model) submit() tea.Cmd {
	if !m.state.CanSubmit() {
		return nil
	}
	m.state, _ = session.Reduce(m.state, session.QuestionEdited{Text: m.composer.Value()})
	return m.apply(session.SubmitRequested{})
}

func (m *model) openPicker() tea.Cmd {
	m.stage = stagePicker
	start := m.state.Root
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		}
	}
	m.pathInput.SetValue(start)
	m.pathInput.CursorEnd()
	m.composer.Blur()
	return m.pathInput.Focus()
}

func (m *model) closePicker() tea.Cmd {
	m.stage = stageCompose
	m.pathInput.Blur()
	return m.composer.Focus()
}

func (m *model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, m.closePicker()
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		focus := m.closePicker()
		if path == "" {
			return m, focus
		}
		return m, tea.Batch(focus, m.jobs.Start(jobKindScan, scanJob(path)))
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *model) resizeComposer() {
	rows := strings.Count(m.composer.Value(), "\n") + 1
	if rows < composerMinRows {
		rows = composerMinRows
	}
	if rows > composerMaxRows {
		rows = composerMaxRows
	}
	m.composer.SetHeight(rows)
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	if m.state.Response == "" {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(wordwrap.String(m.state.Response, m.wrapWidth(2)))
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width - padding
	if width < minViewportWidth-padding {
		width = minViewportWidth - padding
	}
	return width
}
