// Package session holds the submission state of a SrcScout run and the pure
// transition function that moves it between phases.
package session

import (
	"errors"
	"fmt"

	"github.com/csheth/srcscout/internal/analysis"
	"github.com/csheth/srcscout/internal/sources"
)

// Phase tracks where the current submission cycle is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReading
	PhaseAwaiting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReading:
		return "reading"
	case PhaseAwaiting:
		return "awaiting"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ErrorKind classifies the error currently shown to the user.
type ErrorKind int

const (
	NoError ErrorKind = iota
	MissingInput
	FileReadError
	RateLimited
	ServerError
	NetworkError
	SelectionError
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case MissingInput:
		return "missing-input"
	case FileReadError:
		return "file-read"
	case RateLimited:
		return "rate-limited"
	case ServerError:
		return "server"
	case NetworkError:
		return "network"
	case SelectionError:
		return "selection"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// User-facing messages.
const (
	MissingInputMessage   = "Please provide both a question and files."
	RateLimitedMessage    = "I need a sec! Ask again after the cooldown is done."
	ServerFallbackMessage = "Unexpected error from server."
	NetworkMessage        = "Error sending request."
	NoAnswerPlaceholder   = "No answer returned."
)

// State is an immutable snapshot; Reduce returns a new value per event.
type State struct {
	Question string
	Files    []sources.Handle
	Root     string
	Phase    Phase
	// Cooldown is the number of seconds left before submitting is allowed
	// again. Zero means no cooldown.
	Cooldown  int
	Response  string
	ErrorKind ErrorKind
	Error     string
	// Cycle identifies the latest submission; results tagged with an older
	// cycle are dropped.
	Cycle uint64
}

// InFlight reports whether a submission cycle is running.
func (s State) InFlight() bool {
	return s.Phase != PhaseIdle
}

// CoolingDown reports whether the rate-limit cooldown is active.
func (s State) CoolingDown() bool {
	return s.Cooldown > 0
}

// CanSubmit reports whether a submit event would be acted upon. It does not
// validate input; a missing question or selection is reported by Reduce.
func (s State) CanSubmit() bool {
	return !s.InFlight() && !s.CoolingDown()
}

func (s State) withError(kind ErrorKind, message string) State {
	s.ErrorKind = kind
	s.Error = message
	s.Response = ""
	return s
}

func (s State) clearOutput() State {
	s.ErrorKind = NoError
	s.Error = ""
	s.Response = ""
	return s
}

// Effect asks the event loop to schedule asynchronous work after a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectDecode starts decoding every selected file for State.Cycle.
	EffectDecode
	// EffectSend issues the single analysis request for State.Cycle.
	EffectSend
	// EffectStartCooldown starts a fresh one-second cooldown ticker.
	EffectStartCooldown
	// EffectScheduleTick re-arms the running cooldown ticker.
	EffectScheduleTick
)

// Event is an input to Reduce.
type Event interface {
	event()
}

type (
	// QuestionEdited replaces the question text.
	QuestionEdited struct{ Text string }
	// FilesSelected replaces the file selection wholesale.
	FilesSelected struct {
		Root  string
		Files []sources.Handle
	}
	// SelectionFailed reports a path that could not be scanned.
	SelectionFailed struct{ Err error }
	// FilesCleared empties the selection and the last output.
	FilesCleared struct{}
	// SubmitRequested starts a cycle when allowed.
	SubmitRequested struct{}
	// DecodeSucceeded moves the cycle on to the network request.
	DecodeSucceeded struct{ Cycle uint64 }
	// DecodeFailed ends the cycle without sending anything.
	DecodeFailed struct {
		Cycle uint64
		Err   error
	}
	// ResponseReceived carries a classified reply.
	ResponseReceived struct {
		Cycle   uint64
		Outcome analysis.Outcome
	}
	// RequestFailed reports a request that could not be completed.
	RequestFailed struct {
		Cycle uint64
		Err   error
	}
	// CooldownTicked is delivered once per second while cooling down.
	CooldownTicked struct{}
)

func (QuestionEdited) event()   {}
func (FilesSelected) event()    {}
func (SelectionFailed) event()  {}
func (FilesCleared) event()     {}
func (SubmitRequested) event()  {}
func (DecodeSucceeded) event()  {}
func (DecodeFailed) event()     {}
func (ResponseReceived) event() {}
func (RequestFailed) event()    {}
func (CooldownTicked) event()   {}

// Reduce applies ev to s and reports the follow-up work, if any.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case QuestionEdited:
		s.Question = ev.Text
		return s, EffectNone

	case FilesSelected:
		s.Files = append([]sources.Handle(nil), ev.Files...)
		s.Root = ev.Root
		if s.ErrorKind != NoError {
			s.ErrorKind = NoError
			s.Error = ""
		}
		return s, EffectNone

	case SelectionFailed:
		return s.withError(SelectionError, fmt.Sprintf("Could not open selection: %v", ev.Err)), EffectNone

	case FilesCleared:
		s.Files = nil
		s.Root = ""
		return s.clearOutput(), EffectNone

	case SubmitRequested:
		if !s.CanSubmit() {
			return s, EffectNone
		}
		if s.Question == "" || len(s.Files) == 0 {
			return s.withError(MissingInput, MissingInputMessage), EffectNone
		}
		s = s.clearOutput()
		s.Phase = PhaseReading
		s.Cycle++
		return s, EffectDecode

	case DecodeSucceeded:
		if ev.Cycle != s.Cycle || s.Phase != PhaseReading {
			return s, EffectNone
		}
		s.Phase = PhaseAwaiting
		return s, EffectSend

	case DecodeFailed:
		if ev.Cycle != s.Cycle || s.Phase != PhaseReading {
			return s, EffectNone
		}
		s.Phase = PhaseIdle
		return s.withError(FileReadError, fileReadMessage(ev.Err)), EffectNone

	case ResponseReceived:
		if ev.Cycle != s.Cycle || s.Phase != PhaseAwaiting {
			return s, EffectNone
		}
		s.Phase = PhaseIdle
		return applyOutcome(s, ev.Outcome)

	case RequestFailed:
		if ev.Cycle != s.Cycle || s.Phase != PhaseAwaiting {
			return s, EffectNone
		}
		s.Phase = PhaseIdle
		return s.withError(NetworkError, NetworkMessage), EffectNone

	case CooldownTicked:
		if s.Cooldown <= 0 {
			s.Cooldown = 0
			return s, EffectNone
		}
		s.Cooldown--
		if s.Cooldown > 0 {
			return s, EffectScheduleTick
		}
		return s, EffectNone
	}
	return s, EffectNone
}

func applyOutcome(s State, outcome analysis.Outcome) (State, Effect) {
	switch outcome.Kind {
	case analysis.RateLimited:
		s = s.withError(RateLimited, RateLimitedMessage)
		if outcome.RetryAfter <= 0 {
			s.Cooldown = 0
			return s, EffectNone
		}
		s.Cooldown = outcome.RetryAfter
		return s, EffectStartCooldown
	case analysis.Rejected:
		message := outcome.Message
		if message == "" {
			message = ServerFallbackMessage
		}
		return s.withError(ServerError, message), EffectNone
	default:
		s = s.clearOutput()
		s.Response = outcome.Answer
		if s.Response == "" {
			s.Response = NoAnswerPlaceholder
		}
		return s, EffectNone
	}
}

func fileReadMessage(err error) string {
	var readErr *sources.ReadError
	if errors.As(err, &readErr) {
		return fmt.Sprintf("Could not read %s as text: %v", readErr.Name, readErr.Err)
	}
	if err != nil {
		return fmt.Sprintf("Could not read the selected files: %v", err)
	}
	return "Could not read the selected files."
}
