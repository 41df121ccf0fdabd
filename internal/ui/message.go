package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLibraryChanged MsgKind = iota
	MsgChatAnswered
)

// libraryChangedMsg is the constructor for [MsgLibraryChanged]
func libraryChangedMsg() Msg {
	return Msg{kind: MsgLibraryChanged}
}

type chatAnswer struct {
	result *services.ChatResult
	err    error
}

// chatAnsweredMsg is the constructor for [MsgChatAnswered]
func chatAnsweredMsg(result *services.ChatResult, err error) Msg {
	return Msg{kind: MsgChatAnswered, data: chatAnswer{result, err}}
}

// Events carries notifications from the library into the bubbletea loop.
//
// Store and search changes only mark the model dirty; the model re-reads state when it handles the message.
type Events struct {
	dirty chan struct{}

	mu      sync.Mutex
	notices []string
}

// NewEvents creates an empty event hub.
func NewEvents() *Events {
	return &Events{dirty: make(chan struct{}, 1)}
}

// Failure records a failed library operation. Pass it to [library.WithFailureHook].
func (e *Events) Failure(f library.Failure) {
	e.mu.Lock()
	e.notices = append(e.notices, f.Error())
	e.mu.Unlock()
	e.poke()
}

func (e *Events) poke() {
	select {
	case e.dirty <- struct{}{}:
	default:
	}
}

// drain returns and clears the pending notices.
func (e *Events) drain() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	notices := e.notices
	e.notices = nil
	return notices
}

func (e *Events) wait() tea.Cmd {
	return func() tea.Msg {
		<-e.dirty
		return libraryChangedMsg()
	}
}
