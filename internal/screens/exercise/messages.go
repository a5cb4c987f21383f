package exercise

import (
	"github.com/abhisek/parabola/internal/session"
)

// gradedMsg is sent when the explanation round-trip finishes.
type gradedMsg struct {
	Submission *session.Submission
	Err        error
}

// sessionEventMsg carries one session event to the screen.
type sessionEventMsg session.Event
