// Package app is the root Bubble Tea model of `parabola play`.
package app

import (
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parabola/internal/router"
	"github.com/abhisek/parabola/internal/screen"
	"github.com/abhisek/parabola/internal/screens/exercise"
	"github.com/abhisek/parabola/internal/screens/result"
	"github.com/abhisek/parabola/internal/session"
	"github.com/abhisek/parabola/internal/ui/layout"
)

// Options configures Run.
type Options struct {
	Session *session.ExerciseSession
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel starts on the exercise, or on its result when the session
// already finished.
func newAppModel(sess *session.ExerciseSession) AppModel {
	var initial screen.Screen
	if sub := sess.Submission(); sess.Stage() == session.StageCompleted && sub != nil {
		initial = result.New(sub)
	} else {
		initial = exercise.New(sess)
	}
	return AppModel{router: router.New(initial)}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	step, steps := 0, 0
	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StepProvider); ok {
			step, steps = sp.Step()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, step, steps, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program on opts.Session.
func Run(opts Options) error {
	if opts.Session == nil {
		return errors.New("app: no session")
	}
	p := tea.NewProgram(newAppModel(opts.Session))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
