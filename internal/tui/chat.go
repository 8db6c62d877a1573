// Package tui provides the interactive chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/codifyapp/codify-go/internal/chat"
)

const sendTimeout = 2 * time.Minute

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Code      lipgloss.Color
	Hint      lipgloss.Color
	Error     lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Code:      lipgloss.Color("#AF87FF"), // purple
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	Error:     lipgloss.Color("#FF005F"), // red
}

// Style functions for dynamic theming
func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant).Bold(true)
}

func (t Theme) codeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Code)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) emphasisStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// replyMsg carries the assistant's response back into the event loop.
type replyMsg struct {
	reply chat.Message
}

// chatModel is the bubbletea model for the chat session.
type chatModel struct {
	store    *chat.Store
	theme    Theme
	input    textinput.Model
	spinner  spinner.Model
	sending  bool
	quitting bool
	width    int
}

// newChatModel creates a new chat model.
func newChatModel(store *chat.Store) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about your code..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		store:   store,
		theme:   defaultTheme,
		input:   ti,
		spinner: sp,
		width:   80,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+n":
			if !m.sending {
				m.store.NewThread()
			}
			return m, nil
		case "enter":
			content := strings.TrimSpace(m.input.Value())
			if content == "" || m.sending {
				return m, nil
			}
			m.input.SetValue("")
			m.input.Blur()
			m.sending = true
			return m, tea.Batch(m.spinner.Tick, m.send(content))
		}

	case replyMsg:
		m.sending = false
		m.input.Focus()
		return m, textinput.Blink

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat display.
func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m chatModel) renderContent() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	active := m.store.Active()
	b.WriteString(m.theme.hintStyle().Render(active.Title))
	b.WriteString("\n\n")

	for _, msg := range active.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.sending {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.hintStyle().Render(" thinking..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.theme.hintStyle().Render("Enter to send • Ctrl+N new conversation • Esc to quit"))
	b.WriteString("\n")

	return b.String()
}

// renderMessage renders one message: a role label and the formatted
// content blocks.
func (m chatModel) renderMessage(msg chat.Message) string {
	var b strings.Builder

	switch msg.Type {
	case chat.RoleUser:
		b.WriteString(m.theme.userStyle().Render("You"))
	default:
		b.WriteString(m.theme.assistantStyle().Render("Codify"))
	}
	b.WriteString("\n")

	for _, block := range chat.Format(msg.Content) {
		b.WriteString(m.renderBlock(block))
	}
	return b.String()
}

func (m chatModel) renderBlock(block chat.Block) string {
	switch block.Kind {
	case chat.KindCode:
		return m.theme.codeStyle().Render(block.Text) + "\n"
	case chat.KindList:
		var b strings.Builder
		for _, item := range block.Items {
			b.WriteString("  • ")
			b.WriteString(item)
			b.WriteString("\n")
		}
		return b.String()
	default:
		var b strings.Builder
		for _, span := range block.Spans {
			if span.Code {
				b.WriteString(m.theme.codeStyle().Render(span.Text))
			} else if block.Emphasized {
				b.WriteString(m.theme.emphasisStyle().Render(span.Text))
			} else {
				b.WriteString(span.Text)
			}
		}
		b.WriteString("\n")
		return b.String()
	}
}

// send dispatches the message in a command so Update() never blocks.
func (m chatModel) send(content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		reply := m.store.SendMessage(ctx, content)
		return replyMsg{reply: reply}
	}
}

// RunChat runs the interactive chat UI until the user quits.
func RunChat(store *chat.Store) error {
	p := tea.NewProgram(newChatModel(store))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
