package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AskPort is the TUI-facing subset of the QA API.
type AskPort interface {
	Ask(question string) (string, error)
}

// apology shown instead of internal error detail when a question fails.
const apology = "Sorry, I encountered an error while processing your question. Please try again."

type message struct {
	fromUser bool
	text     string
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	api      AskPort
	input    textinput.Model
	viewport viewport.Model
	messages []message
	status   string
	ready    bool
}

// New creates a new chat model. The status line shows upload feedback from
// the caller (e.g. "Indexed policy.pdf: 12 chunks").
func New(api AskPort, status string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your policy document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{api: api, input: ti, viewport: vp, status: status}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.messages = append(m.messages, message{fromUser: true, text: q})
				answer, err := m.api.Ask(q)
				if err != nil {
					m.messages = append(m.messages, message{text: apology})
				} else {
					m.messages = append(m.messages, message{text: answer})
				}
				m.input.SetValue("")
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Policy Assistant")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.messages) == 0 {
		return "Ask me anything about your uploaded policy document."
	}
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.fromUser {
			b.WriteString(userStyle.Render("You: ") + msg.text)
		} else {
			b.WriteString(botStyle.Render("Assistant: ") + msg.text)
		}
	}
	return b.String()
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
