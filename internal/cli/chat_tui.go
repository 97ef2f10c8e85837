package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/adityaverma/shopbot-go/internal/api"
	"github.com/adityaverma/shopbot-go/internal/chat"
	"github.com/adityaverma/shopbot-go/internal/state"
)

// Theme holds the color scheme for the chat surface.
type Theme struct {
	User    lipgloss.Color
	Bot     lipgloss.Color
	Product lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Header  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:    lipgloss.Color("#5FAFD7"), // light blue
	Bot:     lipgloss.Color("#00D787"), // green
	Product: lipgloss.Color("#D7AF5F"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Header:  lipgloss.Color("#AF87FF"), // violet
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) botStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Bot)
}

func (t Theme) productStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Product)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}

// sendDoneMsg carries the result of one send.
type sendDoneMsg struct {
	err error
}

// newChatDoneMsg carries the result of a session reset.
type newChatDoneMsg struct {
	err error
}

// sessionsDoneMsg carries the fetched session list.
type sessionsDoneMsg struct {
	sessions []api.ChatSession
	err      error
}

// loadDoneMsg carries the result of a session switch.
type loadDoneMsg struct {
	token string
	err   error
}

// chatModel is the bubbletea model for the conversation surface.
type chatModel struct {
	engine  *chat.Engine
	session *state.Session

	input    textinput.Model
	spin     spinner.Model
	theme    Theme
	width    int
	height   int
	busy     bool
	status   string
	sessions []api.ChatSession
	quitting bool
}

// newChatModel creates the chat surface model.
func newChatModel(engine *chat.Engine, session *state.Session) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask ShopBot anything… ('/quit' to leave)"
	input.CharLimit = 500
	input.Focus()

	return chatModel{
		engine:  engine,
		session: session,
		input:   input,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:   defaultTheme,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sendDoneMsg:
		m.busy = false
		m.status = ""
		if msg.err != nil && !errors.Is(msg.err, chat.ErrStale) {
			m.status = m.theme.errorStyle().Render(sendFailureLine(msg.err))
		}
		return m, nil

	case newChatDoneMsg:
		if msg.err != nil {
			m.status = m.theme.errorStyle().Render("Failed to start a new chat: " + friendlyError(msg.err))
		} else {
			m.status = m.theme.hintStyle().Render("New chat session started.")
			m.sessions = nil
		}
		return m, nil

	case sessionsDoneMsg:
		if msg.err != nil {
			m.status = m.theme.errorStyle().Render("Failed to load sessions: " + friendlyError(msg.err))
		} else {
			m.sessions = msg.sessions
			m.status = ""
		}
		return m, nil

	case loadDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, chat.ErrStale) {
			m.status = m.theme.errorStyle().Render("Failed to load session: " + friendlyError(msg.err))
		} else if msg.err == nil {
			m.status = m.theme.hintStyle().Render("Loaded session " + shortToken(msg.token))
			m.sessions = nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the enter key: slash commands run directly, anything else is
// sent to the assistant. A send issued while one is pending is dropped.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.runCommand(text)
	}

	if m.busy {
		// Busy guard: dropped, not queued.
		return m, nil
	}

	m.input.Reset()
	m.busy = true
	m.status = ""
	return m, tea.Batch(m.spin.Tick, m.sendCmd(text))
}

// runCommand dispatches one slash command.
func (m chatModel) runCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/new":
		return m, m.newChatCmd()

	case "/sessions":
		return m, m.sessionsCmd()

	case "/load":
		if len(fields) < 2 {
			m.status = m.theme.hintStyle().Render("Usage: /load <n> (run /sessions first)")
			return m, nil
		}
		token := m.resolveSessionArg(fields[1])
		if token == "" {
			m.status = m.theme.errorStyle().Render("No such session: " + fields[1])
			return m, nil
		}
		return m, m.loadCmd(token)

	case "/clear":
		m.engine.ClearLocal()
		m.status = ""
		return m, nil

	case "/categories", "/deals", "/featured":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = ""
		return m, tea.Batch(m.spin.Tick, m.quickActionCmd(strings.TrimPrefix(fields[0], "/")))

	default:
		m.status = m.theme.errorStyle().Render("Unknown command: " + fields[0])
		return m, nil
	}
}

// resolveSessionArg turns a /load argument (list index or raw token) into a
// session token.
func (m chatModel) resolveSessionArg(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(m.sessions) {
			return m.sessions[n-1].SessionToken
		}
		return ""
	}
	return arg
}

func (m chatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Send(context.Background(), text)
		return sendDoneMsg{err: err}
	}
}

func (m chatModel) quickActionCmd(action string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.QuickAction(context.Background(), action)
		return sendDoneMsg{err: err}
	}
}

func (m chatModel) newChatCmd() tea.Cmd {
	return func() tea.Msg {
		return newChatDoneMsg{err: m.engine.StartNew(context.Background())}
	}
}

func (m chatModel) sessionsCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.engine.Sessions(context.Background())
		return sessionsDoneMsg{sessions: sessions, err: err}
	}
}

func (m chatModel) loadCmd(token string) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{token: token, err: m.engine.LoadSession(context.Background(), token)}
	}
}

// View renders the chat surface.
func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	history := m.engine.History()
	if len(history) == 0 {
		b.WriteString(m.theme.hintStyle().Render(chat.WelcomeText()))
		b.WriteString("\n")
	} else {
		for _, msg := range history {
			b.WriteString(m.renderMessage(msg))
		}
	}

	if len(m.sessions) > 0 {
		b.WriteString(m.renderSessions())
	}

	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(m.theme.hintStyle().Render(" ShopBot is typing…"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.theme.hintStyle().Render("/new, /sessions, /load <n>, /quit"))
	b.WriteString("\n")

	return b.String()
}

func (m chatModel) renderHeader() string {
	title := m.theme.headerStyle().Render("ShopBot")
	who := ""
	if user := m.session.User(); user != nil {
		who = m.theme.hintStyle().Render(" (" + user.Username + ")")
	}
	thread := ""
	if token := m.session.ActiveSession(); token != "" {
		thread = m.theme.hintStyle().Render("  [" + shortToken(token) + "]")
	}
	return title + who + thread
}

func (m chatModel) renderMessage(msg chat.Message) string {
	var b strings.Builder

	switch msg.Role {
	case chat.RoleUser:
		b.WriteString(m.theme.userStyle().Render("You: "))
		b.WriteString(msg.Content)
	default:
		b.WriteString(m.theme.botStyle().Render("ShopBot: "))
		b.WriteString(msg.Content)
	}
	b.WriteString("\n")

	for _, p := range msg.Products {
		b.WriteString(m.theme.productStyle().Render("  • " + productSummary(p)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m chatModel) renderSessions() string {
	var b strings.Builder
	now := time.Now()
	b.WriteString(m.theme.hintStyle().Render("Previous sessions:"))
	b.WriteString("\n")
	for i, s := range m.sessions {
		when := chat.FormatSessionTime(chat.ParseServerTime(s.UpdatedAt), now)
		b.WriteString(fmt.Sprintf("  %d. %s (%d messages, %s)\n", i+1, shortToken(s.SessionToken), s.MessageCount, when))
	}
	return b.String()
}

// productSummary renders one recommended product inline.
func productSummary(p api.Product) string {
	s := fmt.Sprintf("%s: $%.2f", p.Name, p.DisplayPrice)
	if p.IsOnSale && p.Price != p.DisplayPrice {
		s += fmt.Sprintf(" (was $%.2f)", p.Price)
	}
	if p.Rating > 0 {
		s += fmt.Sprintf(", %.1f★", p.Rating)
	}
	return s
}

// sendFailureLine is the transient status for a failed send; the engine has
// already recorded the error in the conversation history.
func sendFailureLine(err error) string {
	if api.IsUnreachable(err) {
		return "Cannot reach the server. Is the backend running?"
	}
	return "Message failed: " + err.Error()
}

// runChatUI runs the interactive chat surface until the user leaves.
func runChatUI(engine *chat.Engine, session *state.Session) error {
	p := tea.NewProgram(newChatModel(engine, session))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
