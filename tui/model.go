package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// state represents the current phase shown by the TUI.
type state int

const (
	stateInit       state = iota
	stateChecking         // session bootstrap in progress
	stateRefreshing       // token refresh in flight
	stateLoggingIn        // login request in flight
	stateWorking          // command waiting on the API
	stateDone             // command finished
	stateError            // command failed
)

// statusKind distinguishes line types in the status log.
type statusKind int

const (
	statusOK   statusKind = iota
	statusWarn            // warning / non-fatal
	statusInfo            // neutral info
)

// statusLine is one row in the scrolling status log.
type statusLine struct {
	kind statusKind
	text string
}

// Model is the BubbleTea model for command progress.
type Model struct {
	state   state
	spinner spinner.Model
	width   int
	height  int

	baseURL string
	task    string
	summary string
	errMsg  string

	statusLines []statusLine
}

var (
	styleTitleBox = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 2)

	styleOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleErr  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// NewModel creates the initial TUI model.
func NewModel() Model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))),
	)
	return Model{
		state:   stateInit,
		spinner: s,
	}
}

// Init starts the spinner animation.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case MsgBanner:
		m.baseURL = msg.BaseURL
		return m, nil

	case MsgChecking:
		m.state = stateChecking
		return m, nil

	case MsgSessionActive:
		m.addStatus(statusOK, "Session already active")
		return m, nil

	case MsgPersistDisabled:
		m.addStatus(statusInfo, "Silent sign-in is off")
		return m, nil

	case MsgNoSavedSession:
		m.addStatus(statusInfo, "No saved session found")
		return m, nil

	case MsgRefreshing:
		m.state = stateRefreshing
		m.addStatus(statusInfo, "Refreshing access token...")
		return m, nil

	case MsgRefreshOK:
		m.addStatus(statusOK, "Token refreshed successfully")
		return m, nil

	case MsgRefreshFailed:
		m.addStatus(statusWarn, fmt.Sprintf("Refresh failed: %v", msg.Err))
		return m, nil

	case MsgCredentialSaved:
		m.addStatus(statusOK, "Refresh credential saved")
		return m, nil

	case MsgCredentialSaveFailed:
		m.addStatus(statusWarn, fmt.Sprintf("Warning: failed to save refresh credential: %v", msg.Err))
		return m, nil

	case MsgAccessTokenRejected:
		m.addStatus(statusWarn, "Access token rejected (401), refreshing...")
		return m, nil

	case MsgTokenRefreshedRetrying:
		m.addStatus(statusOK, "Token refreshed, retrying request...")
		return m, nil

	case MsgSessionExpired:
		m.addStatus(statusWarn, "Session expired, please log in again")
		return m, nil

	case MsgLoggingIn:
		m.state = stateLoggingIn
		m.task = "Logging in as " + msg.Email
		return m, nil

	case MsgLoggedIn:
		m.addStatus(statusOK, fmt.Sprintf("Logged in (%s token)", msg.TokenType))
		return m, nil

	case MsgLoggedOut:
		m.addStatus(statusOK, "Logged out")
		return m, nil

	case MsgReady:
		if msg.Authenticated {
			m.addStatus(statusOK, "Session ready")
		} else {
			m.addStatus(statusInfo, "Not logged in")
		}
		m.state = stateInit
		return m, nil

	case MsgWorking:
		m.state = stateWorking
		m.task = msg.Task
		return m, nil

	case MsgDone:
		m.summary = msg.Summary
		m.state = stateDone
		return m, nil

	case MsgFatal:
		m.errMsg = msg.Err.Error()
		m.state = stateError
		return m, nil
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() tea.View {
	switch m.state {
	case stateDone:
		return tea.NewView(m.viewDone())
	case stateError:
		return tea.NewView(m.viewError())
	default:
		return tea.NewView(m.viewMain())
	}
}

func (m Model) viewMain() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(styleTitleBox.Render("  rentdesk  "))
	if m.baseURL != "" {
		b.WriteString(" ")
		b.WriteString(styleDim.Render(m.baseURL))
	}
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	switch m.state {
	case stateChecking:
		b.WriteString(" Checking session...\n")
	case stateRefreshing:
		b.WriteString(" Refreshing access token...\n")
	case stateLoggingIn, stateWorking:
		b.WriteString(" " + m.task + "...\n")
	default:
		b.WriteString(" Starting...\n")
	}

	b.WriteString(m.viewStatusLog())
	return b.String()
}

func (m Model) viewDone() string {
	var b strings.Builder

	b.WriteString("\n")
	text := "  ✓ Done"
	if m.summary != "" {
		text += ": " + m.summary
	}
	b.WriteString(styleOK.Render(text))
	b.WriteString("\n")

	b.WriteString(m.viewStatusLog())
	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(styleErr.Render("  ✗ Command failed"))
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render("  " + m.errMsg))
	b.WriteString("\n")

	b.WriteString(m.viewStatusLog())
	return b.String()
}

// viewStatusLog renders the scrolling status log.
func (m Model) viewStatusLog() string {
	if len(m.statusLines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	for _, line := range m.statusLines {
		switch line.kind {
		case statusOK:
			b.WriteString(styleOK.Render("  ✓ " + line.text))
		case statusWarn:
			b.WriteString(styleWarn.Render("  ⚠ " + line.text))
		default:
			b.WriteString(styleDim.Render("  · " + line.text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) addStatus(kind statusKind, text string) {
	m.statusLines = append(m.statusLines, statusLine{kind: kind, text: text})
}
