package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolucodes/vaultpay/internal/records"
)

const deliveryPageSize = 50

// HealthState tracks service health from /healthz polling.
type HealthState struct {
	Status        string
	UptimeSeconds int64
	Connected     bool
	LastCheck     time.Time
}

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	apiURL string
	apiKey string

	width  int
	height int

	health     HealthState
	deliveries []records.Delivery

	deliveryTable table.Model
	theme         Theme
	lastError     string
}

// New creates a new watch TUI model.
func New(apiURL, apiKey string) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Received", Width: 10},
			{Title: "Delivery", Width: 18},
			{Title: "Event", Width: 28},
			{Title: "Reference", Width: 22},
			{Title: "Outcome", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return &Model{
		apiURL:        apiURL,
		apiKey:        apiKey,
		deliveryTable: t,
		theme:         NewDefaultTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchHealth(m.apiURL),
		fetchDeliveries(m.apiURL, m.apiKey, deliveryPageSize),
		tea.Tick(2*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) }),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.deliveryTable.SetWidth(m.width - 6)

	case tickMsg:
		return m, tea.Batch(
			fetchDeliveries(m.apiURL, m.apiKey, deliveryPageSize),
			tea.Tick(2*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) }),
		)

	case healthMsg:
		m.health.Status = msg.Status
		m.health.UptimeSeconds = msg.UptimeSeconds
		m.health.Connected = true
		m.health.LastCheck = time.Now()
		m.lastError = ""
		return m, tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
			return fetchHealth(m.apiURL)()
		})

	case deliveriesMsg:
		m.deliveries = msg.Deliveries
		m.updateTable()
		m.health.Connected = true
		m.lastError = ""

	case errMsg:
		m.health.Connected = false
		m.lastError = msg.Error()
		return m, tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
			return fetchHealth(m.apiURL)()
		})
	}

	m.deliveryTable, cmd = m.deliveryTable.Update(msg)
	return m, cmd
}

func (m *Model) updateTable() {
	rows := make([]table.Row, 0, len(m.deliveries))
	for _, d := range m.deliveries {
		rows = append(rows, table.Row{
			d.ReceivedAt.Local().Format("15:04:05"),
			d.DeliveryID,
			d.Event,
			d.Reference,
			d.Outcome,
		})
	}
	m.deliveryTable.SetRows(rows)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing watch..."
	}

	header := m.renderHeader()
	tableView := m.theme.Border.Render(m.deliveryTable.View())

	var errBar string
	if m.lastError != "" {
		errBar = m.theme.Failed.Render(fmt.Sprintf(" ⚠ %s", m.lastError))
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(" [q] Quit • [↑/↓] Scroll Deliveries")

	parts := []string{header, tableView}
	if errBar != "" {
		parts = append(parts, errBar)
	}
	parts = append(parts, help)

	return lipgloss.NewStyle().Margin(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) renderHeader() string {
	innerWidth := m.width - 4

	statusText := m.theme.StatusOK.Render("HEALTHY")
	if !m.health.Connected {
		statusText = m.theme.StatusBad.Render("CONNECTING")
	} else if m.health.Status != "ok" && m.health.Status != "" {
		statusText = m.theme.StatusBad.Render("DEGRADED")
	}

	uptime := formatDuration(time.Duration(m.health.UptimeSeconds) * time.Second)
	clock := m.theme.Dim.Render(time.Now().Format("15:04:05"))
	titleText := m.theme.Title.Render("VAULTPAY WATCH")

	pad := innerWidth - lipgloss.Width(titleText) - lipgloss.Width(clock) - 4
	if pad < 1 {
		pad = 1
	}
	titleLine := titleText + strings.Repeat(" ", pad) + clock + " "

	statsLine := fmt.Sprintf(" %s  ⏱ %s  Deliveries: %d",
		statusText, uptime, len(m.deliveries))

	return m.theme.Border.Width(innerWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, titleLine, statsLine),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
