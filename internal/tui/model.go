package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"alien_rfid_go/sdk"
)

const pollInterval = 500 * time.Millisecond

type tagRow struct {
	ID        string
	Antenna   int
	Reads     int
	FirstSeen time.Time
	LastSeen  time.Time
}

type pollDoneMsg struct {
	Tags []sdk.Tag
	Err  error
}

type pollTickMsg struct{}

// Model is the monitor's bubbletea model. The client is owned by the
// model and polled strictly sequentially: the next poll is scheduled
// only after the previous one returned.
type Model struct {
	client *sdk.Client
	target string

	table table.Model
	spin  spinner.Model

	rows    map[string]*tagRow
	order   []string
	polls   int
	lastErr error
	started time.Time
}

func NewModel(client *sdk.Client, target string) Model {
	columns := []table.Column{
		{Title: "Tag ID", Width: 34},
		{Title: "Ant", Width: 4},
		{Title: "Reads", Width: 6},
		{Title: "First Seen", Width: 10},
		{Title: "Last Seen", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	t.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		target:  target,
		table:   t,
		spin:    sp,
		rows:    make(map[string]*tagRow),
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.poll())
}

func (m Model) poll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tags, err := client.ReadTags()
		return pollDoneMsg{Tags: tags, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.rows = make(map[string]*tagRow)
			m.order = nil
			m.table.SetRows(nil)
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := msg.Height - 7
		if height < 4 {
			height = 4
		}
		m.table.SetHeight(height)
		return m, nil

	case pollDoneMsg:
		m.polls++
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.merge(msg.Tags)
		}
		return m, tea.Tick(pollInterval, func(time.Time) tea.Msg {
			return pollTickMsg{}
		})

	case pollTickMsg:
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) merge(tags []sdk.Tag) {
	now := time.Now()
	for _, tag := range tags {
		row, ok := m.rows[tag.ID]
		if !ok {
			row = &tagRow{ID: tag.ID, Antenna: tag.Antenna, FirstSeen: now}
			m.rows[tag.ID] = row
			m.order = append(m.order, tag.ID)
		}
		row.Antenna = tag.Antenna
		row.Reads++
		row.LastSeen = now
	}

	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		row := m.rows[id]
		rows = append(rows, table.Row{
			row.ID,
			strconv.Itoa(row.Antenna),
			strconv.Itoa(row.Reads),
			row.FirstSeen.Format("15:04:05"),
			row.LastSeen.Format("15:04:05"),
		})
	}
	m.table.SetRows(rows)
}

func (m Model) View() string {
	header := headerStyle.Render("alien tag monitor — " + m.target)

	status := fmt.Sprintf("%s polls=%d unique=%d up=%s",
		m.spin.View(),
		m.polls,
		len(m.order),
		time.Since(m.started).Round(time.Second),
	)
	statusLine := statusOKStyle.Render(status)
	if m.lastErr != nil {
		statusLine = statusErrStyle.Render(status + "  error: " + m.lastErr.Error())
	}

	help := helpStyle.Render("q quit · c clear · arrows scroll")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		statusLine,
		tableFrameStyle.Render(m.table.View()),
		help,
	)
}
