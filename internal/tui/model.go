// Package tui renders the sentiment dashboard in a terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/sentiment"
)

const (
	loadTimeout     = 15 * time.Second
	defaultWidth    = 80
	defaultListRows = 10
	// rows taken by the title, bar, legend and footer
	chromeRows = 8
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a855f7")).MarginBottom(1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	userStyle  = lipgloss.NewStyle().Bold(true)

	segmentStyles = map[sentiment.Label]lipgloss.Style{
		sentiment.Positive: lipgloss.NewStyle().Foreground(lipgloss.Color(sentiment.Positive.ChartColor())),
		sentiment.Neutral:  lipgloss.NewStyle().Foreground(lipgloss.Color(sentiment.Neutral.ChartColor())),
		sentiment.Negative: lipgloss.NewStyle().Foreground(lipgloss.Color(sentiment.Negative.ChartColor())),
	}
	toneStyles = map[sentiment.Label]lipgloss.Style{
		sentiment.Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		sentiment.Neutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		sentiment.Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
	}
)

type loadedMsg struct {
	view dashboard.View
}

// Model is the bubbletea model of the dashboard. It loads once on start;
// "r" starts a fresh load.
type Model struct {
	fetcher dashboard.Fetcher
	view    dashboard.View
	spinner spinner.Model
	width   int
	height  int
}

func New(f dashboard.Fetcher) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle

	return Model{
		fetcher: f,
		view:    dashboard.NewView(),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	f := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{view: dashboard.Load(ctx, f)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if m.view.State == dashboard.StateLoading {
				return m, nil
			}
			m.view = dashboard.NewView()
			return m, tea.Batch(m.spinner.Tick, m.load())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loadedMsg:
		m.view = msg.view

	case spinner.TickMsg:
		if m.view.State != dashboard.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Twitter Sentiment Dashboard"))
	b.WriteString("\n")

	switch m.view.State {
	case dashboard.StateLoading:
		b.WriteString(m.spinner.View() + " Loading data...\n")
	case dashboard.StateError:
		b.WriteString(errorStyle.Render(m.view.Err) + "\n")
		b.WriteString(mutedStyle.Render("r: retry • q: quit") + "\n")
	case dashboard.StateReady:
		m.renderChart(&b)
		b.WriteString("\n")
		m.renderTweets(&b)
		b.WriteString("\n" + mutedStyle.Render("r: reload • q: quit") + "\n")
	}
	return b.String()
}

func (m Model) renderChart(b *strings.Builder) {
	s := m.view.Summary
	width := m.barWidth()

	if s.Total() == 0 {
		b.WriteString(mutedStyle.Render(strings.Repeat("░", width)) + "\n")
	} else {
		for i, w := range barWidths(s, width) {
			l := sentiment.Labels[i]
			b.WriteString(segmentStyles[l].Render(strings.Repeat("█", w)))
		}
		b.WriteString("\n")
	}

	legend := make([]string, 0, len(sentiment.Labels))
	for _, l := range sentiment.Labels {
		legend = append(legend, segmentStyles[l].Render("■")+fmt.Sprintf(" %s: %d", l.Title(), s.Get(l)))
	}
	b.WriteString(strings.Join(legend, "   ") + "\n")
}

func (m Model) renderTweets(b *strings.Builder) {
	tweets := m.view.Tweets
	if len(tweets) == 0 {
		b.WriteString(mutedStyle.Render("No tweets yet.") + "\n")
		return
	}

	rows := m.listRows()
	shown := tweets
	if len(shown) > rows {
		shown = shown[:rows]
	}

	contentWidth := max(m.barWidth()-4, 10)
	for _, t := range shown {
		tone := sentiment.Tone(t.Label())
		header := userStyle.Render("@" + t.Username)
		if t.CreatedAt != nil {
			header += "  " + mutedStyle.Render(t.CreatedAt.Local().Format("Jan 2 15:04"))
		}
		fmt.Fprintf(b, "%s  %s\n", header, toneStyles[tone].Render(sentiment.DisplayLabel(t)))
		b.WriteString("    " + truncate(oneLine(t.Content), contentWidth) + "\n")
	}
	if hidden := len(tweets) - len(shown); hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more", hidden)) + "\n")
	}
}

func (m Model) barWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// listRows is how many tweets fit; each tweet takes two lines.
func (m Model) listRows() int {
	if m.height <= 0 {
		return defaultListRows
	}
	return max((m.height-chromeRows)/2, 1)
}

// barWidths splits width across the three buckets in label order using
// largest remainders, so the segments always fill the bar exactly.
func barWidths(s sentiment.Summary, width int) [3]int {
	var out [3]int
	total := s.Total()
	if total <= 0 || width <= 0 {
		return out
	}

	var (
		rems [3]int64
		used int
	)
	for i, l := range sentiment.Labels {
		scaled := s.Get(l) * int64(width)
		out[i] = int(scaled / total)
		rems[i] = scaled % total
		used += out[i]
	}

	for ; used < width; used++ {
		best := 0
		for i := 1; i < len(rems); i++ {
			if rems[i] > rems[best] {
				best = i
			}
		}
		out[best]++
		rems[best] = -1
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
