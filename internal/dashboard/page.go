package dashboard

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/sentiment"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"percent": formatPercent,
}).Parse(dashboardHTML))

const (
	chartSize   = 240
	chartRadius = 100
)

type card struct {
	ID        string
	Username  string
	Content   string
	Label     string
	Tone      string
	URL       string
	CreatedAt string
}

type pageData struct {
	State     string
	Err       string
	Size      int
	Center    float64
	Radius    float64
	Slices    []Slice
	Total     int64
	Cards     []card
	Generated string
}

// Render writes the HTML page for v.
func Render(w io.Writer, v View) error {
	data := pageData{
		State:     v.State.String(),
		Err:       v.Err,
		Size:      chartSize,
		Center:    chartSize / 2,
		Radius:    chartRadius,
		Generated: time.Now().UTC().Format(time.RFC1123),
	}

	if v.State == StateReady {
		data.Slices = PieSlices(v.Summary, data.Center, data.Center, data.Radius)
		data.Total = v.Summary.Total()
		data.Cards = make([]card, 0, len(v.Tweets))
		for _, t := range v.Tweets {
			data.Cards = append(data.Cards, newCard(t))
		}
	}

	return pageTemplate.Execute(w, data)
}

func newCard(t models.Tweet) card {
	return card{
		ID:        t.TweetID,
		Username:  t.Username,
		Content:   t.Content,
		Label:     sentiment.DisplayLabel(t),
		Tone:      string(sentiment.Tone(t.Label())),
		URL:       tweetURL(t),
		CreatedAt: formatCreated(t.CreatedAt),
	}
}

// formatCreated is empty for a tweet without a timestamp.
func formatCreated(at *time.Time) string {
	if at == nil {
		return ""
	}
	return at.UTC().Format("Jan 2, 2006 15:04")
}

// tweetURL is the status link the embed widget resolves.
func tweetURL(t models.Tweet) string {
	user := t.Username
	if user == "" {
		user = "i/web"
	}
	return "https://twitter.com/" + user + "/status/" + url.PathEscape(t.TweetID)
}

// Page serves the dashboard. Each request loads a fresh view.
type Page struct {
	fetcher Fetcher
}

func NewPage(f Fetcher) *Page {
	return &Page{fetcher: f}
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v := Load(r.Context(), p.fetcher)
	if v.State == StateError {
		slog.Warn("[Dashboard] Rendering error state", slog.String("error", v.Err))
	}

	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		slog.Error("[Dashboard] Failed to render page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// formatPercent renders 66.666 as "66.7%" and 50 as "50%".
func formatPercent(p float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(p, 'f', 1, 64), ".0") + "%"
}
