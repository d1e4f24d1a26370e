package sentiment

import "github.com/spacesedan/sentidash/internal/models"

type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Labels is the fixed display order used by the chart and its legend.
var Labels = [3]Label{Positive, Neutral, Negative}

// NotAvailable is shown in place of a missing label.
const NotAvailable = "Not available"

var chartColors = map[Label]string{
	Positive: "#4caf50",
	Neutral:  "#ffeb3b",
	Negative: "#f44336",
}

// Recognize reports whether raw is one of the three known labels.
// Matching is exact; "Positive" is not recognized.
func Recognize(raw string) (Label, bool) {
	switch l := Label(raw); l {
	case Positive, Neutral, Negative:
		return l, true
	}
	return "", false
}

// Title is the legend name of a label.
func (l Label) Title() string {
	switch l {
	case Positive:
		return "Positive"
	case Neutral:
		return "Neutral"
	case Negative:
		return "Negative"
	}
	return string(l)
}

// ChartColor is the fixed segment color of a label.
func (l Label) ChartColor() string {
	return chartColors[l]
}

// Tone buckets any raw label for coloring a tweet card: positive and
// negative keep their color, everything else (neutral, unknown, absent)
// renders as neutral.
func Tone(raw string) Label {
	switch Label(raw) {
	case Positive:
		return Positive
	case Negative:
		return Negative
	}
	return Neutral
}

// DisplayLabel is the label text printed on a tweet card.
func DisplayLabel(t models.Tweet) string {
	if l := t.Label(); l != "" {
		return l
	}
	return NotAvailable
}
