package dashboard

import (
	"fmt"
	"math"

	"github.com/spacesedan/sentidash/internal/sentiment"
)

// Slice is one pie segment. Path is empty for a zero segment; Full marks
// the single segment that covers the whole circle.
type Slice struct {
	Label   sentiment.Label
	Name    string
	Color   string
	Value   int64
	Percent float64
	Path    string
	Full    bool
}

// PieSlices lays out the three buckets clockwise from twelve o'clock, in
// the fixed label order. It always returns three slices.
func PieSlices(s sentiment.Summary, cx, cy, r float64) []Slice {
	total := s.Total()
	slices := make([]Slice, 0, len(sentiment.Labels))

	angle := -math.Pi / 2
	for _, l := range sentiment.Labels {
		sl := Slice{
			Label: l,
			Name:  l.Title(),
			Color: l.ChartColor(),
			Value: s.Get(l),
		}

		if total > 0 && sl.Value > 0 {
			frac := float64(sl.Value) / float64(total)
			sl.Percent = frac * 100

			if sl.Value == total {
				sl.Full = true
			} else {
				sweep := frac * 2 * math.Pi
				sl.Path = arcPath(cx, cy, r, angle, angle+sweep)
				angle += sweep
			}
		}

		slices = append(slices, sl)
	}
	return slices
}

func arcPath(cx, cy, r, from, to float64) string {
	x1, y1 := cx+r*math.Cos(from), cy+r*math.Sin(from)
	x2, y2 := cx+r*math.Cos(to), cy+r*math.Sin(to)

	large := 0
	if to-from > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f Z",
		cx, cy, x1, y1, r, r, large, x2, y2)
}
