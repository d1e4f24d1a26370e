package sentiment

import "github.com/spacesedan/sentidash/internal/models"

// Summary holds the three chart buckets.
type Summary struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

// Summarize folds the aggregation rows into the fixed three buckets. Rows
// with a null or unrecognized label are dropped; a recognized label
// overwrites its bucket with the row count.
func Summarize(counts []models.SentimentCount) Summary {
	var s Summary
	for _, c := range counts {
		if c.Sentiment == nil {
			continue
		}
		label, ok := Recognize(*c.Sentiment)
		if !ok {
			continue
		}
		s.set(label, int64(c.Count))
	}
	return s
}

func (s *Summary) set(l Label, n int64) {
	switch l {
	case Positive:
		s.Positive = n
	case Neutral:
		s.Neutral = n
	case Negative:
		s.Negative = n
	}
}

// Get returns the count of one bucket.
func (s Summary) Get(l Label) int64 {
	switch l {
	case Positive:
		return s.Positive
	case Neutral:
		return s.Neutral
	case Negative:
		return s.Negative
	}
	return 0
}

func (s Summary) Total() int64 {
	return s.Positive + s.Neutral + s.Negative
}
