package models

import (
	"fmt"
	"strconv"
	"time"
)

// Tweet is one row of the tweets table as served by the listing endpoint.
// Sentiment is nil when the row has not been labeled; CreatedAt is nil when
// the row has no timestamp.
type Tweet struct {
	TweetID   string     `json:"tweet_id"`
	Username  string     `json:"username"`
	Content   string     `json:"content"`
	Sentiment *string    `json:"sentiment"`
	CreatedAt *time.Time `json:"created_at"`
}

// Label returns the raw sentiment label, or "" when absent.
func (t Tweet) Label() string {
	if t.Sentiment == nil {
		return ""
	}
	return *t.Sentiment
}

// SentimentCount is one group of the aggregation query. The null label is
// its own group, encoded as "sentiment": null.
type SentimentCount struct {
	Sentiment *string `json:"sentiment"`
	Count     Count   `json:"count"`
}

// Count is a row count. It is written as a quoted integer ("2") to keep the
// payload shape the dashboard has always consumed, and read back from either
// a quoted or a bare JSON number.
type Count int64

func (c Count) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(c), 10))), nil
}

func (c *Count) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		*c = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %s: %w", data, err)
	}
	*c = Count(n)
	return nil
}

type SentimentsResponse struct {
	Sentiments []SentimentCount `json:"sentiments"`
}

type TweetsResponse struct {
	Tweets []Tweet `json:"tweets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
