package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/monitoring"
)

// RecentLimit caps the listing query.
const RecentLimit = 50

const (
	opSentimentCounts = "sentiment_counts"
	opRecentTweets    = "recent_tweets"
)

const sentimentCountsQuery = `
	SELECT sentiment, COUNT(*) AS count
	FROM tweets
	GROUP BY sentiment
`

const recentTweetsQuery = `
	SELECT tweet_id::text, username, content, sentiment, created_at
	FROM tweets
	ORDER BY created_at DESC NULLS LAST
	LIMIT $1
`

// Querier is the slice of pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TweetStore runs the dashboard's read-only queries against the tweets
// table. It never writes.
type TweetStore struct {
	q Querier
}

func NewTweetStore(q Querier) *TweetStore {
	return &TweetStore{q: q}
}

// SentimentCounts returns one row per distinct label, the null label
// included. Errors are *QueryError.
func (s *TweetStore) SentimentCounts(ctx context.Context) (counts []models.SentimentCount, err error) {
	start := time.Now()
	defer func() { observe(opSentimentCounts, start, err) }()

	rows, err := s.q.Query(ctx, sentimentCountsQuery)
	if err != nil {
		return nil, newQueryError(opSentimentCounts, err)
	}
	defer rows.Close()

	counts = []models.SentimentCount{}
	for rows.Next() {
		var (
			label pgtype.Text
			n     int64
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, newQueryError(opSentimentCounts, err)
		}
		counts = append(counts, models.SentimentCount{
			Sentiment: textPtr(label),
			Count:     models.Count(n),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, newQueryError(opSentimentCounts, err)
	}

	return counts, nil
}

// RecentTweets returns the RecentLimit newest tweets, newest first.
// Errors are *QueryError.
func (s *TweetStore) RecentTweets(ctx context.Context) (tweets []models.Tweet, err error) {
	start := time.Now()
	defer func() { observe(opRecentTweets, start, err) }()

	rows, err := s.q.Query(ctx, recentTweetsQuery, RecentLimit)
	if err != nil {
		return nil, newQueryError(opRecentTweets, err)
	}
	defer rows.Close()

	tweets = make([]models.Tweet, 0, RecentLimit)
	for rows.Next() {
		var (
			t                        models.Tweet
			username, content, label pgtype.Text
			created                  pgtype.Timestamptz
		)
		if err := rows.Scan(&t.TweetID, &username, &content, &label, &created); err != nil {
			return nil, newQueryError(opRecentTweets, err)
		}
		t.Username = username.String
		t.Content = content.String
		t.Sentiment = textPtr(label)
		t.CreatedAt = timePtr(created)
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, newQueryError(opRecentTweets, err)
	}

	return tweets, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func observe(op string, start time.Time, err error) {
	monitoring.ObserveQuery(op, start, failureReason(err))
}

// failureReason is empty for a nil error.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return string(qe.Reason)
	}
	return string(ReasonUnknown)
}
