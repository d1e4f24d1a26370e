package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentidash/internal/models"
)

func text(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

func stamp(t time.Time) pgtype.Timestamptz { return pgtype.Timestamptz{Time: t, Valid: true} }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestSentimentCounts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM tweets\s+GROUP BY sentiment`).
		WillReturnRows(pgxmock.NewRows([]string{"sentiment", "count"}).
			AddRow(text("positive"), int64(2)).
			AddRow(text("negative"), int64(1)).
			AddRow(pgtype.Text{}, int64(4)))

	counts, err := NewTweetStore(mock).SentimentCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)

	assert.Equal(t, "positive", *counts[0].Sentiment)
	assert.Equal(t, models.Count(2), counts[0].Count)
	assert.Equal(t, "negative", *counts[1].Sentiment)
	assert.Equal(t, models.Count(1), counts[1].Count)
	assert.Nil(t, counts[2].Sentiment, "null label is its own group")
	assert.Equal(t, models.Count(4), counts[2].Count)

	var total int64
	for _, c := range counts {
		assert.GreaterOrEqual(t, int64(c.Count), int64(0))
		total += int64(c.Count)
	}
	assert.Equal(t, int64(7), total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSentimentCounts_EmptyTable(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`GROUP BY sentiment`).
		WillReturnRows(pgxmock.NewRows([]string{"sentiment", "count"}))

	counts, err := NewTweetStore(mock).SentimentCounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestRecentTweets(t *testing.T) {
	newest := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	mock := newMock(t)
	mock.ExpectQuery(`ORDER BY created_at DESC NULLS LAST\s+LIMIT \$1`).
		WithArgs(RecentLimit).
		WillReturnRows(pgxmock.NewRows([]string{"tweet_id", "username", "content", "sentiment", "created_at"}).
			AddRow("1875000000000000003", text("alice"), text("h1b lottery results are out"), text("positive"), stamp(newest)).
			AddRow("1875000000000000002", text("bob"), text("wait times again"), text("sarcastic"), stamp(newest.Add(-time.Hour))).
			AddRow("1875000000000000001", pgtype.Text{}, text("no label yet"), pgtype.Text{}, stamp(newest.Add(-2*time.Hour))))

	tweets, err := NewTweetStore(mock).RecentTweets(context.Background())
	require.NoError(t, err)
	require.Len(t, tweets, 3)

	assert.Equal(t, "1875000000000000003", tweets[0].TweetID)
	assert.Equal(t, "alice", tweets[0].Username)
	assert.Equal(t, "positive", tweets[0].Label())
	assert.Equal(t, "sarcastic", tweets[1].Label(), "unknown labels pass through raw")
	assert.Nil(t, tweets[2].Sentiment)
	assert.Equal(t, "", tweets[2].Username)

	for i := 1; i < len(tweets); i++ {
		require.NotNil(t, tweets[i].CreatedAt)
		assert.False(t, tweets[i].CreatedAt.After(*tweets[i-1].CreatedAt), "newest first")
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentTweets_NullTimestamp(t *testing.T) {
	newest := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	mock := newMock(t)
	mock.ExpectQuery(`NULLS LAST`).
		WithArgs(RecentLimit).
		WillReturnRows(pgxmock.NewRows([]string{"tweet_id", "username", "content", "sentiment", "created_at"}).
			AddRow("2", text("alice"), text("dated"), text("neutral"), stamp(newest)).
			AddRow("1", text("bob"), text("undated"), text("negative"), pgtype.Timestamptz{}))

	tweets, err := NewTweetStore(mock).RecentTweets(context.Background())
	require.NoError(t, err)
	require.Len(t, tweets, 2)

	require.NotNil(t, tweets[0].CreatedAt)
	assert.True(t, newest.Equal(*tweets[0].CreatedAt))
	assert.Nil(t, tweets[1].CreatedAt)
	assert.Equal(t, "negative", tweets[1].Label())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentTweets_EmptyTable(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`LIMIT \$1`).
		WithArgs(RecentLimit).
		WillReturnRows(pgxmock.NewRows([]string{"tweet_id", "username", "content", "sentiment", "created_at"}))

	tweets, err := NewTweetStore(mock).RecentTweets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tweets)
	assert.Empty(t, tweets)
}

func TestQueries_WrapDriverErrors(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`GROUP BY sentiment`).
		WillReturnError(&pgconn.PgError{Code: "28P01", Message: "password authentication failed"})
	mock.ExpectQuery(`LIMIT \$1`).
		WithArgs(RecentLimit).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "tweets" does not exist`})

	store := NewTweetStore(mock)

	_, err := store.SentimentCounts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, ReasonAuth, qe.Reason)
	assert.Equal(t, opSentimentCounts, qe.Op)

	_, err = store.RecentTweets(context.Background())
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, ReasonQuery, qe.Reason)
	assert.Equal(t, opRecentTweets, qe.Op)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueries_RowErrorIsWrapped(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`GROUP BY sentiment`).
		WillReturnRows(pgxmock.NewRows([]string{"sentiment", "count"}).
			AddRow(text("positive"), int64(2)).
			RowError(0, errors.New("connection reset")))

	_, err := NewTweetStore(mock).SentimentCounts(context.Background())
	assert.ErrorIs(t, err, ErrQueryFailed)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Reason
	}{
		{"canceled", context.Canceled, ReasonCanceled},
		{"deadline", context.DeadlineExceeded, ReasonTimeout},
		{"bad password", &pgconn.PgError{Code: "28P01"}, ReasonAuth},
		{"no such role", &pgconn.PgError{Code: "28000"}, ReasonAuth},
		{"syntax", &pgconn.PgError{Code: "42601"}, ReasonQuery},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ReasonConnection},
		{"other", errors.New("boom"), ReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.err))
		})
	}
}

func TestQueryError_Message(t *testing.T) {
	err := newQueryError(opRecentTweets, errors.New("boom"))
	assert.Equal(t, "recent_tweets: query failed (unknown): boom", err.Error())
}

func TestQueries_UnreachableServer(t *testing.T) {
	// Nothing listens on port 1, so the dial is refused without a database.
	pool, err := pgxpool.New(t.Context(), "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=2")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewTweetStore(pool)

	_, err = store.SentimentCounts(t.Context())
	require.ErrorIs(t, err, ErrQueryFailed)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, ReasonConnection, qe.Reason)

	_, err = store.RecentTweets(t.Context())
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, ReasonConnection, qe.Reason)
	assert.Equal(t, opRecentTweets, qe.Op)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "", failureReason(nil))
	assert.Equal(t, "timeout", failureReason(&QueryError{Op: opSentimentCounts, Reason: ReasonTimeout}))
	assert.Equal(t, "auth", failureReason(fmt.Errorf("listing: %w", &QueryError{Op: opRecentTweets, Reason: ReasonAuth})))
	assert.Equal(t, "unknown", failureReason(errors.New("boom")))
}
