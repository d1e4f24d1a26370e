package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/sentiment"
)

// Messages shown when a fetch fails.
const (
	ErrMsgTweets     = "Failed to fetch tweets"
	ErrMsgSentiments = "Failed to fetch sentiments"
)

type State int

const (
	StateLoading State = iota
	StateError
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Fetcher is the data source of a view; *Client implements it.
type Fetcher interface {
	FetchTweets(ctx context.Context) ([]models.Tweet, error)
	FetchSentiments(ctx context.Context) ([]models.SentimentCount, error)
}

// View is the dashboard state. It starts loading and ends in either error
// or ready; neither is left without a reload.
type View struct {
	State   State
	Err     string
	Tweets  []models.Tweet
	Summary sentiment.Summary
}

func NewView() View {
	return View{State: StateLoading}
}

// Fail moves a loading view to error. Settled views are left alone.
func (v View) Fail(msg string) View {
	if v.State != StateLoading {
		return v
	}
	return View{State: StateError, Err: msg}
}

// Ready moves a loading view to ready with the folded summary.
func (v View) Ready(tweets []models.Tweet, counts []models.SentimentCount) View {
	if v.State != StateLoading {
		return v
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	return View{
		State:   StateReady,
		Tweets:  tweets,
		Summary: sentiment.Summarize(counts),
	}
}

// Load fetches both endpoints concurrently and settles a new view. Either
// failure fails the whole view; when both fail the tweets message is kept.
func Load(ctx context.Context, f Fetcher) View {
	var (
		g         errgroup.Group
		tweets    []models.Tweet
		counts    []models.SentimentCount
		tweetsErr error
		countsErr error
	)

	g.Go(func() error {
		tweets, tweetsErr = f.FetchTweets(ctx)
		return tweetsErr
	})
	g.Go(func() error {
		counts, countsErr = f.FetchSentiments(ctx)
		return countsErr
	})
	_ = g.Wait()

	v := NewView()
	switch {
	case tweetsErr != nil:
		return v.Fail(ErrMsgTweets)
	case countsErr != nil:
		return v.Fail(ErrMsgSentiments)
	}
	return v.Ready(tweets, counts)
}
