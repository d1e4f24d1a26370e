package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spacesedan/sentidash/internal/db"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/monitoring"
	"github.com/spacesedan/sentidash/internal/shared/httpx"
)

const (
	cacheKeySentiments = "sentidash:payload:sentiments"
	cacheKeyTweets     = "sentidash:payload:tweets"
)

func (s *Server) getSentiments(w http.ResponseWriter, r *http.Request) error {
	if s.serveCached(w, r, cacheKeySentiments) {
		return nil
	}

	counts, err := s.store.SentimentCounts(r.Context())
	if err != nil {
		logQueryFailure("sentiments", err)
		return httpx.Internal(ErrMsgSentiments, err)
	}

	return s.writePayload(w, r, cacheKeySentiments, models.SentimentsResponse{Sentiments: nonNil(counts)})
}

func (s *Server) getTweets(w http.ResponseWriter, r *http.Request) error {
	if s.serveCached(w, r, cacheKeyTweets) {
		return nil
	}

	tweets, err := s.store.RecentTweets(r.Context())
	if err != nil {
		logQueryFailure("tweets", err)
		return httpx.Internal(ErrMsgTweets, err)
	}
	if len(tweets) > db.RecentLimit {
		tweets = tweets[:db.RecentLimit]
	}

	return s.writePayload(w, r, cacheKeyTweets, models.TweetsResponse{Tweets: nonNil(tweets)})
}

func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if s.cache == nil {
		return false
	}

	payload, ok := s.cache.Get(r.Context(), key)
	if !ok {
		monitoring.CacheMiss()
		return false
	}

	monitoring.CacheHit()
	w.Header().Set("X-Cache", "HIT")
	httpx.WriteRaw(w, payload, http.StatusOK)
	return true
}

// writePayload encodes v once so the cached bytes match what was served.
func (s *Server) writePayload(w http.ResponseWriter, r *http.Request, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), key, payload); err != nil {
			slog.Warn("[API] Failed to cache payload",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		w.Header().Set("X-Cache", "MISS")
	}

	httpx.WriteRaw(w, payload, http.StatusOK)
	return nil
}

func logQueryFailure(endpoint string, err error) {
	attrs := []any{
		slog.String("endpoint", endpoint),
		slog.String("error", err.Error()),
	}
	var qe *db.QueryError
	if errors.As(err, &qe) {
		attrs = append(attrs, slog.String("reason", string(qe.Reason)))
	}
	slog.Error("[API] Error fetching "+endpoint, attrs...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
