package api

import (
	"context"
	"net/http"

	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/monitoring"
	"github.com/spacesedan/sentidash/internal/shared/httpx"
)

const (
	RouteSentiments = "/api/sentiments"
	RouteTweets     = "/api/tweets"
	RouteHealth     = "/healthz"
)

// Public error bodies. They never vary with the underlying failure.
const (
	ErrMsgSentiments = "Failed to fetch sentiment data"
	ErrMsgTweets     = "Failed to fetch tweets"
)

// Store is what the endpoints read from; *db.TweetStore implements it.
type Store interface {
	SentimentCounts(ctx context.Context) ([]models.SentimentCount, error)
	RecentTweets(ctx context.Context) ([]models.Tweet, error)
}

// PayloadCache holds encoded responses; *clients.ValkeyClient implements it.
type PayloadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte) error
}

type Server struct {
	store Store
	cache PayloadCache
}

type Option func(*Server)

// WithCache serves successful payloads from c until they expire.
func WithCache(c PayloadCache) Option {
	return func(s *Server) { s.cache = c }
}

func New(store Store, opts ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes registers the API on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	handle := func(route string, fn httpx.HandlerFunc) {
		mux.Handle("GET "+route, monitoring.InstrumentRoute(route, httpx.Wrap(fn)))
	}

	handle(RouteSentiments, s.getSentiments)
	handle(RouteTweets, s.getTweets)
	handle(RouteHealth, s.health)
}

// Handler returns a mux carrying only the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Routes(mux)
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	return nil
}
