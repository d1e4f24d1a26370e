package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyClient caches rendered endpoint payloads.
type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

func NewValkeyClient(ctx context.Context, o ValkeyOptions) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			o.Address,
		},
		Password:         o.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if o.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, VALKEY_DIAL_PING)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", o.Address),
		slog.Duration("ttl", o.TTL))

	return &ValkeyClient{Client: client, ttl: o.TTL}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

// Get returns the cached payload for key. Misses and errors both report
// false; errors are logged.
func (vc *ValkeyClient) Get(ctx context.Context, key string) ([]byte, bool) {
	res := vc.DoWithRetry(ctx, func() valkey.Completed {
		return vc.Client.B().Get().Key(key).Build()
	}, VALKEY_RETRIES)

	payload, err := res.AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Get failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}
	return payload, true
}

// Set stores payload under key for the configured TTL. Value and expiry go
// out as one SET so a key never outlives its TTL.
func (vc *ValkeyClient) Set(ctx context.Context, key string, payload []byte) error {
	build := func() valkey.Completed {
		return setCommand(vc.Client.B(), key, payload, vc.ttl)
	}

	if err := vc.DoWithRetry(ctx, build, VALKEY_RETRIES).Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] set %s: %w", key, err)
	}
	return nil
}

func setCommand(b valkey.Builder, key string, payload []byte, ttl time.Duration) valkey.Completed {
	return b.Set().Key(key).Value(valkey.BinaryString(payload)).ExSeconds(ttlSeconds(ttl)).Build()
}

// ttlSeconds rounds down to whole seconds, never below one.
func ttlSeconds(ttl time.Duration) int64 {
	return max(int64(ttl/time.Second), 1)
}

// DoWithRetry retries connection failures. The command is rebuilt per
// attempt since the client may recycle it after a call.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func() valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, build())
		if !isConnectionError(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(VALKEY_RETRY_DELAY)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
