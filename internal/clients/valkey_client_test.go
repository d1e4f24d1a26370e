package clients

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func newMockValkey(t *testing.T, ttl time.Duration) (*ValkeyClient, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return &ValkeyClient{Client: client, ttl: ttl}, client
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.True(t, isConnectionError(errors.New("read tcp: i/o timeout")))
	assert.False(t, isConnectionError(errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")))
}

func TestValkeyClient_SetWritesValueAndExpiryTogether(t *testing.T) {
	vc, client := newMockValkey(t, 30*time.Second)

	// Only a single SET ... EX is expected; a separate EXPIRE or a
	// pipelined DoMulti fails the controller.
	client.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "sentidash:payload:tweets", `{"tweets":[]}`, "EX", "30")).
		Return(mock.Result(mock.ValkeyString("OK")))

	require.NoError(t, vc.Set(t.Context(), "sentidash:payload:tweets", []byte(`{"tweets":[]}`)))
}

func TestValkeyClient_SetRetriesConnectionErrors(t *testing.T) {
	vc, client := newMockValkey(t, time.Minute)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "60")).
		Return(mock.ErrorResult(errors.New("dial tcp: connection refused"))).
		Times(VALKEY_RETRIES)

	err := vc.Set(t.Context(), "k", []byte("v"))
	assert.ErrorContains(t, err, "connection refused")
}

func TestValkeyClient_Get(t *testing.T) {
	vc, client := newMockValkey(t, time.Minute)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "hit")).
		Return(mock.Result(mock.ValkeyBlobString(`{"sentiments":[]}`)))
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "miss")).
		Return(mock.Result(mock.ValkeyNil()))

	payload, ok := vc.Get(t.Context(), "hit")
	assert.True(t, ok)
	assert.Equal(t, `{"sentiments":[]}`, string(payload))

	_, ok = vc.Get(t.Context(), "miss")
	assert.False(t, ok)
}

func TestTTLSeconds(t *testing.T) {
	assert.Equal(t, int64(30), ttlSeconds(30*time.Second))
	assert.Equal(t, int64(1), ttlSeconds(1500*time.Millisecond))
	assert.Equal(t, int64(1), ttlSeconds(0))
}
