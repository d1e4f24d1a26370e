package clients

import "time"

const (
	USER_AGENT = "sentidash-client/1.0 (+https://github.com/spacesedan/sentidash)"

	VALKEY_RETRIES     = 2
	VALKEY_RETRY_DELAY = 100 * time.Millisecond
	VALKEY_DIAL_PING   = 3 * time.Second
)
