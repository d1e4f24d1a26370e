package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPostgresClient_RejectsBadDSN(t *testing.T) {
	_, err := NewPostgresClient(t.Context(), "postgres://user@host:notaport/db")
	assert.Error(t, err)
}

func TestPostgres_CloseNil(t *testing.T) {
	var p *Postgres
	assert.NotPanics(t, p.Close)
}
