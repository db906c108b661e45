package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "postgresql://user:pw@dbhost:6543/ofa", "dbhost:6543"},
		{"default port", "postgres://user:pw@dbhost/ofa?sslmode=disable", "dbhost:5432"},
		{"no credentials", "postgresql://localhost:5432/ofa", "localhost:5432"},
		{"no db url", "http://localhost:8080/", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	ctx := context.Background()
	require.NoError(t, WaitForTCP(ctx, lis.Addr().String(), time.Second))

	addr := lis.Addr().String()
	lis.Close()
	assert.Error(t, WaitForTCP(ctx, addr, 300*time.Millisecond))
}
