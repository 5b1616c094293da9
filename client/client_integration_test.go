//go:build integration

package client

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPingLive(t *testing.T) {
	addr := os.Getenv("CMS_API_URL")
	if addr == "" {
		addr = "http://localhost:3001/api/v1/cms"
	}

	c := New(addr, 5*time.Second)
	require.NoError(t, c.Ping(context.Background()))
}
