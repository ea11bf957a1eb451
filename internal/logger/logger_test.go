package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New()
	require.NotNil(t, log)
}

func TestFromContext(t *testing.T) {
	t.Run("falls back to a fresh logger", func(t *testing.T) {
		log := FromContext(context.Background())
		require.NotNil(t, log)
	})

	t.Run("reads logger from ctx", func(t *testing.T) {
		log := New()
		ctx := context.WithValue(context.Background(), ContextKey, log) //nolint:staticcheck
		require.Equal(t, log, FromContext(ctx))
	})
}
