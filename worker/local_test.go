package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name      string
		scriptURL string
		want      string
	}{
		{name: "should scope a root script to /", scriptURL: "/sw.js", want: "/"},
		{name: "should scope a nested script to its directory", scriptURL: "/static/js/sw.js", want: "/static/js/"},
		{name: "should keep scheme and host", scriptURL: "https://example.com/a/sw.js", want: "https://example.com/a/"},
		{name: "should ignore the query", scriptURL: "/a/sw.js?v=2", want: "/a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scope(tt.scriptURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should reject an empty script url", func(t *testing.T) {
		_, err := Scope("")
		assert.Error(t, err)
	})
}

func TestLocal_Register(t *testing.T) {
	t.Run("should register a script", func(t *testing.T) {
		now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		registrar := NewLocal()
		registrar.now = func() time.Time { return now }

		got, err := registrar.Register(context.Background(), "/sw.js")
		require.NoError(t, err)

		assert.Equal(t, "/sw.js", got.ScriptURL)
		assert.Equal(t, "/", got.Scope)
		assert.Equal(t, now, got.RegisteredAt)
		assert.NotZero(t, got.ID)
	})

	t.Run("should return the existing registration for the same script", func(t *testing.T) {
		registrar := NewLocal()

		first, err := registrar.Register(context.Background(), "/sw.js")
		require.NoError(t, err)
		second, err := registrar.Register(context.Background(), "/sw.js")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Len(t, registrar.Registrations(), 1)
	})

	t.Run("should keep separate registrations for separate scripts", func(t *testing.T) {
		registrar := NewLocal()

		first, err := registrar.Register(context.Background(), "/sw.js")
		require.NoError(t, err)
		second, err := registrar.Register(context.Background(), "/app/sw.js")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Len(t, registrar.Registrations(), 2)
	})

	t.Run("should fail when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewLocal().Register(ctx, "/sw.js")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
