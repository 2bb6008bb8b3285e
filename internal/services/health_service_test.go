package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorpulse/internal/storage"
)

func TestHealthService(t *testing.T) {
	store, err := storage.NewStore(t.TempDir(), nil, nil)
	require.NoError(t, err)
	hs := NewHealthService("1.2.3", "2024-06-01", store, nil)

	t.Run("liveness is always healthy", func(t *testing.T) {
		status := hs.LivenessCheck(context.Background())
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
	})

	t.Run("readiness checks storage", func(t *testing.T) {
		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "healthy", status.Checks["storage"].Status)
	})

	t.Run("version reports build metadata", func(t *testing.T) {
		v := hs.Version()
		assert.Equal(t, "1.2.3", v["version"])
		assert.Equal(t, "2024-06-01", v["build_time"])
		assert.NotEmpty(t, v["go_version"])
	})
}
