package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
)

func TestNewLocation(t *testing.T) {
	now := time.Now()

	t.Run("should create location within bounds", func(t *testing.T) {
		loc, err := kernel.NewLocation(31.9539, 35.9106, now)

		require.NoError(t, err)
		require.NoError(t, loc.Validate())
		assert.InDelta(t, 31.9539, loc.Lat(), 1e-9)
		assert.InDelta(t, 35.9106, loc.Lng(), 1e-9)
		assert.Equal(t, now.UTC(), loc.RecordedAt())
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		for _, pair := range [][2]float64{
			{-90, -180}, {90, 180}, {0, 0}, {-90, 180}, {90, -180},
		} {
			_, err := kernel.NewLocation(pair[0], pair[1], now)
			require.NoError(t, err)
		}
	})

	t.Run("should reject out of range coordinates", func(t *testing.T) {
		_, err := kernel.NewLocation(90.0001, 0, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")

		_, err = kernel.NewLocation(0, -180.0001, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("should reject zero recorded time", func(t *testing.T) {
		_, err := kernel.NewLocation(0, 0, time.Time{})

		require.Error(t, err)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var loc kernel.Location

		require.Error(t, loc.Validate())
	})
}

func TestLocationIsNewerThan(t *testing.T) {
	base := time.Now()
	older, err := kernel.NewLocation(1, 1, base)
	require.NoError(t, err)
	newer, err := kernel.NewLocation(2, 2, base.Add(time.Second))
	require.NoError(t, err)

	assert.True(t, newer.IsNewerThan(older))
	assert.False(t, older.IsNewerThan(newer))
	assert.False(t, older.IsNewerThan(older))
}
