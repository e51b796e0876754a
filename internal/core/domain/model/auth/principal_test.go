package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewPrincipal(t *testing.T) {
	userID := kernel.NewUUID()

	t.Run("should create unrestricted admin with nil scope", func(t *testing.T) {
		p, err := auth.NewPrincipal(userID, auth.RoleAdmin, nil, nil)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.True(t, p.IsUnrestricted())
		assert.Nil(t, p.AllowedWarehouseIDs())
	})

	t.Run("should create scoped dispatcher", func(t *testing.T) {
		wh := kernel.NewUUID()

		p, err := auth.NewPrincipal(userID, auth.RoleDispatcher, []kernel.UUID{wh}, nil)

		require.NoError(t, err)
		assert.False(t, p.IsUnrestricted())
		require.Len(t, p.AllowedWarehouseIDs(), 1)
		assert.True(t, p.AllowedWarehouseIDs()[0].IsEqual(wh))
	})

	t.Run("should treat empty scope as access to nothing", func(t *testing.T) {
		p, err := auth.NewPrincipal(userID, auth.RoleManager, []kernel.UUID{}, nil)

		require.NoError(t, err)
		assert.False(t, p.IsUnrestricted())
		assert.Empty(t, p.AllowedWarehouseIDs())
	})

	t.Run("should require driver identity for driver role", func(t *testing.T) {
		_, err := auth.NewPrincipal(userID, auth.RoleDriver, nil, nil)

		require.ErrorIs(t, err, auth.ErrDriverIdentityRequired)
	})

	t.Run("should carry driver identity", func(t *testing.T) {
		driverID := kernel.NewUUID()

		p, err := auth.NewPrincipal(userID, auth.RoleDriver, []kernel.UUID{kernel.NewUUID()}, &driverID)

		require.NoError(t, err)
		require.NotNil(t, p.DriverID())
		assert.True(t, p.DriverID().IsEqual(driverID))
	})

	t.Run("should reject unknown role", func(t *testing.T) {
		_, err := auth.NewPrincipal(userID, auth.Role("superuser"), nil, nil)

		require.Error(t, err)
	})

	t.Run("should copy the warehouse scope on construction and read", func(t *testing.T) {
		scope := []kernel.UUID{kernel.NewUUID()}
		p, err := auth.NewPrincipal(userID, auth.RoleManager, scope, nil)
		require.NoError(t, err)

		scope[0] = kernel.NewUUID()
		read := p.AllowedWarehouseIDs()
		read[0] = kernel.NewUUID()

		assert.NotEqual(t, scope[0], p.AllowedWarehouseIDs()[0])
		assert.NotEqual(t, read[0], p.AllowedWarehouseIDs()[0])
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var p auth.Principal

		require.ErrorIs(t, p.Validate(), auth.ErrPrincipalIsNotConstructed)
	})
}
