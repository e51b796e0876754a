package token_test

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/token"
)

const testSecret = "test-secret"

func newSigner(t *testing.T) *token.Signer {
	t.Helper()
	signer, err := token.NewSigner(testSecret, time.Hour)
	require.NoError(t, err)
	return signer
}

func newVerifier(t *testing.T) *token.Verifier {
	t.Helper()
	verifier, err := token.NewVerifier(testSecret)
	require.NoError(t, err)
	return verifier
}

func Test_NewVerifier(t *testing.T) {
	t.Run("should reject an empty secret", func(t *testing.T) {
		_, err := token.NewVerifier("")
		assert.ErrorIs(t, err, token.ErrEmptySecret)
	})
}

func Test_NewSigner(t *testing.T) {
	t.Run("should reject an empty secret", func(t *testing.T) {
		_, err := token.NewSigner("", time.Hour)
		assert.ErrorIs(t, err, token.ErrEmptySecret)
	})
}

func Test_SignAndParse(t *testing.T) {
	t.Run("should round trip an unrestricted admin", func(t *testing.T) {
		principal, err := auth.NewPrincipal(kernel.NewUUID(), auth.RoleAdmin, nil, nil)
		require.NoError(t, err)

		signed, err := newSigner(t).Sign(principal)
		require.NoError(t, err)

		parsed, err := newVerifier(t).Parse(signed)
		require.NoError(t, err)

		assert.True(t, parsed.ID().IsEqual(principal.ID()))
		assert.Equal(t, auth.RoleAdmin, parsed.Role())
		assert.True(t, parsed.IsUnrestricted())
		assert.Nil(t, parsed.DriverID())
	})

	t.Run("should round trip a scoped dispatcher", func(t *testing.T) {
		warehouseA := kernel.NewUUID()
		warehouseB := kernel.NewUUID()
		principal, err := auth.NewPrincipal(
			kernel.NewUUID(), auth.RoleDispatcher, []kernel.UUID{warehouseA, warehouseB}, nil)
		require.NoError(t, err)

		signed, err := newSigner(t).Sign(principal)
		require.NoError(t, err)

		parsed, err := newVerifier(t).Parse(signed)
		require.NoError(t, err)

		assert.False(t, parsed.IsUnrestricted())
		assert.Len(t, parsed.AllowedWarehouseIDs(), 2)
	})

	t.Run("should round trip a driver with its identity", func(t *testing.T) {
		driverID := kernel.NewUUID()
		principal, err := auth.NewPrincipal(
			kernel.NewUUID(), auth.RoleDriver, []kernel.UUID{kernel.NewUUID()}, &driverID)
		require.NoError(t, err)

		signed, err := newSigner(t).Sign(principal)
		require.NoError(t, err)

		parsed, err := newVerifier(t).Parse(signed)
		require.NoError(t, err)

		assert.Equal(t, auth.RoleDriver, parsed.Role())
		require.NotNil(t, parsed.DriverID())
		assert.True(t, parsed.DriverID().IsEqual(driverID))
	})

	t.Run("should keep an empty warehouse scope empty", func(t *testing.T) {
		principal, err := auth.NewPrincipal(
			kernel.NewUUID(), auth.RoleDispatcher, []kernel.UUID{}, nil)
		require.NoError(t, err)

		signed, err := newSigner(t).Sign(principal)
		require.NoError(t, err)

		parsed, err := newVerifier(t).Parse(signed)
		require.NoError(t, err)

		// Access to nothing must not come back as access to everything.
		assert.False(t, parsed.IsUnrestricted())
		assert.Empty(t, parsed.AllowedWarehouseIDs())
	})
}

func Test_Verifier_Parse(t *testing.T) {
	t.Run("should reject garbage", func(t *testing.T) {
		_, err := newVerifier(t).Parse("not-a-token")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		otherSigner, err := token.NewSigner("other-secret", time.Hour)
		require.NoError(t, err)

		principal, err := auth.NewPrincipal(kernel.NewUUID(), auth.RoleAdmin, nil, nil)
		require.NoError(t, err)
		signed, err := otherSigner.Sign(principal)
		require.NoError(t, err)

		_, err = newVerifier(t).Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		expiredSigner, err := token.NewSigner(testSecret, -time.Minute)
		require.NoError(t, err)

		principal, err := auth.NewPrincipal(kernel.NewUUID(), auth.RoleAdmin, nil, nil)
		require.NoError(t, err)
		signed, err := expiredSigner.Sign(principal)
		require.NoError(t, err)

		_, err = newVerifier(t).Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("should reject a different signing algorithm", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"sub":  kernel.NewUUID().String(),
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newVerifier(t).Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("should reject a token without a subject", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newVerifier(t).Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("should reject an unknown role", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  kernel.NewUUID().String(),
			"role": "superuser",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newVerifier(t).Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("should reject a driver token without a driver id", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  kernel.NewUUID().String(),
			"role": "driver",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newVerifier(t).Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
