// Package token validates and issues the HS256 bearer tokens carrying the
// caller's identity, role, and warehouse scope. Parsing yields a domain
// Principal; everything downstream works with that, never with raw claims.
package token

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
)

// Token parsing errors.
var (
	ErrEmptySecret  = errors.New("token secret is empty")
	ErrInvalidToken = errors.New("invalid token")
)

// claims is the JWT payload shape. A nil Warehouses claim means the principal
// is unrestricted; an empty slice means access to no warehouse at all.
type claims struct {
	Role string `json:"role"`
	// No omitempty: a missing claim means unrestricted, an empty list means
	// access to no warehouse, and the two must survive a round trip.
	Warehouses []string `json:"warehouses"`
	DriverID   string   `json:"driver_id,omitempty"`
	jwt.RegisteredClaims
}

// Verifier parses and validates bearer tokens into principals.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier with the shared HS256 secret.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Parse validates the token signature and expiry and maps the claims to a
// Principal. Any structural defect in the claims fails the whole parse;
// a half-valid principal never escapes.
func (v *Verifier) Parse(tokenStr string) (auth.Principal, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return auth.Principal{}, ErrInvalidToken
	}

	c, ok := tok.Claims.(*claims)
	if !ok || c.Subject == "" || c.Role == "" {
		return auth.Principal{}, ErrInvalidToken
	}

	return toPrincipal(c)
}

func toPrincipal(c *claims) (auth.Principal, error) {
	id, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}

	var warehouseIDs []kernel.UUID
	if c.Warehouses != nil {
		warehouseIDs = make([]kernel.UUID, 0, len(c.Warehouses))
		for _, w := range c.Warehouses {
			wID, whErr := kernel.UUIDFromString(w)
			if whErr != nil {
				return auth.Principal{}, fmt.Errorf("%w: warehouse: %w", ErrInvalidToken, whErr)
			}
			warehouseIDs = append(warehouseIDs, wID)
		}
	}

	var driverID *kernel.UUID
	if c.DriverID != "" {
		dID, drvErr := kernel.UUIDFromString(c.DriverID)
		if drvErr != nil {
			return auth.Principal{}, fmt.Errorf("%w: driver_id: %w", ErrInvalidToken, drvErr)
		}
		driverID = &dID
	}

	principal, err := auth.NewPrincipal(id, auth.Role(c.Role), warehouseIDs, driverID)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return principal, nil
}

// Signer issues tokens. Used by tests and by the bundled token tool; the
// production identity provider lives outside this system.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a Signer with the shared HS256 secret and token lifetime.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), ttl: ttl}, nil
}

// Sign issues a token for the given principal.
func (s *Signer) Sign(principal auth.Principal) (string, error) {
	if err := principal.Validate(); err != nil {
		return "", err
	}

	var warehouses []string
	if !principal.IsUnrestricted() {
		ids := principal.AllowedWarehouseIDs()
		warehouses = make([]string, 0, len(ids))
		for _, id := range ids {
			warehouses = append(warehouses, id.String())
		}
	}

	var driverID string
	if principal.DriverID() != nil {
		driverID = principal.DriverID().String()
	}

	now := time.Now()
	c := claims{
		Role:       string(principal.Role()),
		Warehouses: warehouses,
		DriverID:   driverID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}
