package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/requestcontext"
)

// SessionClaims are the claims carried by a wallet session token.
type SessionClaims struct {
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	// IssuedAtMs mirrors iat with millisecond precision for clients that
	// compare it against login message timestamps.
	IssuedAtMs int64 `json:"issuedAt"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 session tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

func NewJWTService(signingKey, issuer string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// IssueSessionToken signs a token for the wallet owner. The address is
// stored lowercase.
func (s *JWTService) IssueSessionToken(ctx context.Context, address domain.Address, email string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "TOKEN_ERROR", "could not generate token id")
	}
	now := requestcontext.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Address:    address.String(),
		Email:      email,
		IssuedAtMs: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			ID:        hex.EncodeToString(b),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "TOKEN_ERROR", "could not sign token")
	}
	return signed, nil
}

// ValidateToken verifies signature, algorithm, issuer and expiry.
func (s *JWTService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "TOKEN_EXPIRED", "Token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "INVALID_TOKEN", "Invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "INVALID_TOKEN", "Invalid token")
	}
	if _, err := domain.ParseAddress(claims.Address); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "INVALID_TOKEN", "Invalid token claims")
	}
	return claims, nil
}
