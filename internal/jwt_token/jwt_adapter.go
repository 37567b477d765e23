package jwttoken

import (
	"skillchain/pkg/domain"
)

// ToIdentity converts validated claims into the request identity.
func ToIdentity(claims *SessionClaims) *domain.Identity {
	id := &domain.Identity{
		Address: domain.Address(claims.Address),
		Email:   claims.Email,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// ValidateSession satisfies the auth middleware's SessionValidator.
func (s *JWTService) ValidateSession(tokenString string) (*domain.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToIdentity(claims), nil
}
