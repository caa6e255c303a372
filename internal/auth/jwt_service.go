package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"clinicbook/internal/errors"
)

// TokenExpiry is the fixed lifetime of issued tokens. Tokens are stateless:
// validity is determined solely by signature and expiry, there is no
// revocation list.
const TokenExpiry = time.Hour

// Role is the privilege level carried by a principal.
type Role string

const (
	// RoleUser is the least-privileged role.
	RoleUser Role = "user"
	// RoleAdmin unlocks administrative endpoints.
	RoleAdmin Role = "admin"
)

// Principal is a verified identity: the username plus its role.
type Principal struct {
	Subject string
	Role    Role
}

// Claims represents JWT claims.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed identity tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Issue signs a token for the principal. The role claim is always set
// explicitly: a principal without a role gets the least-privileged one, so an
// admin flag can neither be silently dropped nor silently granted.
func (s *JWTService) Issue(p Principal) (string, error) {
	role := p.Role
	if role == "" {
		role = RoleUser
	}
	now := time.Now()
	claims := &Claims{
		Username: p.Subject,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded principal. A
// token that verifies is trusted for the rest of the request; the store is
// not consulted again.
func (s *JWTService) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// block alg confusion
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.Unauthorized("invalid or expired token")
	}
	return PrincipalFromClaims(claims), nil
}

// PrincipalFromClaims converts verified claims into a Principal.
func PrincipalFromClaims(claims *Claims) *Principal {
	role := Role(claims.Role)
	if role == "" {
		role = RoleUser
	}
	return &Principal{Subject: claims.Username, Role: role}
}
