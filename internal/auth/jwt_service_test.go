package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"clinicbook/internal/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		principal    Principal
		expectedRole Role
	}{
		{
			name:         "user role survives the round trip",
			principal:    Principal{Subject: "pat", Role: RoleUser},
			expectedRole: RoleUser,
		},
		{
			name:         "admin role survives the round trip",
			principal:    Principal{Subject: "boss", Role: RoleAdmin},
			expectedRole: RoleAdmin,
		},
		{
			name:         "missing role defaults to least privilege",
			principal:    Principal{Subject: "anon"},
			expectedRole: RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewJWTService("test-secret")

			token, err := svc.Issue(tt.principal)
			assert.NoError(t, err)
			assert.NotEmpty(t, token)

			principal, err := svc.Verify(token)
			assert.NoError(t, err)
			assert.Equal(t, tt.principal.Subject, principal.Subject)
			assert.Equal(t, tt.expectedRole, principal.Role)
		})
	}
}

func TestJWTService_Verify_WrongSecret(t *testing.T) {
	issued, err := NewJWTService("secret-one").Issue(Principal{Subject: "pat", Role: RoleUser})
	assert.NoError(t, err)

	principal, err := NewJWTService("secret-two").Verify(issued)
	assert.Error(t, err)
	assert.Nil(t, principal)
	assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))
}

func TestJWTService_Verify_Expired(t *testing.T) {
	claims := &Claims{
		Username: "pat",
		Role:     string(RoleUser),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	principal, err := NewJWTService("test-secret").Verify(raw)
	assert.Error(t, err)
	assert.Nil(t, principal)
	assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))
}

func TestJWTService_Verify_Garbage(t *testing.T) {
	principal, err := NewJWTService("test-secret").Verify("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, principal)
	assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))
}
