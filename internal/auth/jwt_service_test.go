package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceAt(secret string, now time.Time) *JWTService {
	s := NewJWTService(secret)
	s.now = func() time.Time { return now }
	return s
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	s := NewJWTService("test-secret")
	userID := uuid.New()

	token, claims, err := s.GenerateToken(userID, "ann@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), parsed.UserID)
	assert.Equal(t, "ann@example.com", parsed.Email)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, SessionTokenExpiry, parsed.ExpiresAt.Time.Sub(parsed.IssuedAt.Time))
}

func TestJWTService_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newServiceAt("test-secret", issued).GenerateToken(uuid.New(), "ann@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"just after issuance", issued.Add(time.Second), true},
		{"half way", issued.Add(30 * time.Minute), true},
		{"one second before expiry", issued.Add(SessionTokenExpiry - time.Second), true},
		{"exactly at expiry", issued.Add(SessionTokenExpiry), false},
		{"after expiry", issued.Add(2 * SessionTokenExpiry), false},
		{"before issuance", issued.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newServiceAt("test-secret", tt.at).ValidateToken(token)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	s := NewJWTService("test-secret")

	otherSigned, _, err := NewJWTService("other-secret").GenerateToken(uuid.New(), "x@example.com")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: uuid.New().String(),
		Email:  "x@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "x@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           uuid.New().String(),
		Email:            "x@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ID: uuid.New().String()},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": otherSigned,
		"alg none":     unsigned,
		"missing id":   noUser,
		"missing exp":  noExpiry,
		"garbage":      "not.a.jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}
