package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/lineup-api/internal/domain/user"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	djID := uuid.New()
	u := &user.User{
		ID:    uuid.New(),
		Email: "dj@example.com",
		Role:  user.RoleDJ,
		DJID:  &djID,
	}

	tokenString, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "dj@example.com", claims.Email)
	assert.Equal(t, string(user.RoleDJ), claims.Role)
	assert.Equal(t, djID.String(), claims.DJID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestIssueWithoutDJProfile(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Email: "admin@example.com", Role: user.RoleAdmin}

	tokenString, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Validate(tokenString)
	require.NoError(t, err)
	assert.Empty(t, claims.DJID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := &user.User{ID: uuid.New(), Email: "admin@example.com", Role: user.RoleAdmin}

	tokenString, err := issuer.Issue(u)
	require.NoError(t, err)

	other := NewTokenIssuer("different-secret", time.Hour)
	_, err = other.Validate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	u := &user.User{ID: uuid.New(), Email: "admin@example.com", Role: user.RoleAdmin}

	tokenString, err := issuer.Issue(u)
	require.NoError(t, err)

	_, err = issuer.Validate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	_, err := issuer.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
