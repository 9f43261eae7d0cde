package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-backend/services"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := services.NewTokenService("test-secret", time.Hour)

	token, err := svc.Generate("user-123", "ada@example.com", "customer")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := services.NewTokenService("secret-a", time.Hour)
	verifier := services.NewTokenService("secret-b", time.Hour)

	token, err := issuer.Generate("user-123", "ada@example.com", "customer")
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := services.NewTokenService("test-secret", -time.Minute)

	token, err := svc.Generate("user-123", "ada@example.com", "customer")
	assert.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := services.NewTokenService("test-secret", time.Hour)

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)
}
