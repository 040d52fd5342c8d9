package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("test-secret")

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testSecret, "EMP-11111111", "emp@example.com", "Test Employee", "employee", time.Hour)
	assert.NoError(t, err)

	claims, err := ParseJWT(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, "EMP-11111111", claims.EmployeeID)
	assert.Equal(t, "emp@example.com", claims.Email)
	assert.Equal(t, "Test Employee", claims.Name)
	assert.Equal(t, "employee", claims.Role)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(testSecret, "EMP-11111111", "emp@example.com", "Test Employee", "employee", time.Hour)
	assert.NoError(t, err)

	_, err = ParseJWT([]byte("other-secret"), token)
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(testSecret, "EMP-11111111", "emp@example.com", "Test Employee", "employee", -time.Minute)
	assert.NoError(t, err)

	_, err = ParseJWT(testSecret, token)
	assert.Error(t, err)
}
