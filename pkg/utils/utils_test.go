package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := CreateJWTToken("6650f1c2a3b4c5d6e7f80911", "seller", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWTToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "6650f1c2a3b4c5d6e7f80911", claims.UserID)
	assert.Equal(t, "seller", claims.Role)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	expired, err := CreateJWTToken("6650f1c2a3b4c5d6e7f80911", "customer", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWTToken(expired, "secret")
	assert.Error(t, err)

	valid, err := CreateJWTToken("6650f1c2a3b4c5d6e7f80911", "customer", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWTToken(valid, "another-secret")
	assert.Error(t, err)

	_, err = ParseJWTToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestExtractTokenUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	userID, role := ExtractTokenUser(c)
	assert.Empty(t, userID)
	assert.Empty(t, role)

	c.Set(ContextKeyUser, &JWTClaims{UserID: "abc", Role: "admin"})
	userID, role = ExtractTokenUser(c)
	assert.Equal(t, "abc", userID)
	assert.Equal(t, "admin", role)
}

func TestMoney(t *testing.T) {
	total := LineTotal(3.99, 2)
	assert.Equal(t, 7.98, RoundAmount(total))

	sum := LineTotal(0.1, 1).Add(LineTotal(0.2, 1))
	assert.Equal(t, 0.3, RoundAmount(sum))

	assert.Equal(t, int64(798), MinorUnits(7.98))
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.True(t, decimal.NewFromFloat(12.5).Equal(LineTotal(2.5, 5)))
}
