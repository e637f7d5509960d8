package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestSignAndParse(t *testing.T) {
	raw, err := Sign(42, "CUSTOMER", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := Parse(raw, testSecret)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "CUSTOMER", claims.Role)
}

func TestParseExpired(t *testing.T) {
	raw, err := Sign(1, "CUSTOMER", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(raw, testSecret)
	require.Error(t, err)
}

func TestParseWrongSecret(t *testing.T) {
	raw, err := Sign(1, "CUSTOMER", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = Parse(raw, []byte("other-secret"))
	require.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("not.a.token", testSecret)
	require.Error(t, err)
}
