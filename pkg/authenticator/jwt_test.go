package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fooToken struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

func Test_jwtTokenEngine(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(time.Minute, fooToken{ID: "id", Address: "0xdead"})
	require.NoError(t, err)

	var obj fooToken
	require.NoError(t, engine.Verify(token, &obj))
	require.Equal(t, "id", obj.ID)
	require.Equal(t, "0xdead", obj.Address)
}

func Test_jwtTokenEngine_expired(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(-time.Minute, fooToken{ID: "id"})
	require.NoError(t, err)

	var obj fooToken
	require.Error(t, engine.Verify(token, &obj))
}

func Test_jwtTokenEngine_wrongSecret(t *testing.T) {
	token, err := NewTokenEngine("secret").Generate(time.Minute, fooToken{ID: "id"})
	require.NoError(t, err)

	var obj fooToken
	require.Error(t, NewTokenEngine("another secret").Verify(token, &obj))
}
