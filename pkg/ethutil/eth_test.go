package ethutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_deterministic(t *testing.T) {
	addr1, err := DeriveAddress([]byte("secret"), []byte("treasury"))
	require.NoError(t, err)

	addr2, err := DeriveAddress([]byte("secret"), []byte("treasury"))
	require.NoError(t, err)
	require.Equal(t, addr1, addr2)

	// Another nonce yields another wallet.
	other, err := DeriveAddress([]byte("secret"), []byte("deployer"))
	require.NoError(t, err)
	require.NotEqual(t, addr1, other)

	key, err := DeriveKey([]byte("secret"), []byte("treasury"))
	require.NoError(t, err)
	require.NotNil(t, key)
}
