package ethutil

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// DeriveKey deterministically derives a signing key from the configured
// secret and a per-wallet nonce. The treasury never stores a raw private
// key, so the derivation must stay stable across releases.
func DeriveKey(secret, nonce []byte) (*ecdsa.PrivateKey, error) {
	seed := sha256.Sum256(append(secret, nonce...))
	reader := bytes.NewReader(bytes.Repeat(seed[:], 2))
	return ecdsa.GenerateKey(ethcrypto.S256(), reader)
}

// DeriveAddress returns the wallet address of the derived key.
func DeriveAddress(secret, nonce []byte) (common.Address, error) {
	key, err := DeriveKey(secret, nonce)
	if err != nil {
		return common.Address{}, err
	}

	return ethcrypto.PubkeyToAddress(key.PublicKey), nil
}
