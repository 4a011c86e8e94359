package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tenk-lab/backend/internal/entity"
	"github.com/tenk-lab/backend/internal/model"
	"github.com/tenk-lab/backend/internal/repository"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/testutil"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_authDomain_WalletLoginAndVerify(t *testing.T) {
	ctx := testutil.MockContext()

	userRepo := repository.NewUserRepository()
	d := NewAuthDomain(userRepo, repository.NewRefreshTokenRepository(), testutil.NewInMemoryRedisClient())

	privateKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(privateKey.PublicKey).Hex()

	loginResp, err := d.WalletLogin(ctx, &model.WalletLoginRequest{Address: address})
	require.NoError(t, err)
	require.NotEmpty(t, loginResp.Nonce)

	signature, err := ethcrypto.Sign(accounts.TextHash([]byte(loginResp.Nonce)), privateKey)
	require.NoError(t, err)
	signature[ethcrypto.RecoveryIDOffset] += 27

	verifyResp, err := d.WalletVerify(ctx, &model.WalletVerifyRequest{
		Address:   address,
		Signature: hexutil.Encode(signature),
	})
	require.NoError(t, err)
	require.NotEmpty(t, verifyResp.AccessToken)
	require.NotEmpty(t, verifyResp.RefreshToken)

	// The first login creates the user as a regular one.
	user, err := userRepo.GetByWalletAddress(ctx, address)
	require.NoError(t, err)
	require.Equal(t, entity.RoleUser, user.Role)

	var accessToken model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(verifyResp.AccessToken, &accessToken))
	require.Equal(t, user.ID, accessToken.ID)
	require.Equal(t, address, accessToken.Address)

	// The nonce is burned after a successful verification.
	_, err = d.WalletVerify(ctx, &model.WalletVerifyRequest{
		Address:   address,
		Signature: hexutil.Encode(signature),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_authDomain_WalletVerifyWrongSigner(t *testing.T) {
	ctx := testutil.MockContext()

	d := NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
		testutil.NewInMemoryRedisClient(),
	)

	privateKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(privateKey.PublicKey).Hex()

	loginResp, err := d.WalletLogin(ctx, &model.WalletLoginRequest{Address: address})
	require.NoError(t, err)

	// Sign the challenge with another key.
	otherKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	signature, err := ethcrypto.Sign(accounts.TextHash([]byte(loginResp.Nonce)), otherKey)
	require.NoError(t, err)
	signature[ethcrypto.RecoveryIDOffset] += 27

	_, err = d.WalletVerify(ctx, &model.WalletVerifyRequest{
		Address:   address,
		Signature: hexutil.Encode(signature),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_authDomain_RefreshRotation(t *testing.T) {
	ctx := testutil.MockContext()

	d := NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
		testutil.NewInMemoryRedisClient(),
	)

	privateKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(privateKey.PublicKey).Hex()

	loginResp, err := d.WalletLogin(ctx, &model.WalletLoginRequest{Address: address})
	require.NoError(t, err)
	signature, err := ethcrypto.Sign(accounts.TextHash([]byte(loginResp.Nonce)), privateKey)
	require.NoError(t, err)
	signature[ethcrypto.RecoveryIDOffset] += 27

	verifyResp, err := d.WalletVerify(ctx, &model.WalletVerifyRequest{
		Address:   address,
		Signature: hexutil.Encode(signature),
	})
	require.NoError(t, err)

	refreshResp, err := d.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: verifyResp.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshResp.AccessToken)

	// Replaying the pre-rotation token revokes the whole family.
	_, err = d.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: verifyResp.RefreshToken})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.StolenDetected, errx.Code)

	// The rotated token dies with the family.
	_, err = d.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: refreshResp.RefreshToken})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unknown.Code, errx.Code)
}
