package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/contract/erc20"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
	"github.com/tenk-lab/backend/pkg/ethutil"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

type erc20Payout struct {
	client EthClient
	cfg    config.EthConfigs
}

func NewPayoutFacility(client EthClient, cfg config.EthConfigs) iface.PayoutFacility {
	return &erc20Payout{client: client, cfg: cfg}
}

func (p *erc20Payout) bind(ctx context.Context, tokenAddress string) (*erc20.Erc20, error) {
	backend, err := p.client.Backend(ctx)
	if err != nil {
		return nil, err
	}

	if tokenAddress == "" {
		tokenAddress = p.cfg.PayoutTokenAddress
	}

	return erc20.NewErc20(common.HexToAddress(tokenAddress), backend)
}

func (p *erc20Payout) Balance(ctx context.Context, tokenAddress string) (*big.Int, error) {
	token, err := p.bind(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	wallet, err := ethutil.DeriveAddress([]byte(p.cfg.SecretKey), treasuryNonce)
	if err != nil {
		return nil, err
	}

	return token.BalanceOf(&bind.CallOpts{Context: ctx}, wallet)
}

func (p *erc20Payout) Transfer(ctx context.Context, tokenAddress, recipient string, amount *big.Int) (string, error) {
	token, err := p.bind(ctx, tokenAddress)
	if err != nil {
		return "", err
	}

	opts, err := newTransactOpts(ctx, p.client, p.cfg)
	if err != nil {
		return "", err
	}

	tx, err := token.Transfer(opts, common.HexToAddress(recipient), amount)
	if err != nil {
		return "", err
	}

	xcontext.Logger(ctx).Infof("Sent payout tx %s to %s", tx.Hash().Hex(), recipient)

	status, err := waitMined(ctx, p.client, p.cfg, tx.Hash())
	if err != nil {
		return "", err
	}

	if status == 0 {
		return "", fmt.Errorf("payout tx %s reverted", tx.Hash().Hex())
	}

	return tx.Hash().Hex(), nil
}
