package eth

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/pkg/ethutil"
)

// treasuryNonce pins the key derivation of the payout wallet so every process
// of the backend signs with the same address.
var treasuryNonce = []byte("treasury")

func chainID(ctx context.Context, cfg config.EthConfigs) *big.Int {
	if cfg.Chain.ID != 0 {
		return big.NewInt(cfg.Chain.ID)
	}

	return GetChainIntFromId(ctx, cfg.Chain.Chain)
}

func newTransactOpts(ctx context.Context, client EthClient, cfg config.EthConfigs) (*bind.TransactOpts, error) {
	privateKey, err := ethutil.DeriveKey([]byte(cfg.SecretKey), treasuryNonce)
	if err != nil {
		return nil, err
	}

	id := chainID(ctx, cfg)
	if id == nil {
		return nil, fmt.Errorf("cannot resolve chain id for %s", cfg.Chain.Chain)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(privateKey, id)
	if err != nil {
		return nil, err
	}

	opts.Context = ctx
	if !cfg.Chain.UseEip1559 {
		gasPrice, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}

		opts.GasPrice = gasPrice
	}

	return opts, nil
}

// waitMined polls for the receipt of a sent transaction. The block time of
// the chain decides the polling interval.
func waitMined(ctx context.Context, client EthClient, cfg config.EthConfigs, txHash common.Hash) (uint64, error) {
	interval := time.Second
	if cfg.Chain.BlockTime > 0 {
		interval = time.Duration(cfg.Chain.BlockTime) * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt.Status, nil
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}
