package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/contract/collection"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
)

type collectionOwnership struct {
	client EthClient
	cfg    config.EthConfigs
}

func NewOwnershipRegistry(client EthClient, cfg config.EthConfigs) iface.OwnershipRegistry {
	return &collectionOwnership{client: client, cfg: cfg}
}

func (o *collectionOwnership) bind(ctx context.Context) (*collection.Collection, error) {
	backend, err := o.client.Backend(ctx)
	if err != nil {
		return nil, err
	}

	return collection.NewCollection(common.HexToAddress(o.cfg.CollectionAddress), backend)
}

func (o *collectionOwnership) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	c, err := o.bind(ctx)
	if err != nil {
		return "", err
	}

	owner, err := c.OwnerOf(&bind.CallOpts{Context: ctx}, big.NewInt(tokenID))
	if err != nil {
		return "", fmt.Errorf("cannot resolve owner of token %d: %w", tokenID, err)
	}

	return owner.Hex(), nil
}

func (o *collectionOwnership) TotalSupply(ctx context.Context) (int64, error) {
	c, err := o.bind(ctx)
	if err != nil {
		return 0, err
	}

	supply, err := c.TotalSupply(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, err
	}

	return supply.Int64(), nil
}
