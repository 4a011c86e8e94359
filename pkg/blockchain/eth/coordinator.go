package eth

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/contract/coordinator"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
)

type seedCoordinator struct {
	client EthClient
	cfg    config.EthConfigs
}

func NewSeedCoordinator(client EthClient, cfg config.EthConfigs) iface.SeedCoordinator {
	return &seedCoordinator{client: client, cfg: cfg}
}

// requestIDToBytes packs the UUID of a seed request into the bytes32 the
// coordinator contract expects. The UUID sits in the last 16 bytes so the
// watcher can recover it from the fulfillment event.
func requestIDToBytes(requestID string) ([32]byte, error) {
	var out [32]byte

	id, err := uuid.Parse(requestID)
	if err != nil {
		return out, err
	}

	copy(out[16:], id[:])
	return out, nil
}

func requestIDFromBytes(raw [32]byte) (string, error) {
	// Request ids we did not pack ourselves have nonzero leading bytes.
	for _, b := range raw[:16] {
		if b != 0 {
			return "", fmt.Errorf("request id was not issued by this service")
		}
	}

	id, err := uuid.FromBytes(raw[16:])
	if err != nil {
		return "", err
	}

	if id == uuid.Nil {
		return "", fmt.Errorf("request id is empty")
	}

	return id.String(), nil
}

func (c *seedCoordinator) bind(ctx context.Context) (*coordinator.Coordinator, error) {
	backend, err := c.client.Backend(ctx)
	if err != nil {
		return nil, err
	}

	return coordinator.NewCoordinator(common.HexToAddress(c.cfg.CoordinatorAddress), backend)
}

func (c *seedCoordinator) RequestSeed(ctx context.Context, requestID string) (string, error) {
	rawID, err := requestIDToBytes(requestID)
	if err != nil {
		return "", err
	}

	contract, err := c.bind(ctx)
	if err != nil {
		return "", err
	}

	opts, err := newTransactOpts(ctx, c.client, c.cfg)
	if err != nil {
		return "", err
	}

	tx, err := contract.RequestSeed(opts, rawID)
	if err != nil {
		return "", err
	}

	status, err := waitMined(ctx, c.client, c.cfg, tx.Hash())
	if err != nil {
		return "", err
	}

	if status == 0 {
		return "", fmt.Errorf("seed request tx %s reverted", tx.Hash().Hex())
	}

	return tx.Hash().Hex(), nil
}
