package eth

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/contract/coordinator"
	iface "github.com/tenk-lab/backend/pkg/blockchain/interface"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"github.com/tenk-lab/backend/pkg/xredis"
)

// SeedFulfillHandler receives every fulfillment the coordinator emits. The
// seed is the raw uint256 of the event.
type SeedFulfillHandler func(ctx context.Context, requestID string, seed *big.Int) error

// SeedWatcher polls the chain for SeedFulfilled events of the coordinator
// contract and forwards them to the handler. The last scanned block is kept
// in redis so a restart does not replay or skip fulfillments.
type SeedWatcher struct {
	cfg     config.EthConfigs
	client  EthClient
	handler SeedFulfillHandler

	redisClient xredis.Client
}

func NewSeedWatcher(
	cfg config.EthConfigs,
	client EthClient,
	redisClient xredis.Client,
	handler SeedFulfillHandler,
) iface.Watcher {
	return &SeedWatcher{
		cfg:         cfg,
		client:      client,
		handler:     handler,
		redisClient: redisClient,
	}
}

func (w *SeedWatcher) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Starting seed watcher on chain %s", w.cfg.Chain.Chain)
	go w.loop(ctx)
}

func (w *SeedWatcher) loop(ctx context.Context) {
	interval := w.cfg.WatcherInterval
	if interval == 0 {
		interval = 15 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.scan(ctx); err != nil {
				xcontext.Logger(ctx).Errorf("Seed watcher scan failed: %v", err)
			}
		}
	}
}

func (w *SeedWatcher) scan(ctx context.Context) error {
	head, err := w.client.BlockNumber(ctx)
	if err != nil {
		return err
	}

	from, err := w.lastScannedBlock(ctx)
	if err != nil {
		return err
	}

	if from == 0 {
		// First run, nothing scanned yet. Start at the head.
		from = head
	}

	if from > head {
		return nil
	}

	contract, err := coordinator.NewCoordinator(common.HexToAddress(w.cfg.CoordinatorAddress), nil)
	if err != nil {
		return err
	}

	logs, err := w.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{common.HexToAddress(w.cfg.CoordinatorAddress)},
		Topics:    [][]common.Hash{{contract.SeedFulfilledTopic()}},
	})
	if err != nil {
		return err
	}

	for _, log := range logs {
		event, err := contract.ParseSeedFulfilled(log)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Skipping unparsable fulfillment log: %v", err)
			continue
		}

		requestID, err := requestIDFromBytes(event.RequestId)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Skipping fulfillment with invalid request id: %v", err)
			continue
		}

		// The cursor only moves when every fulfillment in the range landed,
		// so a transient handler failure is retried on the next tick.
		if err := w.handler(ctx, requestID, event.Seed); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot handle fulfillment of %s: %v", requestID, err)
			return err
		}
	}

	return w.setLastScannedBlock(ctx, head+1)
}

func redisKeyLastBlock(chain string) string {
	return "seedwatcher:lastblock:" + chain
}

func (w *SeedWatcher) lastScannedBlock(ctx context.Context) (uint64, error) {
	value, err := w.redisClient.Get(ctx, redisKeyLastBlock(w.cfg.Chain.Chain))
	if err != nil {
		return 0, nil
	}

	block, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, nil
	}

	return block, nil
}

func (w *SeedWatcher) setLastScannedBlock(ctx context.Context, block uint64) error {
	return w.redisClient.Set(ctx, redisKeyLastBlock(w.cfg.Chain.Chain), strconv.FormatUint(block, 10))
}
