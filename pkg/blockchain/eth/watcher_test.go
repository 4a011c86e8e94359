package eth

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/contract/coordinator"
	"github.com/tenk-lab/backend/mocks"
	"github.com/tenk-lab/backend/pkg/logger"
	"github.com/tenk-lab/backend/pkg/testutil"
	"github.com/tenk-lab/backend/pkg/xcontext"
)

const testCoordinatorAddress = "0x00000000000000000000000000000000000000aa"

func fulfillmentLog(t *testing.T, requestID string, seed *big.Int) ethtypes.Log {
	contract, err := coordinator.NewCoordinator(common.HexToAddress(testCoordinatorAddress), nil)
	require.NoError(t, err)

	rawID, err := requestIDToBytes(requestID)
	require.NoError(t, err)

	return ethtypes.Log{
		Address: common.HexToAddress(testCoordinatorAddress),
		Topics:  []common.Hash{contract.SeedFulfilledTopic(), common.BytesToHash(rawID[:])},
		Data:    common.LeftPadBytes(seed.Bytes(), 32),
	}
}

func Test_SeedWatcher_Scan(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))

	requestID := "8b3f4f3a-9c2e-4a1d-b0e7-6a4f4a3b2c1d"
	seed := new(big.Int).SetUint64(987654321)

	client := &mocks.EthClient{}
	client.On("BlockNumber", mock.Anything).Return(uint64(100), nil)
	client.On("FilterLogs", mock.Anything, mock.Anything).
		Return([]ethtypes.Log{fulfillmentLog(t, requestID, seed)}, nil)

	var gotRequestID string
	var gotSeed *big.Int
	handler := func(ctx context.Context, requestID string, seed *big.Int) error {
		gotRequestID = requestID
		gotSeed = seed
		return nil
	}

	redisClient := testutil.NewInMemoryRedisClient()
	watcher := &SeedWatcher{
		cfg: config.EthConfigs{
			Chain:              config.ChainConfig{Chain: "test-chain"},
			CoordinatorAddress: testCoordinatorAddress,
		},
		client:      client,
		handler:     handler,
		redisClient: redisClient,
	}

	require.NoError(t, watcher.scan(ctx))
	require.Equal(t, requestID, gotRequestID)
	require.Equal(t, seed, gotSeed)

	// The next scan resumes after the head of the previous one.
	block, err := watcher.lastScannedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(101), block)

	// Nothing new on chain, the scan is a no-op.
	gotRequestID = ""
	require.NoError(t, watcher.scan(ctx))
	require.Empty(t, gotRequestID)
}

func Test_SeedWatcher_RetriesAfterHandlerFailure(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))

	requestID := "8b3f4f3a-9c2e-4a1d-b0e7-6a4f4a3b2c1d"
	seed := new(big.Int).SetUint64(987654321)

	client := &mocks.EthClient{}
	client.On("BlockNumber", mock.Anything).Return(uint64(100), nil)
	client.On("FilterLogs", mock.Anything, mock.Anything).
		Return([]ethtypes.Log{fulfillmentLog(t, requestID, seed)}, nil)

	handlerErr := errors.New("database is locked")
	calls := 0
	watcher := &SeedWatcher{
		cfg: config.EthConfigs{
			Chain:              config.ChainConfig{Chain: "test-chain"},
			CoordinatorAddress: testCoordinatorAddress,
		},
		client: client,
		handler: func(context.Context, string, *big.Int) error {
			calls++
			return handlerErr
		},
		redisClient: testutil.NewInMemoryRedisClient(),
	}

	// The failed range is not marked scanned, so the next tick replays it.
	require.ErrorIs(t, watcher.scan(ctx), handlerErr)
	block, err := watcher.lastScannedBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), block)

	require.ErrorIs(t, watcher.scan(ctx), handlerErr)
	require.Equal(t, 2, calls)
}

func Test_SeedWatcher_SkipsForeignLogs(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))

	// A request id of another consumer of the coordinator, not one of our
	// packed UUIDs.
	contract, err := coordinator.NewCoordinator(common.HexToAddress(testCoordinatorAddress), nil)
	require.NoError(t, err)
	badLog := ethtypes.Log{
		Address: common.HexToAddress(testCoordinatorAddress),
		Topics: []common.Hash{
			contract.SeedFulfilledTopic(),
			common.HexToHash("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"),
		},
		Data: common.LeftPadBytes(big.NewInt(1).Bytes(), 32),
	}

	client := &mocks.EthClient{}
	client.On("BlockNumber", mock.Anything).Return(uint64(5), nil)
	client.On("FilterLogs", mock.Anything, mock.Anything).Return([]ethtypes.Log{badLog}, nil)

	called := false
	watcher := &SeedWatcher{
		cfg: config.EthConfigs{
			Chain:              config.ChainConfig{Chain: "test-chain"},
			CoordinatorAddress: testCoordinatorAddress,
		},
		client: client,
		handler: func(context.Context, string, *big.Int) error {
			called = true
			return nil
		},
		redisClient: testutil.NewInMemoryRedisClient(),
	}

	require.NoError(t, watcher.scan(ctx))
	require.False(t, called)
}
