// Package iface holds the chain-facing interfaces the domain layer consumes.
// Implementations live in the eth package; tests use in-memory fakes.
package iface

import (
	"context"
	"math/big"
)

type Watcher interface {
	Start(ctx context.Context)
}

// OwnershipRegistry answers who currently holds a token. The claim path
// always asks the chain, never a cached copy.
type OwnershipRegistry interface {
	OwnerOf(ctx context.Context, tokenID int64) (string, error)
	TotalSupply(ctx context.Context) (int64, error)
}

// PayoutFacility moves prize funds from the payout wallet to a recipient.
// An empty tokenAddress falls back to the configured payout token.
type PayoutFacility interface {
	Balance(ctx context.Context, tokenAddress string) (*big.Int, error)
	Transfer(ctx context.Context, tokenAddress, recipient string, amount *big.Int) (txHash string, err error)
}

// SeedCoordinator submits randomness requests to the coordinator contract.
// Fulfillments come back asynchronously through the watcher.
type SeedCoordinator interface {
	RequestSeed(ctx context.Context, requestID string) (txHash string, err error)
}
