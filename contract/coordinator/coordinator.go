// Package coordinator is a hand-maintained minimal binding for the randomness
// coordinator. The backend requests a seed with a transaction and reads the
// fulfillment back from the SeedFulfilled event log.
package coordinator

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const rawABI = `[
	{"inputs":[{"name":"requestId","type":"bytes32"}],"name":"requestSeed","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"requestId","type":"bytes32"},{"indexed":false,"name":"seed","type":"uint256"}],"name":"SeedFulfilled","type":"event"}
]`

type Coordinator struct {
	abi      abi.ABI
	contract *bind.BoundContract
}

type SeedFulfilled struct {
	RequestId [32]byte
	Seed      *big.Int
	Raw       types.Log
}

func NewCoordinator(address common.Address, backend bind.ContractBackend) (*Coordinator, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (c *Coordinator) RequestSeed(opts *bind.TransactOpts, requestID [32]byte) (*types.Transaction, error) {
	return c.contract.Transact(opts, "requestSeed", requestID)
}

// SeedFulfilledTopic returns the topic hash to filter fulfillment logs with.
func (c *Coordinator) SeedFulfilledTopic() common.Hash {
	return c.abi.Events["SeedFulfilled"].ID
}

func (c *Coordinator) ParseSeedFulfilled(log types.Log) (*SeedFulfilled, error) {
	if len(log.Topics) == 0 || log.Topics[0] != c.SeedFulfilledTopic() {
		return nil, errors.New("log is not a SeedFulfilled event")
	}

	event := new(SeedFulfilled)
	if err := c.contract.UnpackLog(event, "SeedFulfilled", log); err != nil {
		return nil, err
	}

	event.Raw = log
	return event, nil
}
