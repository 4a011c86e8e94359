// Package erc20 is a hand-maintained minimal binding for the payout token.
// Only the methods the payout path needs are bound.
package erc20

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const rawABI = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

type Erc20 struct {
	contract *bind.BoundContract
}

func NewErc20(address common.Address, backend bind.ContractBackend) (*Erc20, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, err
	}

	return &Erc20{contract: bind.NewBoundContract(address, parsed, backend, backend, backend)}, nil
}

func (e *Erc20) BalanceOf(opts *bind.CallOpts, account common.Address) (*big.Int, error) {
	var out []any
	if err := e.contract.Call(opts, &out, "balanceOf", account); err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (e *Erc20) Decimals(opts *bind.CallOpts) (uint8, error) {
	var out []any
	if err := e.contract.Call(opts, &out, "decimals"); err != nil {
		return 0, err
	}

	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (e *Erc20) Symbol(opts *bind.CallOpts) (string, error) {
	var out []any
	if err := e.contract.Call(opts, &out, "symbol"); err != nil {
		return "", err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (e *Erc20) Transfer(opts *bind.TransactOpts, recipient common.Address, amount *big.Int) (*types.Transaction, error) {
	return e.contract.Transact(opts, "transfer", recipient, amount)
}
