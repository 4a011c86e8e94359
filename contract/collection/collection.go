// Package collection is a hand-maintained minimal binding for the ERC721
// collection contract acting as the ownership registry.
package collection

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const rawABI = `[
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

type Collection struct {
	contract *bind.BoundContract
}

func NewCollection(address common.Address, backend bind.ContractBackend) (*Collection, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, err
	}

	return &Collection{contract: bind.NewBoundContract(address, parsed, backend, backend, backend)}, nil
}

func (c *Collection) OwnerOf(opts *bind.CallOpts, tokenID *big.Int) (common.Address, error) {
	var out []any
	if err := c.contract.Call(opts, &out, "ownerOf", tokenID); err != nil {
		return common.Address{}, err
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (c *Collection) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	var out []any
	if err := c.contract.Call(opts, &out, "balanceOf", owner); err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (c *Collection) TotalSupply(opts *bind.CallOpts) (*big.Int, error) {
	var out []any
	if err := c.contract.Call(opts, &out, "totalSupply"); err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
