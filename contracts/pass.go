package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// PassCaller reads the pass contract: credential ownership and delegation.
type PassCaller struct {
	address common.Address
	caller  BlockchainCaller
}

// NewPassCaller binds a read-only pass caller to a deployed contract.
func NewPassCaller(address common.Address, caller BlockchainCaller) *PassCaller {
	return &PassCaller{address: address, caller: caller}
}

// Address returns the bound contract address.
func (p *PassCaller) Address() common.Address {
	return p.address
}

// BalanceOf returns how many passes owner holds.
func (p *PassCaller) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	out, err := contractCall(opts, p.caller, PassABI, p.address, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// OwnerOf returns the holder of a pass. Reverts for unknown ids.
func (p *PassCaller) OwnerOf(opts *bind.CallOpts, tokenID *big.Int) (common.Address, error) {
	out, err := contractCall(opts, p.caller, PassABI, p.address, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Address2ID returns the pass id assigned to owner, zero if none.
func (p *PassCaller) Address2ID(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	out, err := contractCall(opts, p.caller, PassABI, p.address, "address2id", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// CanActOnBehalf reports whether actor is authorized by owner.
func (p *PassCaller) CanActOnBehalf(opts *bind.CallOpts, owner, actor common.Address) (bool, error) {
	out, err := contractCall(opts, p.caller, PassABI, p.address, "canActOnBehalf", owner, actor)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
