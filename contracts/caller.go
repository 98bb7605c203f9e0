package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mock/BlockchainCallerMock.go . BlockchainCaller

const errCallArgumentEncodedErrorMessage = "wrong arguments were provided"

// BlockchainCaller is an interface to call smart contracts. For read operations.
type BlockchainCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func contractCall(opts *bind.CallOpts, c BlockchainCaller, contractABI abi.ABI, to common.Address, method string, params ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, params...)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s function: %s, params %v", errCallArgumentEncodedErrorMessage, method, params)
	}
	if opts == nil {
		opts = &bind.CallOpts{}
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := c.CallContract(ctx, ethereum.CallMsg{
		From: opts.From,
		To:   &to,
		Data: data,
	}, opts.BlockNumber)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, errors.Wrapf(bind.ErrNoCode, "empty response from %s at %s", method, to.Hex())
	}
	return contractABI.Unpack(method, res)
}
