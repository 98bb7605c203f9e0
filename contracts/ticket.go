package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// TicketCaller reads the ticket seller configuration.
type TicketCaller struct {
	address common.Address
	caller  BlockchainCaller
}

// NewTicketCaller binds a read-only ticket caller to a deployed contract.
func NewTicketCaller(address common.Address, caller BlockchainCaller) *TicketCaller {
	return &TicketCaller{address: address, caller: caller}
}

// Address returns the bound contract address.
func (t *TicketCaller) Address() common.Address {
	return t.address
}

// TicketPrice returns the unit price in wei.
func (t *TicketCaller) TicketPrice(opts *bind.CallOpts) (*big.Int, error) {
	out, err := contractCall(opts, t.caller, TicketABI, t.address, "ticketPrice")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// MaxTicketAmountCanBuy returns the per-purchase ticket cap, caller included.
func (t *TicketCaller) MaxTicketAmountCanBuy(opts *bind.CallOpts) (*big.Int, error) {
	out, err := contractCall(opts, t.caller, TicketABI, t.address, "maxTicketAmountCanBuy")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// PackBuyTicket encodes buyTicket(delegate_ids).
func PackBuyTicket(delegateIDs []*big.Int) ([]byte, error) {
	if delegateIDs == nil {
		delegateIDs = []*big.Int{}
	}
	return TicketABI.Pack("buyTicket", delegateIDs)
}
