package contracts

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	mock_contracts "github.com/seanhuang1228/buy4me/contracts/mock"
	"github.com/stretchr/testify/require"
)

var (
	mockPassAddress   = common.HexToAddress("0x64661693E54F8B3CE0E548D4fe4FBEc3025d1236")
	mockTicketAddress = common.HexToAddress("0x0A11C254A9c242e87DDDcf329b9e16104CDb993f")
	mockOwner         = common.HexToAddress("0xdcfb721b8DF1B001A01e1d02C486F4D1c00dbaF5")
	mockActor         = common.HexToAddress("0x3e2487a250e2A7b56c7ef5307Fb591Cc8C83623D")
)

// abi types.
var (
	uint256Ty, _ = abi.NewType("uint256", "", nil)
	addressTy, _ = abi.NewType("address", "", nil)
	boolTy, _    = abi.NewType("bool", "", nil)
)

func pack(t *testing.T, ty abi.Type, v interface{}) []byte {
	t.Helper()
	b, err := abi.Arguments{{Type: ty}}.Pack(v)
	require.NoError(t, err)
	return b
}

func expectCall(t *testing.T, m *mock_contracts.MockBlockchainCaller, to common.Address, method string, ret []byte, params ...interface{}) {
	t.Helper()
	data, err := PassABI.Pack(method, params...)
	if _, ok := PassABI.Methods[method]; !ok {
		data, err = TicketABI.Pack(method, params...)
	}
	require.NoError(t, err)
	m.EXPECT().CallContract(gomock.Any(), ethereum.CallMsg{To: &to, Data: data}, gomock.Nil()).Return(ret, nil)
}

func TestPassCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_contracts.NewMockBlockchainCaller(ctrl)
	pass := NewPassCaller(mockPassAddress, m)
	opts := &bind.CallOpts{Context: context.Background()}

	expectCall(t, m, mockPassAddress, "balanceOf", pack(t, uint256Ty, big.NewInt(1)), mockOwner)
	balance, err := pass.BalanceOf(opts, mockOwner)
	require.NoError(t, err)
	require.Equal(t, int64(1), balance.Int64())

	expectCall(t, m, mockPassAddress, "ownerOf", pack(t, addressTy, mockOwner), big.NewInt(7))
	owner, err := pass.OwnerOf(opts, big.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, mockOwner, owner)

	expectCall(t, m, mockPassAddress, "address2id", pack(t, uint256Ty, big.NewInt(7)), mockOwner)
	id, err := pass.Address2ID(opts, mockOwner)
	require.NoError(t, err)
	require.Equal(t, int64(7), id.Int64())

	expectCall(t, m, mockPassAddress, "canActOnBehalf", pack(t, boolTy, true), mockOwner, mockActor)
	allowed, err := pass.CanActOnBehalf(opts, mockOwner, mockActor)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestPassCaller_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_contracts.NewMockBlockchainCaller(ctrl)
	pass := NewPassCaller(mockPassAddress, m)

	m.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("execution reverted"))
	_, err := pass.OwnerOf(nil, big.NewInt(99))
	require.EqualError(t, err, "execution reverted")

	m.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{}, nil)
	_, err = pass.BalanceOf(nil, mockOwner)
	require.True(t, errors.Is(err, bind.ErrNoCode))
}

func TestTicketCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_contracts.NewMockBlockchainCaller(ctrl)
	ticket := NewTicketCaller(mockTicketAddress, m)

	expectCall(t, m, mockTicketAddress, "ticketPrice", pack(t, uint256Ty, big.NewInt(10)))
	price, err := ticket.TicketPrice(nil)
	require.NoError(t, err)
	require.Equal(t, int64(10), price.Int64())

	expectCall(t, m, mockTicketAddress, "maxTicketAmountCanBuy", pack(t, uint256Ty, big.NewInt(4)))
	max, err := ticket.MaxTicketAmountCanBuy(nil)
	require.NoError(t, err)
	require.Equal(t, int64(4), max.Int64())
}

func TestPackBuyTicket(t *testing.T) {
	data, err := PackBuyTicket([]*big.Int{big.NewInt(3), big.NewInt(5)})
	require.NoError(t, err)
	require.Equal(t, TicketABI.Methods["buyTicket"].ID, data[:4])

	args, err := TicketABI.Methods["buyTicket"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Equal(t, []*big.Int{big.NewInt(3), big.NewInt(5)}, args[0])

	empty, err := PackBuyTicket(nil)
	require.NoError(t, err)
	args, err = TicketABI.Methods["buyTicket"].Inputs.Unpack(empty[4:])
	require.NoError(t, err)
	require.Empty(t, args[0])
}

func TestPackVerifySelfProof(t *testing.T) {
	var proof VcAndDiscloseProof
	proof.A = [2]*big.Int{big.NewInt(1), big.NewInt(2)}
	proof.B = [2][2]*big.Int{{big.NewInt(4), big.NewInt(3)}, {big.NewInt(6), big.NewInt(5)}}
	proof.C = [2]*big.Int{big.NewInt(7), big.NewInt(8)}
	for i := range proof.PubSignals {
		proof.PubSignals[i] = big.NewInt(int64(i))
	}

	data, err := PackVerifySelfProof(proof)
	require.NoError(t, err)
	require.Equal(t, MinterABI.Methods["verifySelfProof"].ID, data[:4])
	// 2 + 4 + 2 + 21 static words
	require.Len(t, data, 4+32*29)
}
