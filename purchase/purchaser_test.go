package purchase

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/chain"
	mock_chain "github.com/seanhuang1228/buy4me/chain/mock"
	"github.com/seanhuang1228/buy4me/contracts"
	"github.com/stretchr/testify/require"
)

var ticketAddress = common.HexToAddress("0x0A11cE0000000000000000000000000000000001")

func TestTicketPurchaser_Purchase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	backend := mock_chain.NewMockBackend(ctrl)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	p, err := NewTicketPurchaser(backend, key, ticketAddress, big.NewInt(1337), nil)
	require.NoError(t, err)
	p.PollInterval = time.Millisecond

	ids := []*big.Int{big.NewInt(7), big.NewInt(8)}
	wantData, err := contracts.PackBuyTicket(ids)
	require.NoError(t, err)
	req := PurchaseRequest{Buyer: p.Buyer(), DelegateIDs: ids, UnitPrice: big.NewInt(10), Value: big.NewInt(30)}

	var sent *types.Transaction
	backend.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
			require.Equal(t, big.NewInt(30), msg.Value)
			require.Equal(t, wantData, msg.Data)
			return 0, errors.New("execution reverted")
		})
	backend.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(2_000_000_000), nil)
	backend.EXPECT().PendingNonceAt(gomock.Any(), p.Buyer()).Return(uint64(4), nil)
	backend.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.Transaction) error {
			sent = tx
			return nil
		})
	backend.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(3),
		GasUsed:     210_000,
	}, nil)

	receipt, err := p.Purchase(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, chain.ReceiptConfirmed, receipt.Status)

	require.NotNil(t, sent)
	require.Equal(t, uint64(700_000), sent.Gas())
	require.Equal(t, big.NewInt(30), sent.Value())
	require.Equal(t, ticketAddress, *sent.To())
	require.Equal(t, wantData, sent.Data())
	require.Equal(t, uint64(4), sent.Nonce())
}

func TestTicketPurchaser_WrongBuyer(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	p, err := NewTicketPurchaser(nil, key, ticketAddress, big.NewInt(1337), nil)
	require.NoError(t, err)

	_, err = p.Purchase(context.Background(), PurchaseRequest{Buyer: caller, Value: big.NewInt(10)})
	require.Error(t, err)
}
