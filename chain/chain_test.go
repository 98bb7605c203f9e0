package chain

import (
	"context"
	"math/big"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	mock_chain "github.com/seanhuang1228/buy4me/chain/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockTarget = common.HexToAddress("0x6466F4E2ae4Ea8A1a8fA3f1dB2Fa0a8bB3cA95E1")

type revertError struct {
	data string
}

func (e revertError) Error() string          { return "execution reverted" }
func (e revertError) ErrorData() interface{} { return e.data }

func errorStringRevert(t *testing.T, reason string) []byte {
	t.Helper()
	strType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	require.NoError(t, err)
	return append(crypto.Keccak256([]byte("Error(string)"))[:4], packed...)
}

func TestDecodeRevert(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "Error(string)",
			data: errorStringRevert(t, "not enough payment"),
			want: "not enough payment",
		},
		{
			name: "known custom error",
			data: CustomErrorSelector("RegisteredNullifier"),
			want: "RegisteredNullifier",
		},
		{
			name: "unknown selector",
			data: []byte{0xde, 0xad, 0xbe, 0xef},
			want: "0xdeadbeef",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DecodeRevert(tt.data))
		})
	}
}

func TestRevertReason(t *testing.T) {
	err := errors.WithMessage(revertError{data: hexutil.Encode(CustomErrorSelector("InvalidScope"))}, "call failed")
	reason, ok := RevertReason(err)
	require.True(t, ok)
	require.Equal(t, "InvalidScope", reason)
	require.True(t, IsRevert(err))

	reason, ok = RevertReason(errors.New("execution reverted: sold out"))
	require.True(t, ok)
	require.Equal(t, "sold out", reason)

	_, ok = RevertReason(errors.New("connection refused"))
	require.False(t, ok)
	require.False(t, IsRevert(errors.New("nonce too low")))
	require.False(t, IsRevert(nil))
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"wrapped errno", errors.Wrap(syscall.ECONNREFUSED, "dial"), true},
		{"http 503", rpc.HTTPError{StatusCode: 503, Status: "503 Service Unavailable"}, true},
		{"http 400", rpc.HTTPError{StatusCode: 400, Status: "400 Bad Request"}, false},
		{"revert", revertError{data: "0x"}, false},
		{"plain", errors.New("insufficient funds"), false},
		{"tagged", WrapNetwork(syscall.ECONNRESET, "send"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
		})
	}
	require.ErrorIs(t, WrapNetwork(syscall.ECONNRESET, "send"), ErrNetworkFailure)
	require.NotErrorIs(t, WrapNetwork(errors.New("nonce too low"), "send"), ErrNetworkFailure)
}

func TestEstimateGasLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_chain.NewMockBackend(ctrl)

	msg := ethereum.CallMsg{To: &mockTarget, Data: []byte{1, 2, 3, 4}}
	m.EXPECT().EstimateGas(gomock.Any(), msg).Return(uint64(100_000), nil)
	got := EstimateGasLimit(context.Background(), m, msg, 120, 1_000_000)
	require.Equal(t, GasEstimate{Limit: 120_000, Estimated: true}, got)

	estErr := revertError{data: "0x"}
	m.EXPECT().EstimateGas(gomock.Any(), msg).Return(uint64(0), estErr)
	got = EstimateGasLimit(context.Background(), m, msg, 120, 1_000_000)
	require.Equal(t, uint64(1_000_000), got.Limit)
	require.False(t, got.Estimated)
	require.Equal(t, estErr, got.Err)
}

func TestSender_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_chain.NewMockBackend(ctrl)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	chainID := big.NewInt(44787)
	s, err := NewSender(m, key, chainID)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.From())

	var sent []*types.Transaction
	m.EXPECT().PendingNonceAt(gomock.Any(), s.From()).Return(uint64(5), nil)
	m.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.Transaction) error {
			sent = append(sent, tx)
			return nil
		}).Times(2)

	price := big.NewInt(30_000_000_000)
	for i := 0; i < 2; i++ {
		_, err = s.Send(context.Background(), Call{To: mockTarget, Data: []byte{0xaa}, GasLimit: 21_000, GasPrice: price})
		require.NoError(t, err)
	}
	require.Len(t, sent, 2)
	require.Equal(t, uint64(5), sent[0].Nonce())
	require.Equal(t, uint64(6), sent[1].Nonce())
	require.Equal(t, price, sent[0].GasPrice())
	require.Equal(t, uint64(21_000), sent[0].Gas())
	require.Equal(t, 0, sent[0].Value().Sign())

	from, err := types.Sender(types.LatestSignerForChainID(chainID), sent[1])
	require.NoError(t, err)
	require.Equal(t, s.From(), from)
}

func TestSender_ResyncNonceAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_chain.NewMockBackend(ctrl)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := NewSender(m, key, nil)
	require.NoError(t, err)

	m.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1337), nil)
	m.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil).Times(2)
	gomock.InOrder(
		m.EXPECT().PendingNonceAt(gomock.Any(), s.From()).Return(uint64(0), nil),
		m.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(syscall.ECONNRESET),
		m.EXPECT().PendingNonceAt(gomock.Any(), s.From()).Return(uint64(3), nil),
		m.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err = s.Send(context.Background(), Call{To: mockTarget, GasLimit: 50_000})
	require.ErrorIs(t, err, ErrNetworkFailure)

	tx, err := s.Send(context.Background(), Call{To: mockTarget, GasLimit: 50_000})
	require.NoError(t, err)
	require.Equal(t, uint64(3), tx.Nonce())
}

func TestNewSender_NoKey(t *testing.T) {
	_, err := NewSender(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoSigningKey)
}

func newTx(gas uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		GasPrice: big.NewInt(1),
		Gas:      gas,
		To:       &mockTarget,
		Value:    big.NewInt(0),
		Data:     []byte{0x01},
	})
}

func TestWaitForReceipt(t *testing.T) {
	from := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("confirmed after polling", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := mock_chain.NewMockBackend(ctrl)
		tx := newTx(100_000)

		gomock.InOrder(
			m.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, ethereum.NotFound),
			m.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(&types.Receipt{
				Status:      types.ReceiptStatusSuccessful,
				BlockNumber: big.NewInt(10),
				GasUsed:     40_000,
			}, nil),
		)
		r, err := WaitForReceipt(context.Background(), m, tx, from, time.Second, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, ReceiptConfirmed, r.Status)
		require.Equal(t, uint64(40_000), r.GasUsed)
		require.Equal(t, tx.Hash(), r.TxHash)
	})

	t.Run("timeout is pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := mock_chain.NewMockBackend(ctrl)
		tx := newTx(100_000)

		m.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, ethereum.NotFound).AnyTimes()
		r, err := WaitForReceipt(context.Background(), m, tx, from, 20*time.Millisecond, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, ReceiptPending, r.Status)
		require.Equal(t, tx.Hash(), r.TxHash)
	})

	t.Run("reverted with replayed reason", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := mock_chain.NewMockBackend(ctrl)
		tx := newTx(100_000)
		block := big.NewInt(12)

		m.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(&types.Receipt{
			Status:      types.ReceiptStatusFailed,
			BlockNumber: block,
			GasUsed:     60_000,
		}, nil)
		m.EXPECT().CallContract(gomock.Any(), gomock.Any(), block).DoAndReturn(
			func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				require.Equal(t, from, msg.From)
				require.Equal(t, tx.Data(), msg.Data)
				return nil, revertError{data: hexutil.Encode(CustomErrorSelector("RegisteredNullifier"))}
			})
		r, err := WaitForReceipt(context.Background(), m, tx, from, time.Second, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, ReceiptReverted, r.Status)
		require.Equal(t, "RegisteredNullifier", r.RevertReason)
	})

	t.Run("reverted out of gas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := mock_chain.NewMockBackend(ctrl)
		tx := newTx(100_000)

		m.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(&types.Receipt{
			Status:      types.ReceiptStatusFailed,
			BlockNumber: big.NewInt(12),
			GasUsed:     100_000,
		}, nil)
		r, err := WaitForReceipt(context.Background(), m, tx, from, time.Second, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, ReceiptReverted, r.Status)
		require.Equal(t, OutOfGasReason, r.RevertReason)
	})

	t.Run("node error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := mock_chain.NewMockBackend(ctrl)
		tx := newTx(100_000)

		m.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, errors.New("invalid params"))
		_, err := WaitForReceipt(context.Background(), m, tx, from, time.Second, time.Millisecond)
		require.Error(t, err)
	})
}
