package delegation

import (
	"context"
	"math/big"
	"syscall"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/seanhuang1228/buy4me/delegation/mock"
	"github.com/seanhuang1228/buy4me/identifier"
	"github.com/stretchr/testify/require"
)

var (
	caller = common.HexToAddress("0x1111111111111111111111111111111111111111")
	owner  = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type revertError struct{}

func (revertError) Error() string          { return "execution reverted: ERC721: invalid token ID" }
func (revertError) ErrorData() interface{} { return "0x" }

func mustCandidate(t *testing.T, raw string) identifier.Candidate {
	t.Helper()
	c, err := identifier.ParseCandidate(raw)
	require.NoError(t, err)
	return c
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		setup     func(m *mock_delegation.MockPassGetter)
		want      *Resolution
		wantErr   error
	}{
		{
			name:      "address form authorized",
			candidate: owner.Hex(),
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(7), nil)
				m.EXPECT().CanActOnBehalf(gomock.Any(), owner, caller).Return(true, nil)
			},
			want: &Resolution{OwnerID: big.NewInt(7), Owner: owner, Authorized: true},
		},
		{
			name:      "token form resolves to canonical id",
			candidate: "12",
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().OwnerOf(gomock.Any(), big.NewInt(12)).Return(owner, nil)
				m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(7), nil)
				m.EXPECT().CanActOnBehalf(gomock.Any(), owner, caller).Return(true, nil)
			},
			want: &Resolution{OwnerID: big.NewInt(7), Owner: owner, Authorized: true},
		},
		{
			name:      "unauthorized is not an error",
			candidate: owner.Hex(),
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(7), nil)
				m.EXPECT().CanActOnBehalf(gomock.Any(), owner, caller).Return(false, nil)
			},
			want: &Resolution{OwnerID: big.NewInt(7), Owner: owner, Authorized: false},
		},
		{
			name:      "address without pass",
			candidate: owner.Hex(),
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(0), nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "unknown token reverts",
			candidate: "99",
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().OwnerOf(gomock.Any(), big.NewInt(99)).Return(common.Address{}, revertError{})
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "token owned by zero address",
			candidate: "5",
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().OwnerOf(gomock.Any(), big.NewInt(5)).Return(common.Address{}, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "network failure propagates",
			candidate: owner.Hex(),
			setup: func(m *mock_delegation.MockPassGetter) {
				m.EXPECT().Address2ID(gomock.Any(), owner).Return(nil, syscall.ECONNREFUSED)
			},
			wantErr: syscall.ECONNREFUSED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := mock_delegation.NewMockPassGetter(ctrl)
			tt.setup(m)

			got, err := Resolve(context.Background(), m, mustCandidate(t, tt.candidate), caller)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_delegation.NewMockPassGetter(ctrl)

	_, err := Resolve(context.Background(), m, mustCandidate(t, owner.Hex()), common.Address{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Resolve(context.Background(), m, identifier.Candidate{Raw: "garbage"}, caller)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIsEligible(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_delegation.NewMockPassGetter(ctrl)

	m.EXPECT().BalanceOf(gomock.Any(), caller).Return(big.NewInt(1), nil)
	ok, err := IsEligible(context.Background(), m, caller)
	require.NoError(t, err)
	require.True(t, ok)

	m.EXPECT().BalanceOf(gomock.Any(), owner).Return(big.NewInt(0), nil)
	ok, err = IsEligible(context.Background(), m, owner)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestETHResolver_RetriesNetworkFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_delegation.NewMockPassGetter(ctrl)

	gomock.InOrder(
		m.EXPECT().Address2ID(gomock.Any(), owner).Return(nil, syscall.ECONNRESET),
		m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(7), nil),
		m.EXPECT().CanActOnBehalf(gomock.Any(), owner, caller).Return(true, nil),
	)

	r := NewETHResolver(m, WithRetry(time.Millisecond, 3))
	res, err := r.Resolve(context.Background(), mustCandidate(t, owner.Hex()), caller)
	require.NoError(t, err)
	require.True(t, res.Authorized)
	require.Equal(t, big.NewInt(7), res.OwnerID)
}

func TestETHResolver_DoesNotRetryNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_delegation.NewMockPassGetter(ctrl)

	m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(0), nil).Times(1)

	r := NewETHResolver(m, WithRetry(time.Millisecond, 3))
	_, err := r.Resolve(context.Background(), mustCandidate(t, owner.Hex()), caller)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestETHResolver_GivesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_delegation.NewMockPassGetter(ctrl)

	m.EXPECT().BalanceOf(gomock.Any(), caller).Return(nil, errors.Wrap(syscall.ECONNREFUSED, "dial")).Times(3)

	r := NewETHResolver(m, WithRetry(time.Millisecond, 2))
	_, err := r.IsEligible(context.Background(), caller)
	require.ErrorIs(t, err, syscall.ECONNREFUSED)
}

func TestETHResolver_NoCaching(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mock_delegation.NewMockPassGetter(ctrl)

	m.EXPECT().Address2ID(gomock.Any(), owner).Return(big.NewInt(7), nil).Times(2)
	gomock.InOrder(
		m.EXPECT().CanActOnBehalf(gomock.Any(), owner, caller).Return(true, nil),
		m.EXPECT().CanActOnBehalf(gomock.Any(), owner, caller).Return(false, nil),
	)

	r := NewETHResolver(m)
	first, err := r.Resolve(context.Background(), mustCandidate(t, owner.Hex()), caller)
	require.NoError(t, err)
	require.True(t, first.Authorized)

	second, err := r.Resolve(context.Background(), mustCandidate(t, owner.Hex()), caller)
	require.NoError(t, err)
	require.False(t, second.Authorized)
}
