package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/config"
	"github.com/common-repository/notch-pay-for-give/internal/gateway"
	"github.com/common-repository/notch-pay-for-give/internal/models"
	"github.com/common-repository/notch-pay-for-give/internal/repository"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) FindStalePending(olderThan time.Duration, limit int) ([]models.Payment, error) {
	args := m.Called(olderThan, limit)
	if p, ok := args.Get(0).([]models.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *storeMock) UpdateStatus(id uint, status models.PaymentStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *storeMock) SetGatewayReference(id uint, reference string) error {
	args := m.Called(id, reference)
	return args.Error(0)
}

func (m *storeMock) AppendNote(paymentID uint, note string) error {
	args := m.Called(paymentID, note)
	return args.Error(0)
}

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) Name() string { return "notchpay" }

func (m *gatewayMock) Initialize(ctx context.Context, req gateway.InitializeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *gatewayMock) FetchTransaction(ctx context.Context, reference string) (*gateway.Transaction, error) {
	args := m.Called(ctx, reference)
	if trx, ok := args.Get(0).(*gateway.Transaction); ok {
		return trx, args.Error(1)
	}
	return nil, args.Error(1)
}

var testCfg = config.ReconcileConfig{
	Schedule:  "0 */15 * * * *",
	MinAge:    time.Hour,
	BatchSize: 100,
}

func newReconciler(t *testing.T, store *storeMock, gw *gatewayMock) *Reconciler {
	t.Helper()
	reg := gateway.NewRegistry()
	require.NoError(t, reg.Register(gw))
	return New(testCfg, store, reg, zap.NewNop())
}

func stale(id uint, key string) models.Payment {
	return models.Payment{
		ID:          id,
		PurchaseKey: key,
		Gateway:     "notchpay",
		Status:      models.StatusPending,
	}
}

func TestReconciler_AppliesConfirmedOutcome(t *testing.T) {
	ctx := context.Background()
	store := new(storeMock)
	gw := new(gatewayMock)

	store.On("FindStalePending", time.Hour, 100).
		Return([]models.Payment{stale(1, "key-1"), stale(2, "key-2")}, nil)

	// key-1 completed at the gateway, key-2 was canceled.
	gw.On("FetchTransaction", mock.Anything, "key-1").
		Return(&gateway.Transaction{Reference: "R1", Status: "complete"}, nil)
	gw.On("FetchTransaction", mock.Anything, "key-2").
		Return(&gateway.Transaction{Reference: "R2", Status: "canceled"}, nil)

	store.On("SetGatewayReference", uint(1), "R1").Return(nil)
	store.On("SetGatewayReference", uint(2), "R2").Return(nil)
	store.On("UpdateStatus", uint(1), models.StatusComplete).Return(nil)
	store.On("UpdateStatus", uint(2), models.StatusFailed).Return(nil)
	store.On("AppendNote", uint(2), "ERROR: Payment canceled on Notch Pay").Return(nil)

	newReconciler(t, store, gw).Run(ctx)

	store.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestReconciler_SkipsOnGatewayFailure(t *testing.T) {
	ctx := context.Background()
	store := new(storeMock)
	gw := new(gatewayMock)

	store.On("FindStalePending", time.Hour, 100).
		Return([]models.Payment{stale(1, "key-1")}, nil)
	gw.On("FetchTransaction", mock.Anything, "key-1").
		Return(nil, fmt.Errorf("%w: timeout", gateway.ErrUnavailable))

	newReconciler(t, store, gw).Run(ctx)

	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestReconciler_ToleratesConcurrentCallback(t *testing.T) {
	ctx := context.Background()
	store := new(storeMock)
	gw := new(gatewayMock)

	// A callback won the race and recorded a different terminal state.
	store.On("FindStalePending", time.Hour, 100).
		Return([]models.Payment{stale(1, "key-1")}, nil)
	gw.On("FetchTransaction", mock.Anything, "key-1").
		Return(&gateway.Transaction{Reference: "R1", Status: "complete"}, nil)
	store.On("SetGatewayReference", uint(1), "R1").Return(nil)
	store.On("UpdateStatus", uint(1), models.StatusComplete).
		Return(fmt.Errorf("%w: failed already recorded", repository.ErrStatusConflict))

	newReconciler(t, store, gw).Run(ctx)

	store.AssertNotCalled(t, "AppendNote", mock.Anything, mock.Anything)
}

func TestReconciler_UsesRecordedGatewayReference(t *testing.T) {
	ctx := context.Background()
	store := new(storeMock)
	gw := new(gatewayMock)

	p := stale(1, "key-1")
	p.GatewayReference = "R9"

	store.On("FindStalePending", time.Hour, 100).Return([]models.Payment{p}, nil)
	gw.On("FetchTransaction", mock.Anything, "R9").
		Return(&gateway.Transaction{Reference: "R9", Status: "complete"}, nil)
	store.On("UpdateStatus", uint(1), models.StatusComplete).Return(nil)

	newReconciler(t, store, gw).Run(ctx)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "SetGatewayReference", mock.Anything, mock.Anything)
}
