package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/common-repository/notch-pay-for-give/internal/gateway"
	"github.com/common-repository/notch-pay-for-give/internal/models"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Create(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *StoreMock) FindByKey(purchaseKey string) (*models.Payment, error) {
	args := m.Called(purchaseKey)
	if p, ok := args.Get(0).(*models.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoreMock) UpdateStatus(id uint, status models.PaymentStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *StoreMock) SetGatewayReference(id uint, reference string) error {
	args := m.Called(id, reference)
	return args.Error(0)
}

func (m *StoreMock) AppendNote(paymentID uint, note string) error {
	args := m.Called(paymentID, note)
	return args.Error(0)
}

type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) Name() string {
	return "notchpay"
}

func (m *GatewayMock) Initialize(ctx context.Context, req gateway.InitializeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *GatewayMock) FetchTransaction(ctx context.Context, reference string) (*gateway.Transaction, error) {
	args := m.Called(ctx, reference)
	if trx, ok := args.Get(0).(*gateway.Transaction); ok {
		return trx, args.Error(1)
	}
	return nil, args.Error(1)
}

type TrackerMock struct {
	mock.Mock
}

func (m *TrackerMock) LogChargeSuccess(reference string) {
	m.Called(reference)
}
