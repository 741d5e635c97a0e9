package handler

import "github.com/common-repository/notch-pay-for-give/internal/models"

// Route markers for the checkout-return endpoint. The gateway calls
// back with APIQueryVar=verify plus the reference it was given.
const (
	APIQueryVar  = "notchpay-give-api"
	VerifyAction = "verify"
)

// PaymentStore is the slice of the payment repository the handlers
// consume. Satisfied by *repository.PaymentRepository.
type PaymentStore interface {
	Create(payment *models.Payment) error
	FindByKey(purchaseKey string) (*models.Payment, error)
	UpdateStatus(id uint, status models.PaymentStatus) error
	SetGatewayReference(id uint, reference string) error
	AppendNote(paymentID uint, note string) error
}

// ChargeTracker reports confirmed charges, best-effort.
// Satisfied by *gateway.Tracker.
type ChargeTracker interface {
	LogChargeSuccess(reference string)
}
