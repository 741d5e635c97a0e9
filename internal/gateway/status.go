package gateway

import "github.com/common-repository/notch-pay-for-give/internal/models"

// Gateway transaction statuses. Anything not listed here maps to a
// failed payment with a generic reason.
const (
	TrxComplete = "complete"
	TrxRejected = "rejected"
	TrxCanceled = "canceled"
)

// MapStatus maps a gateway transaction status to the local payment
// status plus a human-readable reason for the failure note. The mapping
// is total: every input lands on complete or failed.
func MapStatus(trxStatus string) (models.PaymentStatus, string) {
	switch trxStatus {
	case TrxComplete:
		return models.StatusComplete, ""
	case TrxRejected:
		return models.StatusFailed, "Payment rejected on Notch Pay"
	case TrxCanceled:
		return models.StatusFailed, "Payment canceled on Notch Pay"
	default:
		return models.StatusFailed, "Payment failed on Notch Pay"
	}
}
