package models

import "time"

// PaymentStatus is the local lifecycle state of a donation payment.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusComplete PaymentStatus = "complete"
	StatusFailed   PaymentStatus = "failed"
)

// Terminal reports whether a payment in this status can still change.
func (s PaymentStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Transition classifies a requested status change.
type Transition int

const (
	// TransitionApply means the new status should be written.
	TransitionApply Transition = iota
	// TransitionNoop means the payment already carries the new status.
	TransitionNoop
	// TransitionConflict means a differing terminal status is already
	// recorded; the existing gateway-confirmed outcome wins.
	TransitionConflict
)

// Classify decides what writing next over current should do.
// Re-applying a terminal status is harmless; overwriting one is not.
func (s PaymentStatus) Classify(next PaymentStatus) Transition {
	switch {
	case s == next:
		return TransitionNoop
	case s.Terminal():
		return TransitionConflict
	default:
		return TransitionApply
	}
}

// Payment maps to the `payments` table. One row per donation attempt;
// PurchaseKey is the reference correlated with the gateway transaction.
type Payment struct {
	ID               uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PurchaseKey      string        `gorm:"column:purchase_key;size:191;uniqueIndex" json:"purchase_key"`
	FormID           int           `gorm:"column:form_id" json:"form_id"`
	FormTitle        string        `gorm:"column:form_title;size:400" json:"form_title"`
	PriceID          int           `gorm:"column:price_id" json:"price_id"`
	Amount           float64       `gorm:"column:amount" json:"amount"`
	Currency         string        `gorm:"column:currency;size:10" json:"currency"`
	DonorEmail       string        `gorm:"column:donor_email;size:320" json:"donor_email"`
	DonorFirstName   string        `gorm:"column:donor_first_name;size:200" json:"donor_first_name"`
	Gateway          string        `gorm:"column:gateway;size:100" json:"gateway"`
	Status           PaymentStatus `gorm:"column:status;size:20;index" json:"status"`
	GatewayReference string        `gorm:"column:gateway_reference;size:400" json:"gateway_reference"`
	CreatedAt        time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentNote maps to the `payment_notes` table.
type PaymentNote struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PaymentID uint      `gorm:"column:payment_id;index" json:"payment_id"`
	Note      string    `gorm:"column:note;type:text" json:"note"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PaymentNote) TableName() string {
	return "payment_notes"
}
