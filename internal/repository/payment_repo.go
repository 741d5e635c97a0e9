package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/common-repository/notch-pay-for-give/internal/models"
)

// PaymentRepository handles payment database operations.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment row.
func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// FindByKey returns the payment identified by its purchase key.
func (r *PaymentRepository) FindByKey(purchaseKey string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("purchase_key = ?", purchaseKey).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus applies a status transition under a row lock so that
// concurrent callbacks for the same reference serialize on the database.
// Re-applying the current status is a no-op; writing a different status
// over a terminal one returns ErrStatusConflict without touching the row.
func (r *PaymentRepository) UpdateStatus(id uint, status models.PaymentStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch payment.Status.Classify(status) {
		case models.TransitionNoop:
			return nil
		case models.TransitionConflict:
			return fmt.Errorf("%w: %s already recorded, refusing %s",
				ErrStatusConflict, payment.Status, status)
		}

		return tx.Model(&models.Payment{}).Where("id = ?", id).
			Update("status", status).Error
	})
}

// SetGatewayReference records the gateway-side transaction reference.
func (r *PaymentRepository) SetGatewayReference(id uint, reference string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Update("gateway_reference", reference).Error
}

// AppendNote attaches a note to a payment. Duplicate note texts for the
// same payment are skipped so callback replays do not stack notes.
func (r *PaymentRepository) AppendNote(paymentID uint, note string) error {
	var count int64
	if err := r.db.Model(&models.PaymentNote{}).
		Where("payment_id = ? AND note = ?", paymentID, note).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.Create(&models.PaymentNote{PaymentID: paymentID, Note: note}).Error
}

// FindAll returns payments with pagination and search.
func (r *PaymentRepository) FindAll(limit, page int, query string) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.Model(&models.Payment{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("purchase_key LIKE ? OR donor_email LIKE ? OR status LIKE ?",
			search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// FindStalePending returns pending payments older than the given age,
// capped at limit rows. Used by the reconciler.
func (r *PaymentRepository) FindStalePending(olderThan time.Duration, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	cutoff := time.Now().Add(-olderThan)

	var payments []models.Payment
	err := r.db.Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Order("created_at ASC").Limit(limit).Find(&payments).Error
	return payments, err
}
