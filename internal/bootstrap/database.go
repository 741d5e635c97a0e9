package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/common-repository/notch-pay-for-give/internal/models"
)

// Migrate ensures the payment tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Payment{},
		&models.PaymentNote{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
