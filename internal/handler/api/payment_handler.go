package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/repository"
)

// PaymentHandler exposes read-only payment records to the admin API.
type PaymentHandler struct {
	repo   *repository.PaymentRepository
	logger *zap.Logger
}

func NewPaymentHandler(repo *repository.PaymentRepository, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{repo: repo, logger: logger}
}

// List handles GET /api/payments.
func (h *PaymentHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := c.QueryParam("q")
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if page <= 0 {
		page = 1
	}

	payments, total, err := h.repo.FindAll(limit, page, q)
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		return errorResponse(c, "Failed to retrieve payments")
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return successResponse(c, "Successful", map[string]interface{}{
		"payments": payments,
		"pagination": map[string]interface{}{
			"total_record": total,
			"total_pages":  totalPages,
			"current_page": page,
			"per_page":     limit,
		},
	})
}

// Get handles GET /api/payments/:key.
func (h *PaymentHandler) Get(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return errorResponse(c, "purchase key is required")
	}

	payment, err := h.repo.FindByKey(key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorResponse(c, "Payment not found")
		}
		h.logger.Error("Failed to fetch payment", zap.String("key", key), zap.Error(err))
		return errorResponse(c, "Failed to retrieve payment")
	}

	return successResponse(c, "Successful", payment)
}

func successResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": true,
		"msg":    msg,
		"obj":    obj,
	})
}

func errorResponse(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": false,
		"msg":    msg,
		"obj":    nil,
	})
}
