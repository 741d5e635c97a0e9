package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/config"
	"github.com/common-repository/notch-pay-for-give/internal/gateway"
	"github.com/common-repository/notch-pay-for-give/internal/middleware"
	"github.com/common-repository/notch-pay-for-give/internal/models"
	"github.com/common-repository/notch-pay-for-give/internal/repository"
)

// CallbackHandler completes the flow when the donor returns from the
// gateway: verify the transaction, apply the mapped status and send the
// donor to the success or failure page.
type CallbackHandler struct {
	store    PaymentStore
	gateways *gateway.Registry
	tracker  ChargeTracker
	deduper  middleware.CompletionDeduper
	pages    config.PagesConfig
	logger   *zap.Logger
}

func NewCallbackHandler(
	store PaymentStore,
	gateways *gateway.Registry,
	tracker ChargeTracker,
	deduper middleware.CompletionDeduper,
	pages config.PagesConfig,
	logger *zap.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		store:    store,
		gateways: gateways,
		tracker:  tracker,
		deduper:  deduper,
		pages:    pages,
		logger:   logger,
	}
}

// Verify handles GET /give/checkout?notchpay-give-api=verify.
//
// The gateway redirects the donor back with notchpay_trxref (the
// purchase key it was initialized with), reference (its own transaction
// reference) and an optimistic status hint. The hint is never trusted;
// the transaction is re-fetched from the gateway.
func (h *CallbackHandler) Verify(c echo.Context) error {
	if c.QueryParam(APIQueryVar) != VerifyAction {
		return c.NoContent(http.StatusNotFound)
	}

	trackingID := c.QueryParam("notchpay_trxref")
	reference := c.QueryParam("reference")
	statusHint := c.QueryParam("status")
	if trackingID == "" || reference == "" || statusHint == "" {
		return c.String(http.StatusBadRequest, "not a valid response")
	}

	payment, err := h.store.FindByKey(trackingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.String(http.StatusNotFound, "not a valid reference")
		}
		h.logger.Error("Payment lookup failed",
			zap.String("tracking_id", trackingID), zap.Error(err))
		return c.String(http.StatusInternalServerError, "verification failed")
	}

	gw, err := h.gateways.Get(payment.Gateway)
	if err != nil {
		h.logger.Error("Gateway not registered", zap.String("gateway", payment.Gateway), zap.Error(err))
		return c.String(http.StatusInternalServerError, "verification failed")
	}

	trx, err := gw.FetchTransaction(c.Request().Context(), reference)
	if err != nil {
		// Transient: the payment status is left untouched, a later
		// callback or the reconciler settles it.
		h.logger.Error("Notch Pay verify failed",
			zap.String("reference", reference), zap.Error(err))
		return c.String(http.StatusBadGateway, "verification failed")
	}

	if err := h.store.SetGatewayReference(payment.ID, trx.Reference); err != nil {
		h.logger.Warn("Failed to record gateway reference",
			zap.String("reference", trx.Reference), zap.Error(err))
	}

	status, reason := gateway.MapStatus(trx.Status)

	if err := h.store.UpdateStatus(payment.ID, status); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// The earlier gateway-confirmed outcome is authoritative;
			// log the conflict and route the donor by the stored state.
			h.logger.Error("Conflicting terminal status on callback",
				zap.String("purchase_key", payment.PurchaseKey),
				zap.String("stored", string(payment.Status)),
				zap.String("reported", string(status)))
			return h.redirectByStatus(c, payment.Status)
		}
		h.logger.Error("Payment status update failed",
			zap.String("purchase_key", payment.PurchaseKey), zap.Error(err))
		return c.String(http.StatusInternalServerError, "verification failed")
	}

	if status == models.StatusComplete {
		h.trackCompletion(c, trx.Reference)
		return c.Redirect(http.StatusFound, h.pages.SuccessURL)
	}

	if err := h.store.AppendNote(payment.ID, "ERROR: "+reason); err != nil {
		h.logger.Warn("Failed to append payment note",
			zap.String("purchase_key", payment.PurchaseKey), zap.Error(err))
	}
	return c.Redirect(http.StatusFound, h.pages.FailureURL)
}

// trackCompletion fires the best-effort charge-success ping, at most
// once per reference when the deduper is reachable. A deduper error
// means we ping anyway; a duplicate attempt is harmless.
func (h *CallbackHandler) trackCompletion(c echo.Context, reference string) {
	seen, err := h.deduper.Seen(c.Request().Context(), reference)
	if err != nil {
		h.logger.Warn("Completion deduper unavailable", zap.Error(err))
		seen = false
	}
	if !seen {
		h.tracker.LogChargeSuccess(reference)
	}
}

func (h *CallbackHandler) redirectByStatus(c echo.Context, status models.PaymentStatus) error {
	if status == models.StatusComplete {
		return c.Redirect(http.StatusFound, h.pages.SuccessURL)
	}
	return c.Redirect(http.StatusFound, h.pages.FailureURL)
}
