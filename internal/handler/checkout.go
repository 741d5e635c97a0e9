package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/config"
	"github.com/common-repository/notch-pay-for-give/internal/gateway"
	"github.com/common-repository/notch-pay-for-give/internal/models"
)

// CheckoutHandler turns a donation submission into a redirect to the
// gateway-hosted checkout page.
type CheckoutHandler struct {
	store    PaymentStore
	gateways *gateway.Registry
	gwCfg    config.GatewayConfig
	pages    config.PagesConfig
	logger   *zap.Logger
}

func NewCheckoutHandler(
	store PaymentStore,
	gateways *gateway.Registry,
	gwCfg config.GatewayConfig,
	pages config.PagesConfig,
	logger *zap.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		store:    store,
		gateways: gateways,
		gwCfg:    gwCfg,
		pages:    pages,
		logger:   logger,
	}
}

// donationForm holds the submitted donation fields.
type donationForm struct {
	FormID    int
	FormTitle string
	PriceID   int
	Amount    float64
	Email     string
	FirstName string
}

// Donate handles POST /give/donate.
func (h *CheckoutHandler) Donate(c echo.Context) error {
	form, errs := h.parseForm(c)
	if len(errs) > 0 {
		// Back to checkout with the validation errors, no gateway call.
		return h.backToCheckout(c, url.Values{"errors": {strings.Join(errs, ",")}})
	}

	purchaseKey := uuid.NewString()

	payment := &models.Payment{
		PurchaseKey:    purchaseKey,
		FormID:         form.FormID,
		FormTitle:      form.FormTitle,
		PriceID:        form.PriceID,
		Amount:         form.Amount,
		Currency:       h.gwCfg.Currency,
		DonorEmail:     form.Email,
		DonorFirstName: form.FirstName,
		Gateway:        "notchpay",
		Status:         models.StatusPending,
	}

	// The pending record is created before any gateway call.
	if err := h.store.Create(payment); err != nil {
		payload, _ := json.Marshal(payment)
		h.logger.Error("Payment creation failed before sending donor to Notch Pay",
			zap.ByteString("payment_data", payload), zap.Error(err))
		return h.backToCheckout(c, url.Values{"message": {"payment-error"}})
	}

	gw, err := h.gateways.Get(payment.Gateway)
	if err != nil {
		h.logger.Error("Gateway not registered", zap.String("gateway", payment.Gateway), zap.Error(err))
		return h.backToCheckout(c, url.Values{"message": {"payment-error"}})
	}

	authorizationURL, err := gw.Initialize(c.Request().Context(), gateway.InitializeRequest{
		Email:     form.Email,
		Name:      form.FirstName,
		Amount:    form.Amount,
		Reference: purchaseKey,
		Callback:  h.callbackURL(purchaseKey),
		Currency:  h.gwCfg.Currency,
	})
	if err != nil {
		// The payment stays pending; the donor can resubmit.
		h.logger.Error("Notch Pay initialize failed",
			zap.String("reference", purchaseKey), zap.Error(err))
		return c.String(http.StatusBadGateway, "payment could not be initialized")
	}

	return c.Redirect(http.StatusFound, authorizationURL)
}

func (h *CheckoutHandler) parseForm(c echo.Context) (donationForm, []string) {
	var errs []string

	form := donationForm{
		FormTitle: c.FormValue("give-form-title"),
		Email:     c.FormValue("email"),
		FirstName: c.FormValue("first_name"),
	}

	formID, err := strconv.Atoi(c.FormValue("give-form-id"))
	if err != nil || formID <= 0 {
		errs = append(errs, "invalid-form-id")
	}
	form.FormID = formID

	// Price tier is optional and defaults to 0.
	if v := c.FormValue("give-price-id"); v != "" {
		if priceID, err := strconv.Atoi(v); err == nil {
			form.PriceID = priceID
		}
	}

	amount, err := strconv.ParseFloat(c.FormValue("amount"), 64)
	if err != nil || amount <= 0 {
		errs = append(errs, "invalid-amount")
	}
	form.Amount = amount

	if form.Email == "" || !strings.Contains(form.Email, "@") {
		errs = append(errs, "invalid-email")
	}

	return form, errs
}

// callbackURL builds the checkout-return URL the gateway redirects the
// donor to, carrying the verify marker and the payment reference.
func (h *CheckoutHandler) callbackURL(purchaseKey string) string {
	q := url.Values{
		APIQueryVar: {VerifyAction},
		"reference": {purchaseKey},
	}
	return h.pages.PublicURL + "/give/checkout?" + q.Encode()
}

func (h *CheckoutHandler) backToCheckout(c echo.Context, extra url.Values) error {
	extra.Set("payment-mode", "notchpay")
	return c.Redirect(http.StatusFound, h.pages.CheckoutURL+"?"+extra.Encode())
}
