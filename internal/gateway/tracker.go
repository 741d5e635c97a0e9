package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/pkg/httpclient"
)

// Tracker reports confirmed charges to the gateway's analytics endpoint.
// Strictly best-effort: a failed ping is logged and forgotten, it never
// blocks or fails the donor-facing flow.
type Tracker struct {
	baseURL    string
	pluginName string
	client     *httpclient.Client
	logger     *zap.Logger
}

func NewTracker(baseURL, pluginName string, logger *zap.Logger) *Tracker {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Tracker{
		baseURL:    baseURL,
		pluginName: pluginName,
		client:     httpclient.New().WithTimeout(10 * time.Second),
		logger:     logger,
	}
}

// LogChargeSuccess fires the charge-success ping in the background.
func (t *Tracker) LogChargeSuccess(reference string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		body := map[string]string{
			"plugin_name":           t.pluginName,
			"transaction_reference": reference,
		}
		if _, err := t.client.Post(ctx, t.baseURL+"/log/charge_success", body); err != nil {
			t.logger.Warn("Charge success ping failed",
				zap.String("reference", reference), zap.Error(err))
		}
	}()
}
