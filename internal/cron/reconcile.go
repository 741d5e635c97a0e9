package cron

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/config"
	"github.com/common-repository/notch-pay-for-give/internal/gateway"
	"github.com/common-repository/notch-pay-for-give/internal/models"
	"github.com/common-repository/notch-pay-for-give/internal/repository"
)

// PaymentStore is the repository slice the reconciler consumes.
type PaymentStore interface {
	FindStalePending(olderThan time.Duration, limit int) ([]models.Payment, error)
	UpdateStatus(id uint, status models.PaymentStatus) error
	SetGatewayReference(id uint, reference string) error
	AppendNote(paymentID uint, note string) error
}

// Reconciler periodically re-verifies payments stuck in pending —
// initialize succeeded but the donor never came back through the
// callback — and applies the gateway-confirmed outcome.
type Reconciler struct {
	cron     *cron.Cron
	cfg      config.ReconcileConfig
	store    PaymentStore
	gateways *gateway.Registry
	logger   *zap.Logger
}

func New(cfg config.ReconcileConfig, store PaymentStore, gateways *gateway.Registry, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		store:    store,
		gateways: gateways,
		logger:   logger,
	}
}

// Start registers and starts the reconcile job.
func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.Schedule, func() {
		r.logger.Debug("Running: reconcile stale pending payments")
		r.Run(context.Background())
	}); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Pending-payment reconciler started",
		zap.String("schedule", r.cfg.Schedule),
		zap.Duration("min_age", r.cfg.MinAge))
	return nil
}

// Stop stops the scheduler and returns a context that is done once
// running jobs have finished.
func (r *Reconciler) Stop() context.Context {
	return r.cron.Stop()
}

// Run executes one reconcile pass.
func (r *Reconciler) Run(ctx context.Context) {
	payments, err := r.store.FindStalePending(r.cfg.MinAge, r.cfg.BatchSize)
	if err != nil {
		r.logger.Error("Failed to load stale pending payments", zap.Error(err))
		return
	}

	for _, p := range payments {
		r.reconcileOne(ctx, p)
	}
}

func (r *Reconciler) reconcileOne(ctx context.Context, p models.Payment) {
	gw, err := r.gateways.Get(p.Gateway)
	if err != nil {
		r.logger.Error("Gateway not registered", zap.String("gateway", p.Gateway), zap.Error(err))
		return
	}

	// No callback means no gateway-side reference was recorded; the
	// initialize reference (purchase key) identifies the transaction.
	reference := p.GatewayReference
	if reference == "" {
		reference = p.PurchaseKey
	}

	trx, err := gw.FetchTransaction(ctx, reference)
	if err != nil {
		// Transient or still unknown at the gateway; try again next pass.
		r.logger.Warn("Reconcile verify failed",
			zap.String("purchase_key", p.PurchaseKey), zap.Error(err))
		return
	}

	status, reason := gateway.MapStatus(trx.Status)

	if p.GatewayReference == "" {
		if err := r.store.SetGatewayReference(p.ID, trx.Reference); err != nil {
			r.logger.Warn("Failed to record gateway reference",
				zap.String("purchase_key", p.PurchaseKey), zap.Error(err))
		}
	}

	if err := r.store.UpdateStatus(p.ID, status); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// A callback settled it between the query and the update.
			return
		}
		r.logger.Error("Reconcile status update failed",
			zap.String("purchase_key", p.PurchaseKey), zap.Error(err))
		return
	}

	if status == models.StatusFailed {
		if err := r.store.AppendNote(p.ID, "ERROR: "+reason); err != nil {
			r.logger.Warn("Failed to append payment note",
				zap.String("purchase_key", p.PurchaseKey), zap.Error(err))
		}
	}

	r.logger.Info("Reconciled stale pending payment",
		zap.String("purchase_key", p.PurchaseKey),
		zap.String("status", string(status)))
}
