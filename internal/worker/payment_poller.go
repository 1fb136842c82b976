package worker

import (
	"context"
	"time"

	"artmarket-app/internal/domain/orders"

	"github.com/sirupsen/logrus"
)

const invoiceBatchSize = 100

type invoiceStore interface {
	PendingInvoiceNumbers(ctx context.Context, limit int) ([]string, error)
	SettleInvoice(ctx context.Context, invoiceNumber string, to orders.Status) (int64, error)
}

type paymentVerifier interface {
	VerifyPayment(ctx context.Context, invoiceNumber string) (bool, error)
}

// PaymentPoller is the backstop for missed provider webhooks: it periodically
// verifies invoices that still have pending transactions and completes the
// paid ones.
type PaymentPoller struct {
	store    invoiceStore
	verifier paymentVerifier
	interval time.Duration
	log      *logrus.Logger
}

func NewPaymentPoller(store invoiceStore, verifier paymentVerifier, interval time.Duration, log *logrus.Logger) *PaymentPoller {
	return &PaymentPoller{
		store:    store,
		verifier: verifier,
		interval: interval,
		log:      log,
	}
}

func (p *PaymentPoller) Start(ctx context.Context) {
	p.log.WithField("interval", p.interval).Info("payment poller started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("payment poller stopping")
			return
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				p.log.WithError(err).Error("payment poll failed")
			}
		}
	}
}

func (p *PaymentPoller) poll(ctx context.Context) error {
	invoices, err := p.store.PendingInvoiceNumbers(ctx, invoiceBatchSize)
	if err != nil {
		return err
	}

	for _, invoice := range invoices {
		paid, err := p.verifier.VerifyPayment(ctx, invoice)
		if err != nil {
			// keep going; the next tick retries this invoice
			p.log.WithError(err).WithField("invoice", invoice).Warn("verify failed")
			continue
		}
		if !paid {
			continue
		}
		if _, err := p.store.SettleInvoice(ctx, invoice, orders.StatusCompleted); err != nil {
			p.log.WithError(err).WithField("invoice", invoice).Error("settle failed")
		}
	}

	return nil
}
