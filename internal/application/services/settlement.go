package services

import (
	"context"
	"time"
)

// scheduleSettlement hands the settlement decision to the worker pool. The
// caller has already returned the PENDING payment, so a saturated pool is
// only logged; the payment stays PENDING.
func (s *PaymentService) scheduleSettlement(paymentID string) {
	if err := s.pool.Submit(func(ctx context.Context) {
		s.settle(ctx, paymentID)
	}); err != nil {
		s.logger.Error("settlement not scheduled",
			"payment_id", paymentID,
			"error", err)
	}
}

// settle runs once per created payment. It re-reads the persisted record
// rather than touching the object the request path built, decides the
// outcome, persists it and triggers the webhook. Every failure here is
// terminal to this task only.
func (s *PaymentService) settle(ctx context.Context, paymentID string) {
	// simulated processing latency
	select {
	case <-time.After(s.cfg.Delay):
	case <-ctx.Done():
		return
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		s.logger.Error("settlement read failed", "payment_id", paymentID, "error", err)
		return
	}
	if payment == nil {
		return
	}

	approved := !s.failures.ShouldFail()

	if approved {
		err = payment.MarkApproved()
	} else {
		err = payment.MarkDeclined()
	}
	if err != nil {
		// a refund raced ahead of us; its state wins
		s.logger.Warn("settlement skipped",
			"payment_id", paymentID,
			"status", payment.Status,
			"error", err)
		return
	}

	if err := s.payments.UpdateStatus(ctx, payment); err != nil {
		s.logger.Error("settlement update failed", "payment_id", paymentID, "error", err)
		return
	}

	s.logger.Info("payment settled",
		"payment_id", paymentID,
		"status", payment.Status)

	s.notifier.Send(ctx, payment)
}
