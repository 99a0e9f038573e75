package postgres

import (
	"github.com/fiadopay/gateway/internal/domain"
)

// toDomainPayment: maps db model to domain entity
func toDomainPayment(m PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                m.ID,
		MerchantID:        m.MerchantID,
		Method:            m.Method,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Installments:      m.Installments,
		MonthlyRate:       m.MonthlyRate,
		TotalWithInterest: m.TotalWithInterest,
		Status:            domain.PaymentStatus(m.Status),
		IdempotencyKey:    m.IdempotencyKey,
		OrderID:           m.OrderID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// toPaymentModel: maps domain entity to db model
func toPaymentModel(p *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:                p.ID,
		MerchantID:        p.MerchantID,
		Method:            p.Method,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Installments:      p.Installments,
		MonthlyRate:       p.MonthlyRate,
		TotalWithInterest: p.TotalWithInterest,
		Status:            string(p.Status),
		IdempotencyKey:    p.IdempotencyKey,
		OrderID:           p.OrderID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toDomainDelivery(m WebhookDeliveryModel) *domain.WebhookDelivery {
	return &domain.WebhookDelivery{
		ID:            m.ID,
		EventID:       m.EventID,
		EventType:     m.EventType,
		PaymentID:     m.PaymentID,
		TargetURL:     m.TargetURL,
		Signature:     m.Signature,
		Payload:       m.Payload,
		Attempts:      m.Attempts,
		Delivered:     m.Delivered,
		LastAttemptAt: m.LastAttemptAt,
	}
}

func toDomainMerchant(m MerchantModel) *domain.Merchant {
	return &domain.Merchant{
		ID:         m.ID,
		Name:       m.Name,
		WebhookURL: m.WebhookURL,
		Status:     domain.MerchantStatus(m.Status),
	}
}
