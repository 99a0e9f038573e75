package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/application/services"
	"github.com/fiadopay/gateway/internal/domain"
	"github.com/fiadopay/gateway/internal/interfaces/rest"
	"github.com/fiadopay/gateway/internal/interfaces/rest/middleware"
)

type PaymentRequest struct {
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Installments int             `json:"installments,omitempty"`
	Metadata     *Metadata       `json:"metadata,omitempty"`
}

type Metadata struct {
	OrderID *string `json:"order_id,omitempty"`
}

type PaymentResponse struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	Method            string          `json:"method"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Installments      int             `json:"installments"`
	MonthlyRate       *float64        `json:"monthly_rate,omitempty"`
	TotalWithInterest decimal.Decimal `json:"total_with_interest"`
	Metadata          *Metadata       `json:"metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type RefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type PaymentHandler struct {
	service *services.PaymentService
	logger  *slog.Logger
}

func NewPaymentHandler(service *services.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the payment routes on the mux
func (h *PaymentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /payments", h.CreatePayment)
	mux.HandleFunc("GET /payments/{id}", h.GetPayment)
	mux.HandleFunc("POST /payments/{id}/refunds", h.RefundPayment)
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	merchant, ok := middleware.MerchantFromContext(r.Context())
	if !ok {
		rest.WriteError(w, domain.NewUnauthorizedError())
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	var idempotencyKey *string
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		idempotencyKey = &key
	}

	cmd := services.CreatePaymentCommand{
		Method:       req.Method,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Installments: req.Installments,
	}
	if req.Metadata != nil {
		cmd.OrderID = req.Metadata.OrderID
	}

	payment, err := h.service.Create(r.Context(), merchant, idempotencyKey, cmd)
	if err != nil {
		h.logger.Error("create payment failed", "merchant_id", merchant.ID, "error", err)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    toPaymentResponse(payment),
	})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	merchant, ok := middleware.MerchantFromContext(r.Context())
	if !ok {
		rest.WriteError(w, domain.NewUnauthorizedError())
		return
	}

	payment, err := h.service.Get(r.Context(), merchant, r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    toPaymentResponse(payment),
	})
}

func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	merchant, ok := middleware.MerchantFromContext(r.Context())
	if !ok {
		rest.WriteError(w, domain.NewUnauthorizedError())
		return
	}

	receipt, err := h.service.Refund(r.Context(), merchant, r.PathValue("id"))
	if err != nil {
		h.logger.Error("refund failed", "merchant_id", merchant.ID, "payment_id", r.PathValue("id"), "error", err)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data: RefundResponse{
			ID:     receipt.ID,
			Status: receipt.Status,
		},
	})
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                p.ID,
		Status:            string(p.Status),
		Method:            p.Method,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Installments:      p.Installments,
		MonthlyRate:       p.MonthlyRate,
		TotalWithInterest: p.TotalWithInterest,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.OrderID != nil {
		resp.Metadata = &Metadata{OrderID: p.OrderID}
	}
	return resp
}
