package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/domain"
	"github.com/fiadopay/gateway/internal/interfaces/rest"
)

type contextKey string

const merchantContextKey contextKey = "merchant"

// tokenPrefix is the fake credential scheme: "FAKE-<merchant id>"
const tokenPrefix = "FAKE-"

// Auth resolves the Bearer token to an active merchant and stores it in the
// request context. Anything else is a 401.
func Auth(merchants application.MerchantDirectory, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			merchant, err := authenticate(r, merchants)
			if err != nil {
				logger.Warn("authentication rejected",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
				rest.WriteError(w, domain.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), merchantContextKey, merchant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, merchants application.MerchantDirectory) (*domain.Merchant, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, domain.NewUnauthorizedError()
	}

	rawID, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return nil, domain.NewUnauthorizedError()
	}

	merchantID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, domain.NewUnauthorizedError()
	}

	merchant, err := merchants.FindByID(r.Context(), merchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil || !merchant.IsActive() {
		return nil, domain.NewUnauthorizedError()
	}

	return merchant, nil
}

// MerchantFromContext returns the merchant placed there by Auth.
func MerchantFromContext(ctx context.Context) (*domain.Merchant, bool) {
	merchant, ok := ctx.Value(merchantContextKey).(*domain.Merchant)
	return merchant, ok
}
