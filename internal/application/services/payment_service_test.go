package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/application/services"
	"github.com/fiadopay/gateway/internal/config"
	"github.com/fiadopay/gateway/internal/domain"
	"github.com/fiadopay/gateway/internal/fraud"
	"github.com/fiadopay/gateway/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMerchant() *domain.Merchant {
	url := "https://merchant.example/webhooks"
	return &domain.Merchant{
		ID:         1,
		Name:       "Loja Teste",
		WebhookURL: &url,
		Status:     domain.MerchantActive,
	}
}

func newService(repo *MockPaymentRepository, policy fraud.Policy, notifier *MockNotifier, pool application.TaskSubmitter) *services.PaymentService {
	return services.NewPaymentService(
		repo,
		pricing.NewRegistry(),
		policy,
		notifier,
		pool,
		config.SettlementConfig{Delay: time.Millisecond},
		testLogger(),
	)
}

func strPtr(s string) *string { return &s }

func cardCommand(amount string, installments int) services.CreatePaymentCommand {
	return services.CreatePaymentCommand{
		Method:       "CARD",
		Amount:       decimal.RequireFromString(amount),
		Currency:     "BRL",
		Installments: installments,
	}
}

func TestPaymentService_Create(t *testing.T) {
	t.Run("prices card installments and returns pending", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		notifier := &MockNotifier{}
		svc := newService(repo, fixedPolicy{fail: false}, notifier, dropSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("100.00", 3))

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, payment.Status)
		assert.Equal(t, "109.27", payment.TotalWithInterest.StringFixed(2))
		require.NotNil(t, payment.MonthlyRate)
		assert.Equal(t, 1.0, *payment.MonthlyRate)
	})

	t.Run("unknown method passes amount through", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		svc := newService(repo, fixedPolicy{}, &MockNotifier{}, dropSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, services.CreatePaymentCommand{
			Method:   "crypto",
			Amount:   decimal.RequireFromString("80.00"),
			Currency: "BRL",
		})

		require.NoError(t, err)
		assert.Equal(t, "CRYPTO", payment.Method)
		assert.Equal(t, "80.00", payment.TotalWithInterest.StringFixed(2))
		assert.Nil(t, payment.MonthlyRate)
		assert.Equal(t, 1, payment.Installments)
	})

	t.Run("repeated idempotency key returns original without repricing", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		policy := &countingPolicy{fail: true}
		notifier := &MockNotifier{}
		svc := newService(repo, policy, notifier, syncSubmitter{})
		key := strPtr("idem-1")

		first, err := svc.Create(context.Background(), testMerchant(), key, cardCommand("100.00", 3))
		require.NoError(t, err)

		second, err := svc.Create(context.Background(), testMerchant(), key, cardCommand("999.99", 12))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "109.27", second.TotalWithInterest.StringFixed(2))
		assert.Equal(t, 1, repo.CreateCalls)
		// exactly one settlement draw and one notification for the one payment
		assert.Equal(t, 1, policy.Draws())
		assert.Equal(t, 1, notifier.SendCount())
	})

	t.Run("create race on idempotency key returns the winner", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		winner, err := domain.NewPayment(1, "PIX", decimal.NewFromInt(10), "BRL", 1, strPtr("idem-race"), nil)
		require.NoError(t, err)

		// lookup misses, insert collides, re-read finds the winner
		repo.FindByIdempotencyKeyFn = func(ctx context.Context, merchantID int64, key string) (*domain.Payment, error) {
			if repo.CreateCalls == 0 {
				return nil, nil
			}
			return winner, nil
		}
		repo.CreateFn = func(ctx context.Context, payment *domain.Payment) error {
			return application.ErrDuplicateIdempotencyKey
		}

		svc := newService(repo, fixedPolicy{}, &MockNotifier{}, dropSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), strPtr("idem-race"), services.CreatePaymentCommand{
			Method:   "PIX",
			Amount:   decimal.NewFromInt(10),
			Currency: "BRL",
		})

		require.NoError(t, err)
		assert.Equal(t, winner.ID, payment.ID)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		svc := newService(repo, fixedPolicy{}, &MockNotifier{}, dropSubmitter{})

		_, err := svc.Create(context.Background(), testMerchant(), nil, services.CreatePaymentCommand{
			Method:   "PIX",
			Amount:   decimal.NewFromInt(-1),
			Currency: "BRL",
		})

		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidInput, svcErr.Code)
	})

	t.Run("saturated pool leaves payment pending", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		svc := newService(repo, fixedPolicy{}, &MockNotifier{}, dropSubmitter{err: errWorkerFull})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("10.00", 1))

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, repo.Stored(payment.ID).Status)
	})
}

func TestPaymentService_Get(t *testing.T) {
	repo := NewMockPaymentRepository()
	notifier := &MockNotifier{}
	svc := newService(repo, fixedPolicy{}, notifier, dropSubmitter{})

	created, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("10.00", 1))
	require.NoError(t, err)

	t.Run("owner reads own payment", func(t *testing.T) {
		payment, err := svc.Get(context.Background(), testMerchant(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, payment.ID)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), testMerchant(), "pay_missing")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))
	})

	t.Run("other merchant is forbidden", func(t *testing.T) {
		other := &domain.Merchant{ID: 2, Status: domain.MerchantActive}
		_, err := svc.Get(context.Background(), other, created.ID)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeForbidden))
	})
}

func TestPaymentService_Refund(t *testing.T) {
	t.Run("refunds settled payment and notifies once", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		notifier := &MockNotifier{}
		svc := newService(repo, fixedPolicy{fail: false}, notifier, syncSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("10.00", 1))
		require.NoError(t, err)
		require.Equal(t, domain.StatusApproved, repo.Stored(payment.ID).Status)
		require.Equal(t, 1, notifier.SendCount())

		receipt, err := svc.Refund(context.Background(), testMerchant(), payment.ID)

		require.NoError(t, err)
		assert.Regexp(t, `^ref_[0-9a-f-]{36}$`, receipt.ID)
		assert.Equal(t, services.RefundStatusPending, receipt.Status)
		assert.Equal(t, domain.StatusRefunded, repo.Stored(payment.ID).Status)
		// one notification for settlement, one for the refund transition
		assert.Equal(t, 2, notifier.SendCount())
		assert.Equal(t, domain.StatusRefunded, notifier.Sends[1])
	})

	t.Run("refund of pending payment wins over late settlement", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		notifier := &MockNotifier{}
		svc := newService(repo, fixedPolicy{}, notifier, dropSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("10.00", 1))
		require.NoError(t, err)

		_, err = svc.Refund(context.Background(), testMerchant(), payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, repo.Stored(payment.ID).Status)
	})

	t.Run("second refund conflicts", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		notifier := &MockNotifier{}
		svc := newService(repo, fixedPolicy{}, notifier, dropSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("10.00", 1))
		require.NoError(t, err)

		_, err = svc.Refund(context.Background(), testMerchant(), payment.ID)
		require.NoError(t, err)

		_, err = svc.Refund(context.Background(), testMerchant(), payment.ID)
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidState, svcErr.Code)
		assert.Equal(t, 1, notifier.SendCount())
	})

	t.Run("other merchant cannot refund", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		notifier := &MockNotifier{}
		svc := newService(repo, fixedPolicy{}, notifier, dropSubmitter{})

		payment, err := svc.Create(context.Background(), testMerchant(), nil, cardCommand("10.00", 1))
		require.NoError(t, err)

		other := &domain.Merchant{ID: 9, Status: domain.MerchantActive}
		_, err = svc.Refund(context.Background(), other, payment.ID)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeForbidden))
		assert.Zero(t, notifier.SendCount())
	})
}
