package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/domain"
)

var errWorkerFull = errors.New("worker pool queue is full")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// MockPaymentRepository keeps payments in memory and hands out copies, so
// services observe the same read-modify-write behavior as the real store.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateFn               func(ctx context.Context, payment *domain.Payment) error
	FindByIDFn             func(ctx context.Context, id string) (*domain.Payment, error)
	FindByIdempotencyKeyFn func(ctx context.Context, merchantID int64, key string) (*domain.Payment, error)
	UpdateStatusFn         func(ctx context.Context, payment *domain.Payment) error

	CreateCalls int
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, payment)
	}
	if payment.IdempotencyKey != nil {
		for _, p := range m.payments {
			if p.MerchantID == payment.MerchantID &&
				p.IdempotencyKey != nil &&
				*p.IdempotencyKey == *payment.IdempotencyKey {
				return application.ErrDuplicateIdempotencyKey
			}
		}
	}
	clone := *payment
	m.payments[payment.ID] = &clone
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *MockPaymentRepository) FindByIdempotencyKey(ctx context.Context, merchantID int64, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByIdempotencyKeyFn != nil {
		return m.FindByIdempotencyKeyFn(ctx, merchantID, key)
	}
	for _, p := range m.payments {
		if p.MerchantID == merchantID && p.IdempotencyKey != nil && *p.IdempotencyKey == key {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, payment)
	}
	clone := *payment
	m.payments[payment.ID] = &clone
	return nil
}

func (m *MockPaymentRepository) Stored(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil
	}
	clone := *p
	return &clone
}

// MockNotifier records each dispatched payment state.
type MockNotifier struct {
	mu    sync.Mutex
	Sends []domain.PaymentStatus
}

func (m *MockNotifier) Send(ctx context.Context, payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, payment.Status)
}

func (m *MockNotifier) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sends)
}

// syncSubmitter executes tasks inline so tests run settlement to completion.
type syncSubmitter struct{}

func (syncSubmitter) Submit(task func(ctx context.Context)) error {
	task(context.Background())
	return nil
}

// dropSubmitter simulates a saturated pool.
type dropSubmitter struct{ err error }

func (d dropSubmitter) Submit(task func(ctx context.Context)) error { return d.err }

// fixedPolicy forces the settlement outcome.
type fixedPolicy struct{ fail bool }

func (p fixedPolicy) ShouldFail() bool { return p.fail }

// countingPolicy additionally tracks how many decisions were drawn.
type countingPolicy struct {
	mu    sync.Mutex
	fail  bool
	draws int
}

func (p *countingPolicy) ShouldFail() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draws++
	return p.fail
}

func (p *countingPolicy) Draws() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draws
}
