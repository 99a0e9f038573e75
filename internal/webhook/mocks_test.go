package webhook_test

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/fiadopay/gateway/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func strPtr(s string) *string { return &s }

func activeMerchant(id int64, webhookURL string) *domain.Merchant {
	return &domain.Merchant{
		ID:         id,
		Name:       "Loja Teste",
		WebhookURL: &webhookURL,
		Status:     domain.MerchantActive,
	}
}

// syncSubmitter runs tasks inline so tests observe the full retry loop.
type syncSubmitter struct{}

func (syncSubmitter) Submit(task func(ctx context.Context)) error {
	task(context.Background())
	return nil
}

// stubDirectory serves a single merchant.
type stubDirectory struct {
	merchant *domain.Merchant
	err      error
}

func (s *stubDirectory) FindByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.merchant, nil
}

// memDeliveries is an in-memory DeliveryRepository. It hands out copies so
// the worker's fresh-read-per-attempt behavior is exercised for real.
type memDeliveries struct {
	mu           sync.Mutex
	seq          int64
	rows         map[int64]*domain.WebhookDelivery
	dropOnReload bool
}

func newMemDeliveries() *memDeliveries {
	return &memDeliveries{rows: make(map[int64]*domain.WebhookDelivery)}
}

func (m *memDeliveries) Create(ctx context.Context, delivery *domain.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	delivery.ID = m.seq
	clone := *delivery
	m.rows[delivery.ID] = &clone
	return nil
}

func (m *memDeliveries) FindByID(ctx context.Context, id int64) (*domain.WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropOnReload {
		return nil, nil
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (m *memDeliveries) RecordAttempt(ctx context.Context, delivery *domain.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *delivery
	m.rows[delivery.ID] = &clone
	return nil
}

func (m *memDeliveries) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memDeliveries) first() *domain.WebhookDelivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		clone := *row
		return &clone
	}
	return nil
}
