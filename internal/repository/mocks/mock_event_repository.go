package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tenanthub/internal/model"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Append(ctx context.Context, ev *model.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockEventRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.Event, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}
