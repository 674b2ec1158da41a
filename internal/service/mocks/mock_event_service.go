package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tenanthub/internal/model"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateAndPublish(ctx context.Context, tenantID, message string) (*model.Event, error) {
	args := m.Called(ctx, tenantID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}
