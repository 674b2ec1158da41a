package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tenanthub/internal/model"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, originalFilename string, size int64, contentType string, user model.User, level model.AccessLevel) (*model.Document, error) {
	args := m.Called(ctx, r, originalFilename, size, contentType, user, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListAccessible(ctx context.Context, user model.User) ([]model.Document, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) FindForDownload(ctx context.Context, id string, user model.User) (*model.Document, io.ReadCloser, error) {
	args := m.Called(ctx, id, user)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Document), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string, user model.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}
