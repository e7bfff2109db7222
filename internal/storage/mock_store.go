package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, contentType string, localPath string) (string, error) {
	args := m.Called(ctx, key, contentType, localPath)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
