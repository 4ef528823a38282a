package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

// ContentStore is a testify mock for model.ContentStore.
type ContentStore struct {
	mock.Mock
}

func (m *ContentStore) Read(ctx context.Context, path string) (model.StoredFile, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(model.StoredFile), args.Error(1)
}

func (m *ContentStore) List(ctx context.Context, dir string) ([]model.FileEntry, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileEntry), args.Error(1)
}

func (m *ContentStore) Write(ctx context.Context, path string, content []byte, revision string, message string) error {
	args := m.Called(ctx, path, content, revision, message)
	return args.Error(0)
}

func (m *ContentStore) Delete(ctx context.Context, path string, revision string, message string) error {
	args := m.Called(ctx, path, revision, message)
	return args.Error(0)
}
