package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

// ContentService is a testify mock for handler.ContentService.
type ContentService struct {
	mock.Mock
}

func (m *ContentService) ListUpdates(ctx context.Context) ([]model.Update, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Update), args.Error(1)
}

func (m *ContentService) SaveUpdate(ctx context.Context, in model.Update) (model.Update, bool, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Update), args.Bool(1), args.Error(2)
}

func (m *ContentService) DeleteUpdate(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *ContentService) UploadImage(ctx context.Context, slug, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, slug, filename, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *ContentService) DeleteImage(ctx context.Context, slug, filename string) error {
	args := m.Called(ctx, slug, filename)
	return args.Error(0)
}
