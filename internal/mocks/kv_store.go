package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// KVStore is a testify mock for model.KVStore.
type KVStore struct {
	mock.Mock
}

func (m *KVStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *KVStore) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
