package mocks

import (
	"context"

	"github.com/nbarrett/tallysheet/internal/repository"
	"github.com/stretchr/testify/mock"
)

// LedgerStore is a mock for repository.LedgerStore.
type LedgerStore struct {
	mock.Mock
}

func (m *LedgerStore) ReadRows(ctx context.Context, tenant string) ([]repository.LedgerRow, error) {
	args := m.Called(ctx, tenant)
	if rows, ok := args.Get(0).([]repository.LedgerRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerStore) Append(ctx context.Context, row repository.LedgerRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

// RosterStore is a mock for repository.RosterStore.
type RosterStore struct {
	mock.Mock
}

func (m *RosterStore) ReadRows(ctx context.Context, tenant string) ([]repository.RosterRow, error) {
	args := m.Called(ctx, tenant)
	if rows, ok := args.Get(0).([]repository.RosterRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterStore) Append(ctx context.Context, tenant, subject string) error {
	args := m.Called(ctx, tenant, subject)
	return args.Error(0)
}
