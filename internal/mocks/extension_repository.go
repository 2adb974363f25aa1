package mocks

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/stretchr/testify/mock"
)

type ExtensionRepository struct {
	mock.Mock
}

func (m *ExtensionRepository) Create(ctx context.Context, extension *model.Extension) error {
	args := m.Called(ctx, extension)
	return args.Error(0)
}

func (m *ExtensionRepository) Update(ctx context.Context, extension *model.Extension) error {
	args := m.Called(ctx, extension)
	return args.Error(0)
}

func (m *ExtensionRepository) GetByID(ctx context.Context, id int64) (*model.Extension, error) {
	args := m.Called(ctx, id)
	extension, _ := args.Get(0).(*model.Extension)
	return extension, args.Error(1)
}

func (m *ExtensionRepository) ListByTransaction(ctx context.Context, transactionID int64, includeCancelled bool) ([]model.Extension, error) {
	args := m.Called(ctx, transactionID, includeCancelled)
	extensions, _ := args.Get(0).([]model.Extension)
	return extensions, args.Error(1)
}

func (m *ExtensionRepository) CountCancelledSince(ctx context.Context, transactionID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, transactionID, since)
	return args.Get(0).(int64), args.Error(1)
}
