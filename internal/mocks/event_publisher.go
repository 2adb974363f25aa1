package mocks

import (
	"context"

	"github.com/Behyna/pawn-services/internal/service"
	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event service.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
