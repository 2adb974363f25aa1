package mocks

import (
	"context"

	"github.com/Behyna/pawn-services/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, exchange string, routingKey string, msg mq.Message) error {
	args := m.Called(ctx, exchange, routingKey, msg)
	return args.Error(0)
}
